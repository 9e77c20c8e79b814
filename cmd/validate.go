package cmd

import (
	"errors"
	"fmt"

	"biblib/core/reconcile"
	"biblib/feature/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixKeys    bool
	dryRunFix  bool
	yesConfirm bool
)

var errNotValid = errors.New("workspace is not valid")

// validateCmd checks the workspace and optionally renames drifted keys.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check store consistency and canonical keys",
	Long: `Checks that the library, the identifier collection and the add-order list hold
the same keys, and that every key equals its generated label.

With --fix, keys that differ from their label are renamed in all three stores at once
after a backup. The stores must be consistent first.

Examples:
  # Report only
  blx validate

  # Show the renames without applying them
  blx validate --fix --dry-run

  # Apply without the interactive prompt
  blx validate --fix --yes`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&fixKeys, "fix", false, "Rename keys that differ from their generated label")
	validateCmd.Flags().BoolVar(&dryRunFix, "dry-run", false, "Report the renames without applying them")
	validateCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the renames (non-interactive)")

	RootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	svc := validate.NewService(a.paths, a.backups, a.journal, a.logger)
	out := cmd.OutOrStdout()

	if !fixKeys {
		return a.run("validate", func() error {
			res, err := svc.Validate(ctx)
			if err != nil {
				return err
			}
			renderConsistency(out, res.Report)
			renderMismatches(out, res.Mismatches)
			for _, k := range res.Dangling {
				warn(out, "%s: main identifier not among its identifiers", k)
			}
			if !res.OK() {
				return errNotValid
			}
			return nil
		})
	}

	return a.run("fix", func() error {
		fp, err := svc.PlanFix(ctx)
		if fp != nil {
			renderPlan(out, fp.Plan)
		}
		if err != nil {
			return err
		}
		if fp.Plan.Empty() {
			ok(out, "every key already matches its generated label")
			return nil
		}
		if dryRunFix {
			a.logger.Info("Dry-run mode: no changes were made")
			return nil
		}
		if !confirm(out, cmd.InOrStdin(), yesConfirm, fmt.Sprintf("Rename %d keys in all stores?", len(fp.Plan.Actions))) {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		executed, err := svc.ApplyFix(ctx, fp, reconcile.ReconcileOptions{Confirmed: true})
		if err != nil {
			return err
		}
		a.logger.Info("Renamed keys", zap.Int("count", executed))
		ok(out, "renamed %d keys", executed)
		return nil
	})
}
