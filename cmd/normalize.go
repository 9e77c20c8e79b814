package cmd

import (
	"strings"

	"biblib/feature/normalize"

	"github.com/spf13/cobra"
)

var normalizeDryRun bool

var normalizeCmd = &cobra.Command{
	Use:   "normalize <rule>",
	Short: "Apply a text normalization to every entry",
	Args:  cobra.ExactArgs(1),
	Long: `Applies one normalization rule to the library:

  year-to-date        rename year to date when no date is set
  publisher-location  split "Publisher, City" into publisher and location
  eprint-fields       use biblatex eprint field names
  latex-accents       replace LaTeX accent commands with Unicode characters`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rule, err := normalize.ParseRule(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		svc := normalize.NewService(a.paths, a.backups, a.journal, a.logger)
		return a.run("normalize", func() error {
			rep, err := svc.Normalize(ctx, rule, normalizeDryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			lines := make([]string, len(rep.Changes))
			for i, c := range rep.Changes {
				lines[i] = c.String()
			}
			list(out, lines)
			if len(rep.Flagged) > 0 {
				warn(out, "needs review: %s", strings.Join(rep.Flagged, ", "))
			}
			switch {
			case len(rep.Changes) == 0:
				ok(out, "nothing to normalize")
			case rep.DryRun:
				warn(out, "dry run: %d changes in %d entries not written", len(rep.Changes), len(rep.Keys()))
			default:
				ok(out, "%d changes in %d entries", len(rep.Changes), len(rep.Keys()))
			}
			return nil
		})
	},
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeDryRun, "dry-run", false, "Show the changes without writing")
	RootCmd.AddCommand(normalizeCmd)
}
