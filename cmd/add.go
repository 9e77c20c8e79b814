package cmd

import (
	"biblib/feature/ingest"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Ingest staged entry pairs into the workspace",
	Long: `Moves every complete staging pair (YYYY-MM-DD-slug.bib with its .json) into the
library, the identifier collection and the add-order list. Each entry is relabelled;
entries whose label already exists are skipped. Ingested pairs are removed from staging.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		svc := ingest.NewService(a.paths, a.backups, a.journal, a.logger)
		return a.run("add", func() error {
			res, err := svc.Add(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(res.Added) == 0 && res.Skipped == 0 {
				ok(out, "nothing staged")
				return nil
			}
			list(out, res.Added)
			ok(out, "%d entries added from %d pairs", len(res.Added), len(res.Processed))
			if res.Skipped > 0 {
				warn(out, "%d entries skipped", res.Skipped)
			}
			if res.Backup != "" {
				ok(out, "backup: %s", res.Backup)
			}
			if res.Report != nil && !res.Report.Consistent() {
				renderConsistency(out, *res.Report)
			}
			return nil
		})
	},
}

var templateOverwrite bool

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Draft identifier files for staged entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		svc := ingest.NewService(a.paths, a.backups, a.journal, a.logger)
		return a.run("template", func() error {
			res, err := svc.Template(ctx, templateOverwrite)
			if err != nil {
				return err
			}
			list(cmd.OutOrStdout(), res.Generated)
			ok(cmd.OutOrStdout(), "%d identifier files written", len(res.Generated))
			return nil
		})
	},
}

func init() {
	templateCmd.Flags().BoolVar(&templateOverwrite, "overwrite", false, "Replace existing identifier files")

	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(templateCmd)
}
