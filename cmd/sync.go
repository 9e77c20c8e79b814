package cmd

import (
	"biblib/feature/syncids"

	"github.com/spf13/cobra"
)

var (
	syncDryRun bool
	syncFields []string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy identifiers from the identifier collection into entry fields",
	Long: `Writes each entry's recorded identifiers (doi, isbn, url, ...) into the matching
BibTeX fields. Existing values are replaced only when they differ after normalization.

Examples:
  blx sync --dry-run
  blx sync --fields doi,isbn`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		svc := syncids.NewService(a.paths, a.backups, a.journal, a.logger)
		return a.run("sync", func() error {
			res, err := svc.Sync(ctx, syncFields, syncDryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range res.Orphans {
				warn(out, "%s: identifier record without entry", k)
			}
			if len(res.Changes) == 0 {
				ok(out, "all entries already up to date")
				return nil
			}
			lines := make([]string, len(res.Changes))
			for i, c := range res.Changes {
				lines[i] = c.String()
			}
			list(out, lines)
			if res.DryRun {
				warn(out, "dry run: %d changes not written", len(res.Changes))
				return nil
			}
			ok(out, "%d fields updated", len(res.Changes))
			return nil
		})
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show the changes without writing")
	syncCmd.Flags().StringSliceVar(&syncFields, "fields", syncids.DefaultFields, "Fields to sync")
	RootCmd.AddCommand(syncCmd)
}
