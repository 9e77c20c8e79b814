package cmd

import (
	"biblib/feature/sorting"

	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:       "sort <alphabetical|add-order>",
	Short:     "Reorder the library and identifier collection",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(sorting.Alphabetical), string(sorting.AddOrder)},
	Long: `Rewrites the library and the identifier collection in key order or in the
order entries were added. The add-order list itself is never modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := sorting.ParseMode(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		svc := sorting.NewService(a.paths, a.backups, a.journal, a.logger)
		return a.run("sort", func() error {
			res, err := svc.Sort(ctx, mode)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ok(out, "%d entries sorted (%s)", res.Entries, res.Mode)
			for _, k := range res.AbsentFromLibrary {
				warn(out, "%s: listed but not in the library", k)
			}
			for _, k := range res.UnlistedEntries {
				warn(out, "%s: entry not in the add order, appended", k)
			}
			for _, k := range res.AbsentFromIdentifiers {
				warn(out, "%s: listed but has no identifier record", k)
			}
			for _, k := range res.UnlistedIdentifiers {
				warn(out, "%s: identifier record not in the add order, appended", k)
			}
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(sortCmd)
}
