package cmd

import (
	"biblib/core/workspace"
	"biblib/feature/labels"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var labelsOutput string

var generateLabelsCmd = &cobra.Command{
	Use:   "generate-labels",
	Short: "Write the canonical label of every entry",
	Long: `Computes surname-year-hash labels for every library entry and writes them as
key/label pairs. The output format follows the file extension (.yaml/.yml or JSON).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		return a.run("generate-labels", func() error {
			lib, err := workspace.ReadLibrary(a.paths.Library)
			if err != nil {
				return err
			}
			ids, err := workspace.ReadIdentifiers(a.paths.Identifiers)
			if err != nil {
				return err
			}

			out := labelsOutput
			if out == "" {
				out = a.paths.Labels
			}
			batch := labels.GenerateAll(lib, ids)
			if err := labels.Export(out, batch); err != nil {
				return err
			}
			a.logger.Info("Labels written", zap.String("path", out), zap.Int("count", len(batch)))
			ok(cmd.OutOrStdout(), "%d labels written to %s", len(batch), out)
			return nil
		})
	},
}

func init() {
	generateLabelsCmd.Flags().StringVarP(&labelsOutput, "output", "o", "", "Output file (default from workspace.labels)")
	RootCmd.AddCommand(generateLabelsCmd)
}
