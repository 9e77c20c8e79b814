package cmd

import (
	"fmt"
	"os"

	"biblib/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// workspaceRoot overrides workspace.root from the configuration.
	workspaceRoot string
	// verbosity counts -v flags.
	verbosity int
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "blx",
	Short: "Bibliography workspace manager",
	Long: `blx keeps a BibTeX library, its identifier collection and its add-order list
consistent, assigns canonical citation keys and ingests staged entries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development config gives readable timestamps on a terminal
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&workspaceRoot, "workspace", "w", "", "workspace root (default from config, \".\")")
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
}
