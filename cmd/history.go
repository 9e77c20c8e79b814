package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"biblib/feature/journal"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent workspace changes from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if a.store == nil {
			return errors.New("journal is not available (set database.enabled)")
		}
		return a.run("history", func() error {
			events, err := a.store.Recent(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no events recorded"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), eventTable(events))
			return nil
		})
	},
}

func eventTable(events []journal.Event) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "WHEN", "ACTION", "ENTRIES", "DETAIL").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, ev := range events {
		t.Row(
			strconv.FormatUint(uint64(ev.ID), 10),
			ev.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			ev.Action,
			summarizeKeys(ev.Keys()),
			ev.Detail,
		)
	}
	return t.Render()
}

func summarizeKeys(keys []string) string {
	const shown = 3
	if len(keys) <= shown {
		return strings.Join(keys, ", ")
	}
	return fmt.Sprintf("%s (+%d)", strings.Join(keys[:shown], ", "), len(keys)-shown)
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", journal.DefaultLimit, "Number of events to show (0 for all)")
	RootCmd.AddCommand(historyCmd)
}
