package cmd

import (
	"fmt"
	"io"
	"strings"

	"biblib/core/reconcile"
	"biblib/feature/labels"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	keyStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

func title(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}

func ok(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, okStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

func fail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, errStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

func list(w io.Writer, items []string) {
	for _, it := range items {
		fmt.Fprintln(w, keyStyle.Render(it))
	}
}

// renderConsistency prints the per-store discrepancies of a report.
func renderConsistency(w io.Writer, r reconcile.Report) {
	title(w, "Consistency")
	if r.Consistent() {
		ok(w, "%d keys present in all stores", len(r.Results))
		return
	}
	for _, src := range r.Sources() {
		if src.Clean() {
			fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  %s: %d keys, clean", src.Source, src.Total)))
			continue
		}
		fail(w, "%s (%d keys)", src.Source, src.Total)
		section(w, "missing", src.MissingFrom)
		section(w, "only here", src.OnlyIn)
		section(w, "duplicated", src.Duplicates)
	}
}

func section(w io.Writer, name string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintln(w, keyStyle.Render(name+":"))
	list(w, indent(keys))
}

func indent(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = "  " + k
	}
	return out
}

// renderMismatches prints keys that differ from their labels.
func renderMismatches(w io.Writer, m labels.Assignments) {
	title(w, "Labels")
	if len(m) == 0 {
		ok(w, "every key matches its generated label")
		return
	}
	fail(w, "%d keys differ from their generated label", len(m))
	lines := make([]string, len(m))
	for i, a := range m {
		lines[i] = fmt.Sprintf("%s -> %s", a.Key, a.Label)
	}
	list(w, lines)
}

// renderPlan prints the renames and collisions of a fix plan.
func renderPlan(w io.Writer, p *reconcile.ReconcilePlan) {
	title(w, "Fix plan")
	s := p.Summary
	fmt.Fprintf(w, "  entries: %d  unchanged: %d  renames: %d  collisions: %d\n",
		s.TotalItems, s.Unchanged, s.RenameActions, s.Collisions)
	for _, a := range p.Actions {
		fmt.Fprintln(w, keyStyle.Render(fmt.Sprintf("%s -> %s", a.Key, a.NewKey)))
	}
	for _, c := range p.Collisions {
		fail(w, "%s claimed by %s", c.Target, strings.Join(c.Keys, ", "))
	}
}
