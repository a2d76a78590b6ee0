// Package style renders plans, results and status reports for the terminal.
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/reconcile"
	"github.com/pterm/pterm"
)

// TerminalRenderer turns engine output into styled text
type TerminalRenderer struct{}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

// RenderPlan lists the copies a plan will make
func (r *TerminalRenderer) RenderPlan(plan *reconcile.Plan) string {
	if len(plan.Actions) == 0 {
		return Render("Muted", "Nothing to do")
	}

	var b strings.Builder
	b.WriteString(Render("Title", fmt.Sprintf("%s: %d file(s)", plan.Operation, len(plan.Actions))))
	b.WriteString("\n")
	for _, a := range plan.Actions {
		b.WriteString(r.renderAction(a, Render("Pending", PendingMark)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderResult summarizes an applied plan
func (r *TerminalRenderer) RenderResult(result *reconcile.Result) string {
	if result.DryRun {
		return Render("Warning", WarningMark) + " " +
			Render("Muted", fmt.Sprintf("Dry run: %d file(s) would be copied, nothing was changed", len(result.Applied)))
	}
	if len(result.Applied) == 0 {
		return Render("Muted", "Nothing to do")
	}

	var b strings.Builder
	for _, a := range result.Applied {
		b.WriteString(r.renderAction(a, Render("Success", SuccessMark)))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%s %s", pterm.Success.Prefix.Text,
		Render("Success", fmt.Sprintf("%d file(s) copied", len(result.Applied)))))
	return b.String()
}

func (r *TerminalRenderer) renderAction(a reconcile.Action, mark string) string {
	repo := a.RepoRelative
	if repo == "" {
		repo = "(new)"
	}
	return Get("Item").Render(fmt.Sprintf("%s %s %s %s",
		mark,
		Render("Path", "~/"+a.HomeRelative),
		Render("Muted", arrow(a.Direction)),
		Render("RepoPath", repo)))
}

func arrow(d reconcile.Direction) string {
	if d == reconcile.HomeToRepo {
		return "→"
	}
	return "←"
}

// RenderProblems lists every validation problem of a rejected plan
func (r *TerminalRenderer) RenderProblems(problems []*errors.Error) string {
	var b strings.Builder
	for _, p := range problems {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			Render("Error", ErrorMark),
			Render("Code", string(p.Code)),
			p.Message))
	}
	b.WriteString(fmt.Sprintf("%s %s",
		pterm.Error.Prefix.Text,
		Render("Error", fmt.Sprintf("%d problem(s) found, no file was copied", len(problems)))))
	return b.String()
}

// RenderError formats an error for display
func (r *TerminalRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %s", Render("Error", pterm.Error.Prefix.Text), err.Error())
}

// RenderStatus shows the state of every selected file
func (r *TerminalRenderer) RenderStatus(report *reconcile.StatusReport) string {
	var b strings.Builder
	b.WriteString(Render("Title", fmt.Sprintf("Tracked files on %s", report.Host)))
	b.WriteString("\n")

	if len(report.Files) == 0 {
		b.WriteString(Get("Item").Render(Render("Muted", "No tracked files")))
		b.WriteString("\n")
	}

	width := 0
	for _, f := range report.Files {
		if l := len(f.Entry.HomeRelative) + 2; l > width {
			width = l
		}
	}
	for _, f := range report.Files {
		name := fmt.Sprintf("%-*s", width, "~/"+f.Entry.HomeRelative)
		b.WriteString(Get("Item").Render(fmt.Sprintf("%s %s %s %s",
			stateMark(f.State),
			Render("Path", name),
			Render(stateStyle(f.State), fmt.Sprintf("%-17s", f.State)),
			Render("Muted", f.Entry.RepoRelative))))
		b.WriteString("\n")
	}

	for _, raw := range report.Unmatched {
		b.WriteString(Get("Item").Render(fmt.Sprintf("%s %s %s",
			Render("Warning", WarningMark), raw, Render("Muted", "is not tracked"))))
		b.WriteString("\n")
	}

	if summary := summarize(report.Counts()); summary != "" {
		b.WriteString(Render("Muted", summary))
	}
	return strings.TrimRight(b.String(), "\n")
}

func summarize(counts map[reconcile.State]int) string {
	states := make([]string, 0, len(counts))
	for state := range counts {
		states = append(states, string(state))
	}
	sort.Strings(states)

	parts := make([]string, 0, len(states))
	for _, s := range states {
		parts = append(parts, fmt.Sprintf("%d %s", counts[reconcile.State(s)], s))
	}
	return strings.Join(parts, ", ")
}

func stateStyle(s reconcile.State) string {
	switch s {
	case reconcile.StateInSync:
		return "InSync"
	case reconcile.StateHomeModified, reconcile.StateRepoModified, reconcile.StateBothModified:
		return "Modified"
	case reconcile.StateHomeMissing, reconcile.StateRepoMissing:
		return "Missing"
	default:
		return "Pending"
	}
}

func stateMark(s reconcile.State) string {
	switch stateStyle(s) {
	case "InSync":
		return Render("Success", SuccessMark)
	case "Modified":
		return Render("Warning", WarningMark)
	case "Missing":
		return Render("Error", ErrorMark)
	default:
		return Render("Pending", PendingMark)
	}
}
