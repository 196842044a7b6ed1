package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/adbpilot/pkg/domain"
)

// ReportMarkdown formats a plan report as a markdown table, one row per step.
func ReportMarkdown(report domain.PlanReport) string {
	var b strings.Builder

	b.WriteString("# Plan report\n\n")
	if report.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`: ", report.RunID)
	}
	failed := report.Failed()
	fmt.Fprintf(&b, "%d step(s), %d succeeded, %d failed.\n\n", len(report.Results), len(report.Results)-failed, failed)

	if len(report.Results) == 0 {
		b.WriteString("_Empty plan._\n")
		return b.String()
	}

	b.WriteString("| # | Action | Status | Detail | Reasoning |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for i, res := range report.Results {
		status, detail := "ok", res.Output
		if !res.Success {
			status, detail = "FAILED", res.Error
		}
		fmt.Fprintf(&b, "| %d | `%s` | %s | %s | %s |\n",
			i+1, res.Step, status, cell(detail), cell(res.Reasoning))
	}
	return b.String()
}

// cell keeps a value on one table row.
func cell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return s
}
