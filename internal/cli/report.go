package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/adbpilot/internal/presentation/tui"
	"github.com/aretw0/adbpilot/pkg/domain"
	"golang.org/x/term"
)

// Report output formats.
const (
	FormatAuto     = "auto"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WriteReport prints report in format. FormatAuto renders styled markdown on a terminal
// and JSON everywhere else, so piped output stays machine-readable.
func WriteReport(w io.Writer, report domain.PlanReport, format string) error {
	if format == FormatAuto || format == "" {
		format = FormatJSON
		if IsTerminal(w) {
			return writeStyled(w, report)
		}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatMarkdown:
		_, err := io.WriteString(w, tui.ReportMarkdown(report))
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeStyled(w io.Writer, report domain.PlanReport) error {
	width := 0
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = cols
		}
	}
	render, err := tui.NewRenderer(width)
	if err != nil {
		render = tui.Plain
	}
	out, err := render(tui.ReportMarkdown(report))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
