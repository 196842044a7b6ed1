package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"            _ _           _ _       _   ", "#34d399"},
	{"   __ _  __| | |__  _ __ (_) | ___ | |_ ", "#2dd4bf"},
	{"  / _` |/ _` | '_ \\| '_ \\| | |/ _ \\| __|", "#22d3ee"},
	{" | (_| | (_| | |_) | |_) | | | (_) | |_ ", "#38bdf8"},
	{"  \\__,_|\\__,_|_.__/| .__/|_|_|\\___/ \\__|", "#60a5fa"},
	{"                   |_|                  ", "#818cf8"},
}

// PrintBanner writes the adbpilot banner followed by a one-line subtitle to w.
// Colors degrade to whatever the terminal supports.
func PrintBanner(w io.Writer, subtitle string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	if subtitle != "" {
		fmt.Fprintln(w, out.String("  "+subtitle).Faint())
	}
	fmt.Fprintln(w)
}
