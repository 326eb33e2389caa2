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
	{"   ____       _     _      ____        _   ", "#38bdf8"},
	{"  / ___|_   _(_) __| | ___| __ )  ___ | |_ ", "#22d3ee"},
	{" | |  _| | | | |/ _` |/ _ \\  _ \\ / _ \\| __|", "#2dd4bf"},
	{" | |_| | |_| | | (_| |  __/ |_) | (_) | |_ ", "#34d399"},
	{"  \\____|\\__,_|_|\\__,_|\\___|____/ \\___/ \\__|", "#4ade80"},
}

// PrintBanner writes the GuideBot banner to w, coloured when w is a terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
