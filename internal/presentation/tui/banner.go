package tui

import (
	"fmt"
	"io"
)

var bannerLines = []struct {
	text, color string
}{
	{" _____          _             ", "#818cf8"},
	{"|_   _|   _ _ _(_)_ __   __ _ ", "#a78bfa"},
	{"  | || | | | '__| | '_ \\ / _` |", "#c084fc"},
	{"  | || |_| | |  | | | | | (_| |", "#e879f9"},
	{"  |_| \\__,_|_|  |_|_| |_|\\__, |", "#f472b6"},
	{"                         |___/ ", "#fb7185"},
}

// PrintBanner writes the Turing banner to w, colored when w supports it.
func PrintBanner(w io.Writer) {
	p := Profile(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
