package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the stepform banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`     _                __                      `, "#818cf8"},
		{` ___| |_ ___ _ __    / _| ___  _ __ _ __ ___  `, "#a78bfa"},
		{`/ __| __/ _ \ '_ \  | |_ / _ \| '__| '_ ' _ \ `, "#c084fc"},
		{`\__ \ ||  __/ |_) | |  _| (_) | |  | | | | | |`, "#e879f9"},
		{`|___/\__\___| .__/  |_|  \___/|_|  |_| |_| |_|`, "#f472b6"},
		{`            |_|                               `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Error styles a message for stderr.
func Error(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String("✗ " + msg).Foreground(p.Color("#f87171")).Bold().String()
}

// Success styles a confirmation message.
func Success(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String("✓ " + msg).Foreground(p.Color("#4ade80")).String()
}
