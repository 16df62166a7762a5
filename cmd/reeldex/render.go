package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func renderOutcome(out io.Writer, outcome processOutcome, colorize bool) {
	if outcome.Error != "" {
		fmt.Fprintf(out, "%s %s\n", paint("FAIL", ansiRed, colorize), outcome.Path)
		fmt.Fprintf(out, "     %s\n", outcome.Error)
		return
	}

	label := paint("OK", ansiGreen, colorize)
	if len(outcome.Warnings) > 0 {
		label = paint("WARN", ansiYellow, colorize)
	}
	fmt.Fprintf(out, "%s %s\n", label, outcome.Path)
	fmt.Fprintf(out, "     -> %s\n", outcome.Standardized)
	if video := outcome.Video; video != nil && video.EnrichmentUsed {
		fmt.Fprintf(out, "     enriched via %s\n", joinSources(video.EnrichmentSources))
	}
	for _, warning := range outcome.Warnings {
		fmt.Fprintf(out, "     warning: %s\n", warning)
	}
}

func paint(label, color string, colorize bool) string {
	if !colorize {
		return label
	}
	return color + label + ansiReset
}

func joinSources(sources []string) string {
	if len(sources) == 0 {
		return "none"
	}
	joined := sources[0]
	for _, source := range sources[1:] {
		joined += ", " + source
	}
	return joined
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
