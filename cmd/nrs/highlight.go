package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nrs-lang/nrs/analysis"
)

func highlightCommand() *cli.Command {
	return &cli.Command{
		Name:      "highlight",
		Usage:     "Print a file coloured by semantic category",
		ArgsUsage: "FILE",
		Action:    runHighlight,
	}
}

func runHighlight(_ context.Context, cmd *cli.Command) error {
	f, err := analyzeArg(cmd)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	spans := analysis.Classify(f.Tokens, f.Forest, f.Table)

	_, err = out.Write([]byte(highlight(DefaultStyles(out), f.Text, spans)))

	return err
}

// highlight renders text with each classified span styled. spans must be
// sorted and non-overlapping.
func highlight(styles *Styles, text string, spans []analysis.Categorized) string {
	var b strings.Builder

	pos := 0

	for _, s := range spans {
		if s.Span.Start < pos || s.Span.End > len(text) {
			continue
		}

		b.WriteString(text[pos:s.Span.Start])
		b.WriteString(styles.Category(s.Category, text[s.Span.Start:s.Span.End]))
		pos = s.Span.End
	}

	b.WriteString(text[pos:])

	return b.String()
}
