package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v3"

	"github.com/nrs-lang/nrs/analysis"
)

func hoverCommand() *cli.Command {
	return &cli.Command{
		Name:      "hover",
		Usage:     "Print the type at a byte offset",
		ArgsUsage: "FILE OFFSET",
		Action:    runHover,
	}
}

func runHover(_ context.Context, cmd *cli.Command) error {
	offset, err := strconv.Atoi(cmd.Args().Get(1))
	if err != nil || offset < 0 {
		return errInvalidOffset
	}

	f, err := analyzeArg(cmd)
	if err != nil {
		return err
	}

	if f.Forest == nil {
		return cli.Exit("no types: "+f.Diagnostics[0].Message, 1)
	}

	t := analysis.FindTypeAt(f.Forest, offset)
	if t == nil {
		return cli.Exit(fmt.Sprintf("no type at offset %d", offset), 1)
	}

	label, err := f.Table.Render(t)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.Root().Writer, label)

	return nil
}

func hintsCommand() *cli.Command {
	return &cli.Command{
		Name:      "hints",
		Usage:     "Print inferred-type inlay hints",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print [start, end, label] triples as JSON",
			},
		},
		Action: runHints,
	}
}

func runHints(_ context.Context, cmd *cli.Command) error {
	f, err := analyzeArg(cmd)
	if err != nil {
		return err
	}

	var hints []analysis.InlayHint
	if f.Forest != nil {
		hints = analysis.HintTriples(analysis.CollectHints(f.Forest), f.Table)
	}

	out := cmd.Root().Writer

	if cmd.Bool("json") {
		triples := make([][3]any, 0, len(hints))
		for _, h := range hints {
			triples = append(triples, [3]any{h.Start, h.End, h.Label})
		}

		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)

		return enc.Encode(triples)
	}

	for _, h := range hints {
		line, col := f.Lines.Position(h.Start)
		_, _ = fmt.Fprintf(out, "%d:%d: %s\n", line+1, col+1, h.Label)
	}

	return nil
}

func tokensCommand() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Print encoded semantic tokens, one quintuple per line",
		ArgsUsage: "FILE",
		Action:    runTokens,
	}
}

func runTokens(_ context.Context, cmd *cli.Command) error {
	f, err := analyzeArg(cmd)
	if err != nil {
		return err
	}

	legend := analysis.DefaultLegend()

	tokens, err := analysis.Encode(analysis.Classify(f.Tokens, f.Forest, f.Table), legend, f.Lines)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer

	for _, t := range tokens {
		_, _ = fmt.Fprintf(out, "%d %d %d %d %d\t%s\n",
			t.DeltaLine, t.DeltaStart, t.Length, t.TokenType, t.Modifiers, legend[t.TokenType])
	}

	return nil
}
