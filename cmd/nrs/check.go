package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/nrs-lang/nrs/analysis"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report diagnostics for nrs files (exit 1 on errors)",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-lint",
				Usage: "only report frontend errors",
			},
		},
		Action: runCheck,
	}
}

func runCheck(_ context.Context, cmd *cli.Command) error {
	files, err := collectFiles(cmd.Args().Slice())
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return errNoNrsFiles
	}

	analyzer, err := newAnalyzer(cmd, !cmd.Bool("no-lint"))
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	styles := DefaultStyles(out)
	failed := 0

	for _, path := range files {
		f, err := analyzeFile(analyzer, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if printDiagnostics(out, styles, f) {
			failed++
		}
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d files have errors", failed, len(files)), 1)
	}

	return nil
}

// printDiagnostics writes one line per diagnostic with 1-based positions and
// reports whether any is an error.
func printDiagnostics(w io.Writer, styles *Styles, f *analysis.AnalyzedFile) bool {
	hasErrors := false

	for _, d := range f.Diagnostics {
		line, col := f.Lines.Position(d.Span.Start)

		_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n",
			styles.Render(styles.Path, f.Path), line+1, col+1,
			styles.Severity(d.Severity), d.Message, d.Code)

		if d.Severity == analysis.SeverityError {
			hasErrors = true
		}
	}

	return hasErrors
}
