// Package main provides the nrs CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "nrs",
		Version: version,
		Usage:   "Inspect nrs source the way the language server sees it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "column unit for positions: utf-16 or utf-32 (default from .nrs.yaml)",
			},
		},
		Commands: []*cli.Command{
			checkCommand(),
			hoverCommand(),
			hintsCommand(),
			tokensCommand(),
			highlightCommand(),
		},
	}
}
