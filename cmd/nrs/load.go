package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/analysis"
)

var (
	errNoNrsFiles    = errors.New("no .nrs files found")
	errMissingFile   = errors.New("missing FILE argument")
	errInvalidOffset = errors.New("OFFSET must be a non-negative byte offset")
)

// loadConfig reads the nearest .nrs.yaml above the working directory and
// applies the --encoding flag on top.
func loadConfig(cmd *cli.Command) (*nrs.Config, error) {
	cfg, err := nrs.LoadConfig(".")
	if errors.Is(err, nrs.ErrConfigNotFound) {
		cfg, err = nrs.DefaultConfig(), nil
	}

	if err != nil {
		return nil, err
	}

	if enc := cmd.String("encoding"); enc != "" {
		cfg.PositionEncoding = enc

		err := cfg.Validate()
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func newAnalyzer(cmd *cli.Command, rules bool) (*analysis.Analyzer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	enc, _ := analysis.ParseEncoding(cfg.PositionEncoding)
	if !rules {
		return analysis.NewAnalyzerWithRules(enc, nil), nil
	}

	return analysis.NewAnalyzer(enc), nil
}

// analyzeArg analyzes the file named by the first argument.
func analyzeArg(cmd *cli.Command) (*analysis.AnalyzedFile, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, errMissingFile
	}

	analyzer, err := newAnalyzer(cmd, false)
	if err != nil {
		return nil, err
	}

	return analyzeFile(analyzer, path)
}

func analyzeFile(analyzer *analysis.Analyzer, path string) (*analysis.AnalyzedFile, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- paths come from user args
	if err != nil {
		return nil, err
	}

	return analyzer.Analyze(path, string(data)), nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, arg)

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && strings.HasSuffix(path, ".nrs") {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}

	return files, nil
}
