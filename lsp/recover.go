package lsp

import (
	"errors"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nrs-lang/nrs/analysis"
)

// guard runs fn and, unless strict coverage is configured, turns a coverage
// gap panic into an empty result. Any other panic propagates.
func guard[T any](s *Server, op string, uri protocol.DocumentURI, fn func() (T, error)) (out T, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		gap, ok := coverageGap(r)
		if !ok || s.Config().StrictCoverage {
			panic(r)
		}

		s.logger.Error("Coverage gap",
			zap.String("op", op),
			zap.String("uri", string(uri)),
			zap.String("traversal", gap.Traversal),
			zap.String("variant", gap.Variant))

		var zero T

		out, err = zero, nil
	}()

	return fn()
}

func coverageGap(r any) (*analysis.CoverageError, bool) {
	err, ok := r.(error)
	if !ok {
		return nil, false
	}

	var gap *analysis.CoverageError
	if errors.As(err, &gap) {
		return gap, true
	}

	return nil, false
}
