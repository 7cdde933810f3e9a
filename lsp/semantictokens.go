package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nrs-lang/nrs/analysis"
)

// semanticTokensOptions is the semanticTokensProvider capability.
type semanticTokensOptions struct {
	Legend semanticTokensLegend `json:"legend"`
	Full   bool                 `json:"full"`
	Range  bool                 `json:"range"`
}

type semanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// SemanticTokensFull handles textDocument/semanticTokens/full.
func (s *Server) SemanticTokensFull(_ context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	s.logger.Debug("SemanticTokensFull", zap.String("uri", string(params.TextDocument.URI)))

	return &protocol.SemanticTokens{Data: s.SemanticTokenData(params.TextDocument.URI)}, nil
}

// SemanticTokensFullDelta handles textDocument/semanticTokens/full/delta.
// Results carry no id, so clients always get the full token set.
func (s *Server) SemanticTokensFullDelta(_ context.Context, params *protocol.SemanticTokensDeltaParams) (any, error) {
	s.logger.Debug("SemanticTokensFullDelta", zap.String("uri", string(params.TextDocument.URI)))

	return &protocol.SemanticTokens{Data: s.SemanticTokenData(params.TextDocument.URI)}, nil
}

// SemanticTokensRange handles textDocument/semanticTokens/range.
func (s *Server) SemanticTokensRange(_ context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	s.logger.Debug("SemanticTokensRange", zap.String("uri", string(params.TextDocument.URI)))

	snap, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}

	start := positionToOffset(snap.File.Lines, params.Range.Start)
	end := positionToOffset(snap.File.Lines, params.Range.End)

	return &protocol.SemanticTokens{Data: s.tokenData(snap, start, end)}, nil
}

// SemanticTokenData returns the flattened semantic tokens of uri, or an
// empty slice for unknown documents.
func (s *Server) SemanticTokenData(uri protocol.DocumentURI) []uint32 {
	snap, ok := s.snapshot(uri)
	if !ok {
		return []uint32{}
	}

	return s.tokenData(snap, 0, len(snap.File.Text))
}

// tokenData classifies snap and encodes the spans overlapping [start, end).
func (s *Server) tokenData(snap *Snapshot, start, end int) []uint32 {
	data, _ := guard(s, "semanticTokens", snap.URI, func() ([]uint32, error) {
		f := snap.File
		spans := analysis.Classify(f.Tokens, f.Forest, f.Table)

		if start > 0 || end < len(f.Text) {
			spans = overlapping(spans, start, end)
		}

		tokens, err := analysis.Encode(spans, s.legend, f.Lines)
		if err != nil {
			s.logger.Error("Failed to encode semantic tokens",
				zap.String("uri", string(snap.URI)),
				zap.Error(err))

			return nil, nil
		}

		return analysis.Flatten(tokens), nil
	})

	if data == nil {
		return []uint32{}
	}

	return data
}

func overlapping(spans []analysis.Categorized, start, end int) []analysis.Categorized {
	out := make([]analysis.Categorized, 0, len(spans))

	for _, c := range spans {
		if c.Span.Start < end && c.Span.End > start {
			out = append(out, c)
		}
	}

	return out
}
