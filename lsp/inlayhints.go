package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nrs-lang/nrs/analysis"
)

// go.lsp.dev/protocol v0.12.0 predates LSP 3.17, so the inlay hint request
// and result shapes are declared here and served by Handler.

// InlayHintKind is the LSP inlay hint kind.
type InlayHintKind uint32

// Inlay hint kinds.
const (
	InlayHintKindType      InlayHintKind = 1
	InlayHintKindParameter InlayHintKind = 2
)

// InlayHintParams are the params of textDocument/inlayHint.
type InlayHintParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Range        protocol.Range                  `json:"range"`
}

// InlayHint is a single LSP inlay hint.
type InlayHint struct {
	Position    protocol.Position `json:"position"`
	Label       string            `json:"label"`
	Kind        InlayHintKind     `json:"kind,omitempty"`
	PaddingLeft bool              `json:"paddingLeft,omitempty"`
}

// PathParams are the params of custom/inlay_hint. Path is the document URI
// as it was opened.
type PathParams struct {
	Path string `json:"path"`
}

// InlayHints returns the inferred-type hints of uri ordered by anchor. It is
// empty for unknown or untyped documents and when hints are disabled.
func (s *Server) InlayHints(uri protocol.DocumentURI) []analysis.InlayHint {
	if !s.Config().HintsEnabled() {
		return nil
	}

	snap, ok := s.snapshot(uri)
	if !ok || !snap.Typed() {
		return nil
	}

	hints, _ := guard(s, "inlayHints", uri, func() ([]analysis.InlayHint, error) {
		collected := analysis.CollectHints(snap.File.Forest)

		return analysis.HintTriples(collected, snap.File.Table), nil
	})

	return hints
}

// InlayHint handles textDocument/inlayHint.
func (s *Server) InlayHint(_ context.Context, params *InlayHintParams) ([]InlayHint, error) {
	s.logger.Debug("InlayHint", zap.String("uri", string(params.TextDocument.URI)))

	snap, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return []InlayHint{}, nil
	}

	lines := snap.File.Lines
	start := positionToOffset(lines, params.Range.Start)
	end := positionToOffset(lines, params.Range.End)

	out := []InlayHint{}

	for _, h := range s.InlayHints(params.TextDocument.URI) {
		if h.Start < start || h.Start > end {
			continue
		}

		out = append(out, InlayHint{
			Position: offsetToPosition(lines, h.Start),
			Label:    ": " + h.Label,
			Kind:     InlayHintKindType,
		})
	}

	return out, nil
}

// PathInlayHints handles custom/inlay_hint, answering with
// [start, end, label] triples in byte offsets.
func (s *Server) PathInlayHints(_ context.Context, params *PathParams) ([][3]any, error) {
	s.logger.Debug("PathInlayHints", zap.String("path", params.Path))

	hints := s.InlayHints(protocol.DocumentURI(params.Path))

	out := make([][3]any, 0, len(hints))
	for _, h := range hints {
		out = append(out, [3]any{h.Start, h.End, h.Label})
	}

	return out, nil
}
