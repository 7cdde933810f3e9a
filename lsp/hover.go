package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nrs-lang/nrs/analysis"
)

// Hover handles textDocument/hover requests.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	snap, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	lines := snap.File.Lines

	offset := positionToOffset(lines, params.Position)
	if offsetToPosition(lines, offset) != params.Position {
		// Clamped: the position is past the end of its line or the document.
		return nil, nil //nolint:nilnil
	}

	label, ok := s.hoverText(snap, offset)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: "```nrs\n" + label + "\n```",
		},
	}, nil
}

// HoverText returns the rendered type of the innermost typed construct at
// byte offset in uri.
func (s *Server) HoverText(uri protocol.DocumentURI, offset int) (string, bool) {
	snap, ok := s.snapshot(uri)
	if !ok {
		return "", false
	}

	return s.hoverText(snap, offset)
}

func (s *Server) hoverText(snap *Snapshot, offset int) (string, bool) {
	if !snap.Typed() {
		return "", false
	}

	label, _ := guard(s, "hover", snap.URI, func() (string, error) {
		t := analysis.FindTypeAt(snap.File.Forest, offset)
		if t == nil {
			return "", nil
		}

		label, err := snap.File.Table.Render(t)
		if err != nil {
			s.logger.Warn("Failed to render type", zap.Int("offset", offset), zap.Error(err))

			return "", nil
		}

		return label, nil
	})

	return label, label != ""
}
