package lsp

import (
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/analysis"
)

// spanToRange converts a byte span to an LSP range in the index's encoding.
func spanToRange(lines *analysis.LineIndex, span nrs.Span) protocol.Range {
	return protocol.Range{
		Start: offsetToPosition(lines, span.Start),
		End:   offsetToPosition(lines, span.End),
	}
}

func offsetToPosition(lines *analysis.LineIndex, offset int) protocol.Position {
	line, col := lines.Position(offset)

	return protocol.Position{Line: line, Character: col}
}

// positionToOffset converts an LSP position to a byte offset. Positions past
// the end of a line or document are clamped.
func positionToOffset(lines *analysis.LineIndex, pos protocol.Position) int {
	return lines.Offset(pos.Line, pos.Character)
}

// URIToPath converts a file URI to a filesystem path. Non-file URIs are
// returned unchanged.
func URIToPath(u protocol.DocumentURI) string {
	parsed := uri.URI(u)
	if !isFileURI(parsed) {
		return string(u)
	}

	return parsed.Filename()
}

// PathToURI converts a filesystem path to a file URI.
func PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(uri.File(path))
}

func isFileURI(u uri.URI) bool {
	return strings.HasPrefix(string(u), uri.FileScheme+"://")
}
