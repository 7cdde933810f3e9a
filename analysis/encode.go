package analysis

import (
	"errors"
	"fmt"
)

// Encoder errors.
var (
	ErrUnsorted        = errors.New("semantic spans out of order or overlapping")
	ErrUnknownCategory = errors.New("category not in legend")
)

// Encode converts sorted, non-overlapping spans into relative wire tokens.
// Each token's line is relative to the previous token; its start column is
// relative too when both share a line and absolute otherwise.
func Encode(spans []Categorized, legend Legend, lines *LineIndex) ([]WireToken, error) {
	out := make([]WireToken, 0, len(spans))

	var prevLine, prevCol uint32

	prevEnd := 0

	for i, s := range spans {
		if s.Span.Start < prevEnd || s.Span.End < s.Span.Start {
			return nil, fmt.Errorf("%w: entry %d at %s", ErrUnsorted, i, s.Span)
		}

		id, ok := legend.Index(s.Category)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, s.Category)
		}

		line, col := lines.Position(s.Span.Start)

		tok := WireToken{
			DeltaLine: line - prevLine,
			Length:    lines.Length(s.Span),
			TokenType: id,
		}

		if tok.DeltaLine == 0 {
			tok.DeltaStart = col - prevCol
		} else {
			tok.DeltaStart = col
		}

		out = append(out, tok)
		prevLine, prevCol, prevEnd = line, col, s.Span.End
	}

	return out, nil
}

// Flatten lays tokens out as the LSP `data` array.
func Flatten(tokens []WireToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5) //nolint:mnd // five integers per token

	for _, t := range tokens {
		data = append(data, t.DeltaLine, t.DeltaStart, t.Length, t.TokenType, t.Modifiers)
	}

	return data
}

// AbsoluteToken is a decoded wire token.
type AbsoluteToken struct {
	Line      uint32
	Col       uint32
	Length    uint32
	TokenType uint32
}

// Decode reverses the delta encoding.
func Decode(tokens []WireToken) []AbsoluteToken {
	out := make([]AbsoluteToken, 0, len(tokens))

	var line, col uint32

	for _, t := range tokens {
		if t.DeltaLine == 0 {
			col += t.DeltaStart
		} else {
			line += t.DeltaLine
			col = t.DeltaStart
		}

		out = append(out, AbsoluteToken{Line: line, Col: col, Length: t.Length, TokenType: t.TokenType})
	}

	return out
}
