package analysis

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/nrs-lang/nrs"
)

// Encoding is the unit columns and lengths are measured in on the wire.
type Encoding int

// Position encodings.
const (
	// UTF16 counts UTF-16 code units, the LSP default.
	UTF16 Encoding = iota
	// UTF32 counts Unicode code points.
	UTF32
)

// String returns the LSP name of the encoding.
func (e Encoding) String() string {
	if e == UTF32 {
		return nrs.EncodingUTF32
	}

	return nrs.EncodingUTF16
}

// ParseEncoding maps a config value to an Encoding.
func ParseEncoding(s string) (Encoding, bool) {
	switch s {
	case nrs.EncodingUTF16, "":
		return UTF16, true
	case nrs.EncodingUTF32:
		return UTF32, true
	default:
		return UTF16, false
	}
}

// LineIndex converts between byte offsets and (line, column) positions of
// one text snapshot. Lines and columns are zero based.
type LineIndex struct {
	text     string
	starts   []int
	encoding Encoding
}

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text string, enc Encoding) *LineIndex {
	starts := []int{0}

	for i := range len(text) {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &LineIndex{text: text, starts: starts, encoding: enc}
}

// Encoding returns the column unit.
func (l *LineIndex) Encoding() Encoding {
	return l.encoding
}

// LineCount returns the number of lines, counting a trailing empty line.
func (l *LineIndex) LineCount() int {
	return len(l.starts)
}

// Position returns the line and column of offset. Offsets past the end
// clamp to the end of the text.
func (l *LineIndex) Position(offset int) (line, col uint32) {
	offset = max(0, min(offset, len(l.text)))
	i := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1

	return uint32(i), l.units(l.starts[i], offset) //nolint:gosec // bounded by text length
}

// Offset returns the byte offset of (line, col). Columns past the end of the
// line clamp to the line end; lines past the end clamp to the text end.
func (l *LineIndex) Offset(line, col uint32) int {
	if int(line) >= len(l.starts) {
		return len(l.text)
	}

	start := l.starts[line]
	end := len(l.text)

	if int(line)+1 < len(l.starts) {
		end = l.starts[line+1] - 1
	}

	var n uint32

	for i, r := range l.text[start:end] {
		if n >= col {
			return start + i
		}

		n += l.width(r)
	}

	return end
}

// Length returns the width of span in the index's encoding.
func (l *LineIndex) Length(span nrs.Span) uint32 {
	start := max(0, min(span.Start, len(l.text)))
	end := max(start, min(span.End, len(l.text)))

	return l.units(start, end)
}

func (l *LineIndex) units(start, end int) uint32 {
	if l.encoding == UTF32 {
		return uint32(utf8.RuneCountInString(l.text[start:end])) //nolint:gosec // bounded by text length
	}

	var n uint32
	for _, r := range l.text[start:end] {
		n += l.width(r)
	}

	return n
}

func (l *LineIndex) width(r rune) uint32 {
	if l.encoding == UTF16 && utf16.RuneLen(r) == 2 {
		return 2
	}

	return 1
}
