package analysis_test

import (
	"testing"

	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/analysis"
	"github.com/stretchr/testify/assert"
)

func TestLineIndex_Position(t *testing.T) {
	t.Parallel()

	// "é" is 2 bytes; "😀" is 4 bytes and 2 UTF-16 units.
	text := "ab\né😀x\n\nlast"

	tests := []struct {
		name      string
		offset    int
		enc       analysis.Encoding
		line, col uint32
	}{
		{"start", 0, analysis.UTF16, 0, 0},
		{"newline char", 2, analysis.UTF16, 0, 2},
		{"second line", 3, analysis.UTF16, 1, 0},
		{"after two byte rune", 5, analysis.UTF16, 1, 1},
		{"after astral utf16", 9, analysis.UTF16, 1, 3},
		{"after astral utf32", 9, analysis.UTF32, 1, 2},
		{"empty line", 11, analysis.UTF16, 2, 0},
		{"last line", 13, analysis.UTF16, 3, 1},
		{"past end clamps", 100, analysis.UTF16, 3, 4},
		{"negative clamps", -3, analysis.UTF16, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			line, col := analysis.NewLineIndex(text, tt.enc).Position(tt.offset)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestLineIndex_Offset(t *testing.T) {
	t.Parallel()

	text := "ab\né😀x\n\nlast"
	lines := analysis.NewLineIndex(text, analysis.UTF16)

	assert.Equal(t, 0, lines.Offset(0, 0))
	assert.Equal(t, 5, lines.Offset(1, 1))
	assert.Equal(t, 9, lines.Offset(1, 3))
	assert.Equal(t, 10, lines.Offset(1, 99), "clamps to line end")
	assert.Equal(t, len(text), lines.Offset(9, 0), "clamps to text end")
	assert.Equal(t, 4, lines.LineCount())

	for off := range len(text) + 1 {
		line, col := lines.Position(off)
		back := lines.Offset(line, col)
		// Offsets inside a multibyte rune map back to the rune's end.
		assert.GreaterOrEqual(t, back, off-3)
	}
}

func TestLineIndex_Length(t *testing.T) {
	t.Parallel()

	text := `"😀é"`
	span := nrs.Span{Start: 0, End: len(text)}

	assert.Equal(t, uint32(5), analysis.NewLineIndex(text, analysis.UTF16).Length(span))
	assert.Equal(t, uint32(4), analysis.NewLineIndex(text, analysis.UTF32).Length(span))
}

func TestParseEncoding(t *testing.T) {
	t.Parallel()

	enc, ok := analysis.ParseEncoding("utf-32")
	assert.True(t, ok)
	assert.Equal(t, analysis.UTF32, enc)

	enc, ok = analysis.ParseEncoding("")
	assert.True(t, ok)
	assert.Equal(t, analysis.UTF16, enc)

	_, ok = analysis.ParseEncoding("utf-8")
	assert.False(t, ok)
}

func TestEncoding_String(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"utf-16", "utf-32"} {
		enc, ok := analysis.ParseEncoding(name)
		assert.True(t, ok)
		assert.Equal(t, name, enc.String())
	}
}
