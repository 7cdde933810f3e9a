package analysis_test

import (
	"testing"

	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		input           string
		wantForest      bool
		wantCodes       []string
		wantTokenValues int
	}{
		{
			name:            "well typed",
			input:           "x := 1 + 2",
			wantForest:      true,
			wantTokenValues: 5,
		},
		{
			name:            "parse error keeps tokens",
			input:           "x := (1 +",
			wantCodes:       []string{"parse-error"},
			wantTokenValues: 5,
		},
		{
			name:            "lex error",
			input:           "x := 1 $",
			wantCodes:       []string{"lex-error"},
			wantTokenValues: 3,
		},
		{
			name:            "type error",
			input:           `x := 1 + "a"`,
			wantCodes:       []string{"type-error"},
			wantTokenValues: 5,
		},
		{
			name:            "several errors in order",
			input:           "x := )\ny := z",
			wantCodes:       []string{"parse-error"},
			wantTokenValues: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := analyze(t, tt.input)

			if tt.wantForest {
				assert.NotNil(t, f.Forest)
				assert.NotNil(t, f.Table)
			} else {
				assert.Nil(t, f.Forest)
				assert.Nil(t, f.Table)
			}
			assert.Len(t, f.Tokens, tt.wantTokenValues)

			var codes []string
			for _, d := range f.Diagnostics {
				codes = append(codes, d.Code)
				assert.Equal(t, "nrs", d.Source)
			}

			assert.Equal(t, tt.wantCodes, codes)
		})
	}
}

func TestAnalyzer_DiagnosticSpan(t *testing.T) {
	t.Parallel()

	f := analyze(t, "a := 1\nb := c")
	require.Len(t, f.Diagnostics, 1)

	d := f.Diagnostics[0]
	assert.Equal(t, nrs.Span{Start: 12, End: 13}, d.Span)
	assert.Equal(t, analysis.SeverityError, d.Severity)

	line, col := f.Lines.Position(d.Span.Start)
	assert.Equal(t, uint32(1), line)
	assert.Equal(t, uint32(5), col)
}

func TestAnalyzer_Encoding(t *testing.T) {
	t.Parallel()

	f := analysis.NewAnalyzer(analysis.UTF32).Analyze("x.nrs", "s := \"😀\"")
	assert.Equal(t, analysis.UTF32, f.Lines.Encoding())
	assert.Equal(t, uint32(3), f.Lines.Length(nrs.Span{Start: 5, End: 11}))
}
