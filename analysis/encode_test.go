package analysis_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cat(c analysis.Category, start, end int) analysis.Categorized {
	return analysis.Categorized{Category: c, Span: nrs.Span{Start: start, End: end}}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	text := "x := 1\n  y\nz := \"ü\" // c"
	lines := analysis.NewLineIndex(text, analysis.UTF16)

	spans := []analysis.Categorized{
		cat(analysis.CategoryVariable, 0, 1),
		cat(analysis.CategoryOperator, 2, 4),
		cat(analysis.CategoryNumber, 5, 6),
		cat(analysis.CategoryVariable, 9, 10),
		cat(analysis.CategoryVariable, 11, 12),
		cat(analysis.CategoryString, 16, 20),
		cat(analysis.CategoryComment, 21, 25),
	}

	got, err := analysis.Encode(spans, analysis.DefaultLegend(), lines)
	require.NoError(t, err)

	want := []analysis.WireToken{
		{DeltaLine: 0, DeltaStart: 0, Length: 1, TokenType: 1},
		{DeltaLine: 0, DeltaStart: 2, Length: 2, TokenType: 6},
		{DeltaLine: 0, DeltaStart: 3, Length: 1, TokenType: 4},
		{DeltaLine: 1, DeltaStart: 2, Length: 1, TokenType: 1},
		{DeltaLine: 1, DeltaStart: 0, Length: 1, TokenType: 1},
		{DeltaLine: 0, DeltaStart: 5, Length: 3, TokenType: 2},
		{DeltaLine: 0, DeltaStart: 4, Length: 4, TokenType: 3},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []uint32{0, 0, 1, 1, 0, 0, 2, 2, 6, 0}, analysis.Flatten(got)[:10])
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	lines := analysis.NewLineIndex("abc def", analysis.UTF16)

	tests := []struct {
		name   string
		spans  []analysis.Categorized
		legend analysis.Legend
		want   error
	}{
		{
			name:   "out of order",
			spans:  []analysis.Categorized{cat(analysis.CategoryVariable, 4, 7), cat(analysis.CategoryVariable, 0, 3)},
			legend: analysis.DefaultLegend(),
			want:   analysis.ErrUnsorted,
		},
		{
			name:   "overlapping",
			spans:  []analysis.Categorized{cat(analysis.CategoryVariable, 0, 5), cat(analysis.CategoryVariable, 4, 7)},
			legend: analysis.DefaultLegend(),
			want:   analysis.ErrUnsorted,
		},
		{
			name:   "inverted span",
			spans:  []analysis.Categorized{cat(analysis.CategoryVariable, 3, 1)},
			legend: analysis.DefaultLegend(),
			want:   analysis.ErrUnsorted,
		},
		{
			name:   "category missing from legend",
			spans:  []analysis.Categorized{cat(analysis.CategoryType, 0, 3)},
			legend: analysis.Legend{analysis.CategoryVariable},
			want:   analysis.ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := analysis.Encode(tt.spans, tt.legend, lines)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	t.Parallel()

	got, err := analysis.Encode(nil, analysis.DefaultLegend(), analysis.NewLineIndex("", analysis.UTF16))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, analysis.Flatten(got))
}

func TestLegend(t *testing.T) {
	t.Parallel()

	legend := analysis.DefaultLegend()

	assert.Equal(t, []string{
		"function", "variable", "string", "comment", "number",
		"keyword", "operator", "parameter", "type", "enumMember",
	}, legend.TokenTypes())

	id, ok := legend.Index(analysis.CategoryEnumMember)
	assert.True(t, ok)
	assert.Equal(t, uint32(9), id)
}
