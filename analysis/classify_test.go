package analysis_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `// sample
fact := |n| if n < 2 { 1 } else { n * fact(n - 1) }
greet: (String) -> () = |name| print("hi " + name) // inline
(ok, count) := (not false and true, len("αβγ"))
while ok { ok := false }
total := fact(
	// argument comment
	count
)
`

func TestStructural_Categories(t *testing.T) {
	t.Parallel()

	input := `f := |x| x + 1 // c
b: Bool = true or false`
	f := mustAnalyze(t, input)

	got := analysis.Structural(f.Forest, f.Table, f.Tokens)

	type entry struct {
		Text     string
		Category string
	}

	var entries []entry
	for _, c := range got {
		entries = append(entries, entry{input[c.Span.Start:c.Span.End], c.Category.String()})
	}

	want := []entry{
		{"f", "function"},
		{":=", "operator"},
		{"|", "operator"},
		{"x", "variable"},
		{"x", "variable"},
		{"+", "operator"},
		{"1", "number"},
		{"// c", "comment"},
		{"b", "variable"},
		{"Bool", "type"},
		{"=", "operator"},
		{"true", "enumMember"},
		{"or", "keyword"},
		{"false", "enumMember"},
	}

	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("Structural() mismatch (-want +got):\n%s", diff)
	}
}

func TestStructural_SortedAndRoundTrips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "sample", input: sampleDocument},
		{name: "annotated function type", input: "f: (Number) -> Number = |a| a\ng: (Number, String) -> () = |n, s| print(s)"},
		{name: "tuple patterns", input: "(a, (b, c)) := (1, (\"x\", true))\n(d, e) := (a, b)"},
		{name: "else if chain", input: "v := if 1 < 2 { 1 } else if 2 < 3 { 2 } else if false { 3 } else { 4 }"},
		{name: "comments inside calls", input: "print(\n\t// before\n\tstr(1) // after\n)\nn := len(\"s\" // trailing\n)"},
		{name: "non-BMP strings", input: "s := \"😀 𝄞\"\nt := s + \"🎉\" // 𝄢\nu := len(t)"},
		{name: "groups", input: "x := ((1 + 2) * (3))\ny := (x)"},
	}

	for _, tt := range tests {
		for _, enc := range []analysis.Encoding{analysis.UTF16, analysis.UTF32} {
			t.Run(tt.name+" "+enc.String(), func(t *testing.T) {
				t.Parallel()

				f := analysis.NewAnalyzerWithRules(enc, nil).Analyze("sample.nrs", tt.input)
				require.NotNil(t, f.Forest, "%v", f.Diagnostics)

				assertSortedRoundTrip(t, f)
			})
		}
	}
}

func FuzzStructural(f *testing.F) {
	f.Add(sampleDocument)
	f.Add("f: (Number) -> Number = |a| a")
	f.Add("v := if true { 1 } else if false { 2 } else { 3 }")
	f.Add("s := \"😀\" // 🎉")

	f.Fuzz(func(t *testing.T, input string) {
		file := analysis.NewAnalyzerWithRules(analysis.UTF16, nil).Analyze("fuzz.nrs", input)
		if file.Forest == nil {
			return
		}

		assertSortedRoundTrip(t, file)
	})
}

// assertSortedRoundTrip checks that the structural stream of a typed file is
// strictly ordered and survives Encode and Decode.
func assertSortedRoundTrip(t *testing.T, f *analysis.AnalyzedFile) {
	t.Helper()

	spans := analysis.Structural(f.Forest, f.Table, f.Tokens)

	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].Span.End, spans[i].Span.Start,
			"entries %d and %d overlap or are out of order", i-1, i)
		assert.Less(t, spans[i-1].Span.Start, spans[i].Span.Start)
	}

	tokens, err := analysis.Encode(spans, analysis.DefaultLegend(), f.Lines)
	require.NoError(t, err)

	decoded := analysis.Decode(tokens)
	require.Len(t, decoded, len(spans))

	for i, s := range spans {
		line, col := f.Lines.Position(s.Span.Start)
		assert.Equal(t, line, decoded[i].Line, "entry %d line", i)
		assert.Equal(t, col, decoded[i].Col, "entry %d col", i)
		assert.Equal(t, f.Lines.Length(s.Span), decoded[i].Length, "entry %d length", i)
	}
}

func TestStructural_MergesSkippedComments(t *testing.T) {
	t.Parallel()

	f := mustAnalyze(t, sampleDocument)
	spans := analysis.Structural(f.Forest, f.Table, f.Tokens)

	var comments []string
	for _, s := range spans {
		if s.Category == analysis.CategoryComment {
			comments = append(comments, sampleDocument[s.Span.Start:s.Span.End])
		}
	}

	assert.Equal(t, []string{"// sample", "// inline", "// argument comment"}, comments)
}

func TestLexical(t *testing.T) {
	t.Parallel()

	tokens, errs := nrs.Tokenize(`if x { "s" } else { 1 } // c`)
	require.Empty(t, errs)

	var cats []analysis.Category
	for _, c := range analysis.Lexical(tokens) {
		cats = append(cats, c.Category)
	}

	assert.Equal(t, []analysis.Category{
		analysis.CategoryKeyword,
		analysis.CategoryVariable,
		analysis.CategoryString,
		analysis.CategoryKeyword,
		analysis.CategoryNumber,
		analysis.CategoryComment,
	}, cats)
}

func TestClassify_FallsBackToLexical(t *testing.T) {
	t.Parallel()

	f := analyze(t, "f := |x| x +")
	require.Nil(t, f.Forest)

	got := analysis.Classify(f.Tokens, f.Forest, f.Table)
	require.Len(t, got, 7)
	assert.Equal(t, analysis.CategoryVariable, got[0].Category, "no types without a forest")
	assert.Equal(t, analysis.CategoryOperator, got[1].Category)
}

func TestStructural_CoverageGap(t *testing.T) {
	t.Parallel()

	forest := []nrs.Node{&nrs.Call{
		Meta:   nrs.Meta{Loc: nrs.Span{Start: 0, End: 3}},
		Callee: &unknownNode{},
	}}

	defer func() {
		r := recover()
		require.NotNil(t, r)

		err, ok := r.(*analysis.CoverageError)
		require.True(t, ok)
		assert.Equal(t, "classify", err.Traversal)
	}()

	analysis.Structural(forest, nil, nil)
	t.Fatal("expected panic")
}

// unknownNode stands in for a variant no traversal knows about.
type unknownNode struct{ nrs.ErrorNode }
