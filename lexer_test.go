package nrs_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/go-cmp/cmp"
	"github.com/nrs-lang/nrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Symbols(t *testing.T) {
	t.Parallel()

	symbols := nrs.Definition.Symbols()

	expected := []string{
		"EOF", "Comment", "String", "Number", "Ident", "Op", "Ctrl",
		"Whitespace", "Bool", "while", "if", "else",
	}

	for _, name := range expected {
		if _, ok := symbols[name]; !ok {
			t.Errorf("missing symbol: %s", name)
		}
	}
}

type tokenExpect struct {
	typ string
	val string
}

func lexTokens(t *testing.T, input string) []tokenExpect {
	t.Helper()

	symbols := nrs.Definition.Symbols()

	symbolNames := make(map[lexer.TokenType]string)
	for name, typ := range symbols {
		symbolNames[typ] = name
	}

	lex, err := nrs.Definition.Lex("", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Lex() error: %v", err)
	}

	var tokens []tokenExpect

	for {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}

		if tok.EOF() {
			break
		}

		// Skip whitespace
		if symbolNames[tok.Type] == "Whitespace" {
			continue
		}

		tokens = append(tokens, tokenExpect{
			typ: symbolNames[tok.Type],
			val: tok.Value,
		})
	}

	return tokens
}

func assertTokens(t *testing.T, expected, got []tokenExpect) {
	t.Helper()

	if diff := cmp.Diff(expected, got, cmp.AllowUnexported(tokenExpect{})); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Identifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []tokenExpect
	}{
		{"foo", []tokenExpect{{"Ident", "foo"}}},
		{"foo_bar", []tokenExpect{{"Ident", "foo_bar"}}},
		{"foo123", []tokenExpect{{"Ident", "foo123"}}},
		{"_private", []tokenExpect{{"Ident", "_private"}}},
		{"héllo", []tokenExpect{{"Ident", "héllo"}}},
		{"foo bar", []tokenExpect{{"Ident", "foo"}, {"Ident", "bar"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := lexTokens(t, tt.input)
			assertTokens(t, tt.expected, got)
		})
	}
}

func TestLexer_Keywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []tokenExpect
	}{
		{"true", []tokenExpect{{"Bool", "true"}}},
		{"false", []tokenExpect{{"Bool", "false"}}},
		{"while", []tokenExpect{{"while", "while"}}},
		{"if", []tokenExpect{{"if", "if"}}},
		{"else", []tokenExpect{{"else", "else"}}},
		{"and", []tokenExpect{{"Op", "and"}}},
		{"or", []tokenExpect{{"Op", "or"}}},
		{"not", []tokenExpect{{"Op", "not"}}},
		{"truely", []tokenExpect{{"Ident", "truely"}}},
		{"iffy", []tokenExpect{{"Ident", "iffy"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := lexTokens(t, tt.input)
			assertTokens(t, tt.expected, got)
		})
	}
}

func TestLexer_Numbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []tokenExpect
	}{
		{"123", []tokenExpect{{"Number", "123"}}},
		{"123.456", []tokenExpect{{"Number", "123.456"}}},
		{"1e10", []tokenExpect{{"Number", "1e10"}}},
		{"1.5e-3", []tokenExpect{{"Number", "1.5e-3"}}},
		{"1_000_000", []tokenExpect{{"Number", "1_000_000"}}},
		{"0xFF", []tokenExpect{{"Number", "0xFF"}}},
		{"1-2", []tokenExpect{{"Number", "1"}, {"Op", "-"}, {"Number", "2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := lexTokens(t, tt.input)
			assertTokens(t, tt.expected, got)
		})
	}
}

func TestLexer_Strings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []tokenExpect
	}{
		{`"hello"`, []tokenExpect{{"String", `"hello"`}}},
		{`""`, []tokenExpect{{"String", `""`}}},
		{`"with \"escape\""`, []tokenExpect{{"String", `"with \"escape\""`}}},
		{`"a" + "b"`, []tokenExpect{{"String", `"a"`}, {"Op", "+"}, {"String", `"b"`}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := lexTokens(t, tt.input)
			assertTokens(t, tt.expected, got)
		})
	}
}

func TestLexer_Operators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []tokenExpect
	}{
		{":=", []tokenExpect{{"Op", ":="}}},
		{"==", []tokenExpect{{"Op", "=="}}},
		{"!=", []tokenExpect{{"Op", "!="}}},
		{"<=", []tokenExpect{{"Op", "<="}}},
		{">=", []tokenExpect{{"Op", ">="}}},
		{"->", []tokenExpect{{"Op", "->"}}},
		{"|x|", []tokenExpect{{"Op", "|"}, {"Ident", "x"}, {"Op", "|"}}},
		{"a%b", []tokenExpect{{"Ident", "a"}, {"Op", "%"}, {"Ident", "b"}}},
		{"x: Number = 1", []tokenExpect{
			{"Ident", "x"}, {"Ctrl", ":"}, {"Ident", "Number"}, {"Op", "="}, {"Number", "1"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := lexTokens(t, tt.input)
			assertTokens(t, tt.expected, got)
		})
	}
}

func TestLexer_Punctuation(t *testing.T) {
	t.Parallel()

	got := lexTokens(t, "f(a, b); { }")
	assertTokens(t, []tokenExpect{
		{"Ident", "f"}, {"Ctrl", "("}, {"Ident", "a"}, {"Ctrl", ","}, {"Ident", "b"},
		{"Ctrl", ")"}, {"Ctrl", ";"}, {"Ctrl", "{"}, {"Ctrl", "}"},
	}, got)
}

func TestLexer_Comments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []tokenExpect
	}{
		{"// note", []tokenExpect{{"Comment", "// note"}}},
		{"x // trailing\ny", []tokenExpect{{"Ident", "x"}, {"Comment", "// trailing"}, {"Ident", "y"}}},
		{"a / b", []tokenExpect{{"Ident", "a"}, {"Op", "/"}, {"Ident", "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := lexTokens(t, tt.input)
			assertTokens(t, tt.expected, got)
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	t.Parallel()

	lex, err := nrs.Definition.Lex("doc.nrs", strings.NewReader("a\n  bc"))
	require.NoError(t, err)

	first, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, lexer.Position{Filename: "doc.nrs", Offset: 0, Line: 1, Column: 1}, first.Pos)

	_, err = lex.Next() // whitespace
	require.NoError(t, err)

	second, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, lexer.Position{Filename: "doc.nrs", Offset: 4, Line: 2, Column: 3}, second.Pos)
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tokens, errs := nrs.Tokenize("x := 1 // one")
	require.Empty(t, errs)

	expected := []nrs.Token{
		{Kind: nrs.KindIdent, Value: "x", Span: nrs.Span{Start: 0, End: 1}},
		{Kind: nrs.KindOp, Value: ":=", Span: nrs.Span{Start: 2, End: 4}},
		{Kind: nrs.KindNumber, Value: "1", Span: nrs.Span{Start: 5, End: 6}},
		{Kind: nrs.KindComment, Value: "// one", Span: nrs.Span{Start: 7, End: 13}},
	}

	if diff := cmp.Diff(expected, tokens); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		span   nrs.Span
		msg    string
		tokens []string
	}{
		{
			name:   "unexpected character is skipped",
			input:  "a @ b",
			span:   nrs.Span{Start: 2, End: 3},
			msg:    "unexpected character",
			tokens: []string{"a", "b"},
		},
		{
			name:   "unterminated string stops at newline",
			input:  "\"abc\nx",
			span:   nrs.Span{Start: 0, End: 4},
			msg:    "unterminated string",
			tokens: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, errs := nrs.Tokenize(tt.input)
			require.Len(t, errs, 1)
			assert.Equal(t, nrs.LexError, errs[0].Kind)
			assert.Equal(t, tt.span, errs[0].Span)
			assert.Equal(t, tt.msg, errs[0].Message())

			var values []string
			for _, tok := range tokens {
				values = append(values, tok.Value)
			}

			assert.Equal(t, tt.tokens, values)
		})
	}
}
