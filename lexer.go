package nrs

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
const (
	TokenEOF        lexer.TokenType = lexer.EOF
	TokenComment    lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	TokenString                                   // quoted strings
	TokenNumber                                   // all number formats
	TokenIdent                                    // identifiers
	TokenOp                                       // operators, including word operators
	TokenCtrl                                     // punctuation: ( ) { } , ; :
	TokenWhitespace                               // spaces, tabs, newlines
	TokenBool                                     // true / false
	TokenWhile                                    // while
	TokenIf                                       // if
	TokenElse                                     // else
)

// keywords maps reserved words to their token types.
var keywords = map[string]lexer.TokenType{
	"true":  TokenBool,
	"false": TokenBool,
	"while": TokenWhile,
	"if":    TokenIf,
	"else":  TokenElse,
	"and":   TokenOp,
	"or":    TokenOp,
	"not":   TokenOp,
}

// Lexer errors.
var (
	ErrUnterminatedString  = &LexerError{msg: "unterminated string"}
	ErrUnexpectedCharacter = &LexerError{msg: "unexpected character"}
)

// LexerError represents a lexer error with position.
type LexerError struct {
	msg  string
	pos  lexer.Position
	ch   rune
	size int
}

func (e *LexerError) Error() string {
	if e.ch != 0 {
		return e.pos.String() + ": " + e.msg + ": " + string(e.ch)
	}

	return e.pos.String() + ": " + e.msg
}

// Span returns the bytes the error covers.
func (e *LexerError) Span() Span {
	return Span{Start: e.pos.Offset, End: e.pos.Offset + max(e.size, 1)}
}

func (e *LexerError) withPos(pos lexer.Position) *LexerError {
	return &LexerError{msg: e.msg, pos: pos, ch: e.ch, size: e.size}
}

func (e *LexerError) withChar(ch rune) *LexerError {
	return &LexerError{msg: e.msg, pos: e.pos, ch: ch, size: utf8.RuneLen(ch)}
}

func (e *LexerError) withSize(size int) *LexerError {
	return &LexerError{msg: e.msg, pos: e.pos, ch: e.ch, size: size}
}

// definition implements lexer.Definition for nrs.
type definition struct {
	symbols map[string]lexer.TokenType
}

// Definition is the participle lexer definition for nrs source.
var Definition lexer.Definition = newDefinition()

func newDefinition() *definition {
	return &definition{
		symbols: map[string]lexer.TokenType{
			"EOF":        TokenEOF,
			"Comment":    TokenComment,
			"String":     TokenString,
			"Number":     TokenNumber,
			"Ident":      TokenIdent,
			"Op":         TokenOp,
			"Ctrl":       TokenCtrl,
			"Whitespace": TokenWhitespace,
			"Bool":       TokenBool,
			"while":      TokenWhile,
			"if":         TokenIf,
			"else":       TokenElse,
		},
	}
}

// Symbols returns the mapping of symbol names to token types.
func (d *definition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex creates a new Lexer for the given reader.
//
//nolint:ireturn // Required by participle's lexer.Definition interface.
func (d *definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return d.LexString(filename, string(data))
}

// LexString implements lexer.StringDefinition.
//
//nolint:ireturn // Required by participle's lexer.StringDefinition interface.
func (d *definition) LexString(filename string, input string) (lexer.Lexer, error) {
	return newLexerState(filename, input), nil
}

// lexerState holds the state for lexing.
type lexerState struct {
	filename string
	input    string
	offset   int
	line     int
	col      int
}

func newLexerState(filename, input string) *lexerState {
	return &lexerState{
		filename: filename,
		input:    input,
		line:     1,
		col:      1,
	}
}

// Next returns the next token. After an error the lexer has already moved
// past the offending input, so callers may keep calling Next.
func (l *lexerState) Next() (lexer.Token, error) {
	if l.eof() {
		return lexer.EOFToken(l.pos()), nil
	}

	start := l.pos()
	r := l.peek()

	if isSpace(r) {
		for !l.eof() && isSpace(l.peek()) {
			l.advance()
		}

		return l.token(TokenWhitespace, start), nil
	}

	if r == '/' && l.peekAt(1) == '/' {
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		return l.token(TokenComment, start), nil
	}

	if r == '"' {
		return l.scanString(start)
	}

	if isDigit(r) {
		return l.scanNumber(start), nil
	}

	if isIdentStart(r) {
		l.advance()

		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		tok := l.token(TokenIdent, start)
		if kwType, isKeyword := keywords[tok.Value]; isKeyword {
			tok.Type = kwType
		}

		return tok, nil
	}

	if tok, ok := l.scanMultiCharOp(start); ok {
		return tok, nil
	}

	l.advance()

	switch r {
	case '(', ')', '{', '}', ',', ';', ':':
		return l.token(TokenCtrl, start), nil
	}

	if strings.ContainsRune("+-*/%<>=|", r) {
		return l.token(TokenOp, start), nil
	}

	return lexer.Token{}, ErrUnexpectedCharacter.withPos(start).withChar(r)
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.offset,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

func (l *lexerState) peekAt(n int) rune {
	off := l.offset + n
	if off >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[off:])

	return r
}

func (l *lexerState) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexerState) match(s string) bool {
	return strings.HasPrefix(l.input[l.offset:], s)
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
	}
}

func (l *lexerState) scanString(start lexer.Position) (lexer.Token, error) {
	l.advance() // opening quote

	for !l.eof() {
		ch := l.peek()
		if ch == '\\' && l.peekAt(1) != 0 && l.peekAt(1) != '\n' {
			l.advance() // backslash
			l.advance() // escaped char

			continue
		}

		if ch == '"' {
			l.advance() // closing quote

			return l.token(TokenString, start), nil
		}

		if ch == '\n' {
			break
		}

		l.advance()
	}

	return lexer.Token{}, ErrUnterminatedString.withPos(start).withSize(l.offset - start.Offset)
}

func (l *lexerState) scanMultiCharOp(start lexer.Position) (lexer.Token, bool) {
	multiOps := []string{":=", "==", "!=", "<=", ">=", "->"}

	for _, op := range multiOps {
		if l.match(op) {
			for range len(op) {
				l.advance()
			}

			return l.token(TokenOp, start), true
		}
	}

	return lexer.Token{}, false
}

func (l *lexerState) scanNumber(start lexer.Position) lexer.Token {
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance() // 0
		l.advance() // x

		for !l.eof() && (isHexDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}

		return l.token(TokenNumber, start)
	}

	for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance() // .

		for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}
	}

	if (l.peek() == 'e' || l.peek() == 'E') && (isDigit(l.peekAt(1)) || l.peekAt(1) == '+' || l.peekAt(1) == '-') {
		l.advance() // e/E

		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}

		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	return l.token(TokenNumber, start)
}

// Character helpers.

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
