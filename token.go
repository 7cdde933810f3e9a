package nrs

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenKind classifies a lexical token independently of the syntax tree.
type TokenKind int

// Token kinds.
const (
	KindNumber TokenKind = iota
	KindText
	KindBool
	KindIdent
	KindOp
	KindCtrl
	KindWhile
	KindIf
	KindElse
	KindComment
)

var kindNames = [...]string{
	KindNumber:  "Number",
	KindText:    "Text",
	KindBool:    "Bool",
	KindIdent:   "Ident",
	KindOp:      "Op",
	KindCtrl:    "Ctrl",
	KindWhile:   "While",
	KindIf:      "If",
	KindElse:    "Else",
	KindComment: "Comment",
}

func (k TokenKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Unknown"
}

// Token is a lexical unit of a document.
type Token struct {
	Kind  TokenKind
	Value string
	Span  Span
}

// IsOp reports whether t is the operator op.
func (t Token) IsOp(op string) bool {
	return t.Kind == KindOp && t.Value == op
}

// IsCtrl reports whether t is the punctuation ctrl.
func (t Token) IsCtrl(ctrl string) bool {
	return t.Kind == KindCtrl && t.Value == ctrl
}

var tokenKinds = map[lexer.TokenType]TokenKind{
	TokenComment: KindComment,
	TokenString:  KindText,
	TokenNumber:  KindNumber,
	TokenIdent:   KindIdent,
	TokenOp:      KindOp,
	TokenCtrl:    KindCtrl,
	TokenBool:    KindBool,
	TokenWhile:   KindWhile,
	TokenIf:      KindIf,
	TokenElse:    KindElse,
}

// Tokenize lexes the whole input. Whitespace is dropped; comments are kept.
// Lexing never stops early: invalid input is reported and skipped, so the
// returned stream covers everything that could be lexed.
func Tokenize(input string) ([]Token, []*Error) {
	lex, err := Definition.Lex("", strings.NewReader(input))
	if err != nil {
		return nil, []*Error{errorf(LexError, Span{}, "%v", err)}
	}

	var (
		tokens []Token
		errs   []*Error
	)

	for {
		tok, err := lex.Next()
		if err != nil {
			var lexErr *LexerError
			if errors.As(err, &lexErr) {
				errs = append(errs, &Error{Kind: LexError, Span: lexErr.Span(), Msg: lexErr.msg})

				continue
			}

			errs = append(errs, errorf(LexError, Span{Start: len(input), End: len(input)}, "%v", err))

			break
		}

		if tok.EOF() {
			break
		}

		kind, ok := tokenKinds[tok.Type]
		if !ok {
			continue
		}

		tokens = append(tokens, Token{
			Kind:  kind,
			Value: tok.Value,
			Span:  Span{Start: tok.Pos.Offset, End: tok.Pos.Offset + len(tok.Value)},
		})
	}

	return tokens, errs
}
