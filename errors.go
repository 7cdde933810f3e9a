package nrs

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrorKind identifies the frontend stage that produced an Error.
type ErrorKind int

// Error kinds.
const (
	LexError ErrorKind = iota + 1
	ParseError
	TypeError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex"
	case ParseError:
		return "parse"
	case TypeError:
		return "type"
	default:
		return "unknown"
	}
}

// Error is a frontend error anchored to a span of the analyzed text.
type Error struct {
	Kind ErrorKind
	Span Span
	Msg  string
}

var _ participle.Error = (*Error)(nil)

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %s", e.Span, e.Kind, e.Msg)
}

// Message returns the error text without position information.
func (e *Error) Message() string {
	return e.Msg
}

// Position returns the start of the error span. Only Offset is populated;
// line and column depend on the consumer's position encoding.
func (e *Error) Position() lexer.Position {
	return lexer.Position{Offset: e.Span.Start}
}

func errorf(kind ErrorKind, span Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// Sentinel errors.
var (
	// ErrIndirectionCycle is returned when resolving a type walks more table
	// slots than the table holds.
	ErrIndirectionCycle = errors.New("type table indirection cycle")
	// ErrUnboundSlot is returned when a type variable indexes past the table.
	ErrUnboundSlot = errors.New("type variable outside type table")
)
