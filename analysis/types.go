// Package analysis answers position and document scoped questions about
// analyzed nrs documents: the type at an offset, implicit declaration types
// and semantic token categories.
package analysis

import (
	"fmt"

	"github.com/nrs-lang/nrs"
)

// Category is a semantic highlighting category.
type Category int

// Categories, in default legend order.
const (
	CategoryFunction Category = iota
	CategoryVariable
	CategoryString
	CategoryComment
	CategoryNumber
	CategoryKeyword
	CategoryOperator
	CategoryParameter
	CategoryType
	CategoryEnumMember
)

var categoryNames = [...]string{
	CategoryFunction:   "function",
	CategoryVariable:   "variable",
	CategoryString:     "string",
	CategoryComment:    "comment",
	CategoryNumber:     "number",
	CategoryKeyword:    "keyword",
	CategoryOperator:   "operator",
	CategoryParameter:  "parameter",
	CategoryType:       "type",
	CategoryEnumMember: "enumMember",
}

// String returns the LSP semantic token type name.
func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}

	return fmt.Sprintf("Category(%d)", int(c))
}

// Legend is the ordered list of categories shared with the client. A
// category's index is its wire id.
type Legend []Category

// DefaultLegend returns the legend advertised by the server.
func DefaultLegend() Legend {
	return Legend{
		CategoryFunction,
		CategoryVariable,
		CategoryString,
		CategoryComment,
		CategoryNumber,
		CategoryKeyword,
		CategoryOperator,
		CategoryParameter,
		CategoryType,
		CategoryEnumMember,
	}
}

// Index returns the wire id of c.
func (l Legend) Index(c Category) (uint32, bool) {
	for i, cat := range l {
		if cat == c {
			return uint32(i), true //nolint:gosec // legend is tiny
		}
	}

	return 0, false
}

// TokenTypes returns the legend as LSP token type names.
func (l Legend) TokenTypes() []string {
	names := make([]string, len(l))
	for i, c := range l {
		names[i] = c.String()
	}

	return names
}

// Categorized is one highlighted span.
type Categorized struct {
	Category Category
	Span     nrs.Span
}

// InlayHint is a rendered implicit type anchored after a declared name.
type InlayHint struct {
	Start int
	End   int
	Label string
}

// WireToken is one delta-encoded semantic token.
type WireToken struct {
	DeltaLine  uint32
	DeltaStart uint32
	Length     uint32
	TokenType  uint32
	Modifiers  uint32
}

// CoverageError reports a syntax variant that a traversal has no rule for.
// Traversals panic with it; the server decides whether to recover.
type CoverageError struct {
	Traversal string
	Variant   string
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("%s: no rule for %s", e.Traversal, e.Variant)
}

func uncovered(traversal string, v any) {
	panic(&CoverageError{Traversal: traversal, Variant: fmt.Sprintf("%T", v)})
}

// Diagnostic represents an error or warning found during analysis.
type Diagnostic struct {
	Span     nrs.Span
	Severity DiagnosticSeverity
	Message  string
	Code     string // e.g., "type-error", "unused-binding"
	Source   string // "nrs"
}

// DiagnosticSeverity indicates the severity of a diagnostic.
type DiagnosticSeverity int

// Diagnostic severity constants.
const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)
