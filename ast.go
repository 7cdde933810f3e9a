// Package nrs implements the frontend of the nrs language: lexing, parsing
// and type inference over whole documents.
package nrs

// Node is an annotated syntax tree node. The set of implementations is
// closed; traversals switch over it exhaustively.
type Node interface {
	Span() Span
	Type() Type
	isNode()
}

// Meta carries the span and the inferred type shared by all annotated nodes.
// Ty is nil when inference did not run or the node has no runtime type.
type Meta struct {
	Loc Span
	Ty  Type
}

// Span returns the node's source range.
func (m *Meta) Span() Span { return m.Loc }

// Type returns the node's inferred type, possibly a Var.
//
//nolint:ireturn // Type is a closed sum.
func (m *Meta) Type() Type { return m.Ty }

// LiteralKind distinguishes literal values.
type LiteralKind int

// Literal kinds.
const (
	LitNumber LiteralKind = iota
	LitString
	LitBool
)

// Literal is a number, string or boolean constant.
type Literal struct {
	Meta

	Kind  LiteralKind
	Value string
}

// Variable is a reference to a bound name.
type Variable struct {
	Meta

	Name string
}

// BindingForm records which declaration syntax introduced a binding.
type BindingForm int

// Binding forms.
const (
	// BindInfer is `name := value`.
	BindInfer BindingForm = iota
	// BindAnnotated is `name: Type` with an optional `= value`.
	BindAnnotated
)

// Declaration binds a pattern, optionally with a type annotation and an
// initializer. Its span starts at the pattern.
type Declaration struct {
	Meta

	Pattern Pattern
	Form    BindingForm
	// Def is the span of `:=` or `:`.
	Def Span
	// Annotation is nil for BindInfer.
	Annotation *TypeRef
	// Assign is the span of `=` after an annotation; zero when absent.
	Assign Span
	// Value is nil for an annotated declaration without initializer.
	Value Node
}

// Name returns the bound identifier for single-name declarations, or "".
func (d *Declaration) Name() string {
	if v, ok := d.Pattern.(*PatternVar); ok {
		return v.Name
	}

	return ""
}

// Call applies a callee to arguments.
type Call struct {
	Meta

	Callee Node
	Args   []Node
}

// Binary is an infix operation.
type Binary struct {
	Meta

	Left   Node
	Op     string
	OpSpan Span
	Right  Node
}

// Unary is a prefix operation (`not`, `-`).
type Unary struct {
	Meta

	Op      string
	OpSpan  Span
	Operand Node
}

// While is a loop.
type While struct {
	Meta

	Keyword Span
	Cond    Node
	Body    *Block
}

// If is a conditional. Else is nil, a *Block or an *If.
type If struct {
	Meta

	Keyword     Span
	Cond        Node
	Then        *Block
	ElseKeyword Span
	Else        Node
}

// Tuple is a parenthesised, comma separated list. `()` is the unit value.
type Tuple struct {
	Meta

	Elems []Node
}

// Block is a braced sequence of items evaluating to its last expression.
type Block struct {
	Meta

	Items []Node
}

// Lambda is an anonymous function `|a, b| body`.
type Lambda struct {
	Meta

	// Pipe is the span of the opening `|`.
	Pipe   Span
	Params []*Param
	Body   Node
}

// Param is a lambda parameter.
type Param struct {
	Name string
	Loc  Span
	Ty   Type
}

// Span returns the parameter name's range.
func (p *Param) Span() Span { return p.Loc }

// Type returns the parameter's inferred type.
//
//nolint:ireturn // Type is a closed sum.
func (p *Param) Type() Type { return p.Ty }

// Group is a parenthesised expression `(e)`. Its span covers the
// parentheses and its type is the inner expression's.
type Group struct {
	Meta

	Inner Node
}

// Unparen strips the groups enclosing n.
//
//nolint:ireturn // Node is a closed sum.
func Unparen(n Node) Node {
	for {
		g, ok := n.(*Group)
		if !ok {
			return n
		}

		n = g.Inner
	}
}

// Comment is a line comment kept in statement position.
type Comment struct {
	Meta

	Text string
}

// TypeRef is an explicit type annotation. Its Ty is the annotated type.
type TypeRef struct {
	Meta

	Expr TypeExpr
}

// ErrorNode stands in for an item the parser could not read.
type ErrorNode struct {
	Meta

	Msg string
}

func (*Literal) isNode()     {}
func (*Variable) isNode()    {}
func (*Declaration) isNode() {}
func (*Call) isNode()        {}
func (*Binary) isNode()      {}
func (*Unary) isNode()       {}
func (*While) isNode()       {}
func (*If) isNode()          {}
func (*Tuple) isNode()       {}
func (*Group) isNode()       {}
func (*Block) isNode()       {}
func (*Lambda) isNode()      {}
func (*Comment) isNode()     {}
func (*TypeRef) isNode()     {}
func (*ErrorNode) isNode()   {}

// Pattern is the binding side of a declaration.
type Pattern interface {
	Span() Span
	Type() Type
	isPattern()
}

// PatternVar binds a single name.
type PatternVar struct {
	Meta

	Name string
}

// PatternTuple destructures a tuple.
type PatternTuple struct {
	Meta

	Elems []Pattern
}

func (*PatternVar) isPattern()   {}
func (*PatternTuple) isPattern() {}

// TypeExpr is the syntax of a type annotation.
type TypeExpr interface {
	Span() Span
	isTypeExpr()
}

// TypeName names a primitive type.
type TypeName struct {
	Loc  Span
	Name string
}

// TypeTuple is `(A, B)`; `()` is unit.
type TypeTuple struct {
	Loc   Span
	Elems []TypeExpr
}

// TypeFunc is `(A, B) -> C` or `A -> C`.
type TypeFunc struct {
	Loc    Span
	Params []TypeExpr
	Arrow  Span
	Ret    TypeExpr
}

// Span returns the annotation's range.
func (t *TypeName) Span() Span { return t.Loc }

// Span returns the annotation's range.
func (t *TypeTuple) Span() Span { return t.Loc }

// Span returns the annotation's range.
func (t *TypeFunc) Span() Span { return t.Loc }

func (*TypeName) isTypeExpr()  {}
func (*TypeTuple) isTypeExpr() {}
func (*TypeFunc) isTypeExpr()  {}
