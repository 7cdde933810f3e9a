package nrs

import (
	"strings"
)

// maxParseErrors stops recovery after this many errors.
const maxParseErrors = 50

// binaryLevels lists infix operators from loosest to tightest binding.
var binaryLevels = [][]string{
	{"or"},
	{"and"},
	{"==", "!=", "<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

// bailout unwinds the parser to the enclosing item after an error.
type bailout struct{}

type parser struct {
	src      string
	tokens   []Token
	comments []Token
	pos      int
	ci       int
	lastEnd  int
	errs     []*Error
}

// Parse builds the syntax forest for src from its token stream. On errors
// the forest still holds every item that parsed, with ErrorNode in place of
// the rest.
func Parse(src string, tokens []Token) ([]Node, []*Error) {
	p := &parser{src: src}

	for _, tok := range tokens {
		if tok.Kind == KindComment {
			p.comments = append(p.comments, tok)
		} else {
			p.tokens = append(p.tokens, tok)
		}
	}

	forest := p.parseItems(false)

	return forest, p.errs
}

// parseItems reads items until EOF or, inside a block, a closing brace.
func (p *parser) parseItems(inBlock bool) []Node {
	var items []Node

	for len(p.errs) < maxParseErrors {
		items = append(items, p.takeComments()...)

		if p.eof() {
			return items
		}

		if p.peek().IsCtrl("}") {
			if inBlock {
				return items
			}

			tok := p.next()
			p.errs = append(p.errs, errorf(ParseError, tok.Span, "unmatched \"}\""))
			items = append(items, &ErrorNode{Meta: Meta{Loc: tok.Span}, Msg: "unmatched \"}\""})

			continue
		}

		if item := p.parseItem(); item != nil {
			items = append(items, item)
		}
	}

	return items
}

// takeComments turns the comments between the previous item and the next
// token into Comment nodes. Comments inside the previous item are dropped.
func (p *parser) takeComments() []Node {
	next := len(p.src)
	if !p.eof() {
		next = p.peek().Span.Start
	}

	var out []Node

	for ; p.ci < len(p.comments); p.ci++ {
		c := p.comments[p.ci]
		if c.Span.Start >= next {
			break
		}

		if c.Span.Start < p.lastEnd {
			continue
		}

		out = append(out, &Comment{Meta: Meta{Loc: c.Span}, Text: c.Value})
	}

	return out
}

func (p *parser) parseItem() (item Node) {
	start := p.peek().Span.Start

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if _, ok := r.(bailout); !ok {
			panic(r)
		}

		item = p.recoverItem(start)
	}()

	item = p.parseStatement()

	if !p.eof() && p.peek().IsCtrl(";") {
		p.next()
	}

	return item
}

// recoverItem skips the rest of the line containing the error, stopping at
// `;` (consumed) or `}` (left for the enclosing block).
func (p *parser) recoverItem(start int) Node {
	errAt := p.errs[len(p.errs)-1].Span.Start
	end := max(p.lastEnd, start)

	if !p.eof() && p.peek().Span.Start <= errAt && !p.peek().IsCtrl("}") {
		end = p.next().Span.End
	}

	for !p.eof() {
		tok := p.peek()
		if tok.IsCtrl("}") || p.newlineBetween(end, tok.Span.Start) {
			break
		}

		p.next()
		end = tok.Span.End

		if tok.IsCtrl(";") {
			break
		}
	}

	return &ErrorNode{Meta: Meta{Loc: Span{Start: start, End: max(end, start)}}, Msg: p.errs[len(p.errs)-1].Msg}
}

func (p *parser) parseStatement() Node {
	if p.isDeclarationStart() {
		return p.parseDeclaration()
	}

	return p.parseExpr()
}

// isDeclarationStart looks past a pattern for `:=` or `:`.
func (p *parser) isDeclarationStart() bool {
	end, ok := p.patternEnd(p.pos)
	if !ok || end >= len(p.tokens) {
		return false
	}

	next := p.tokens[end]

	return next.IsOp(":=") || next.IsCtrl(":")
}

// patternEnd returns the index of the token after the pattern starting at i.
func (p *parser) patternEnd(i int) (int, bool) {
	if i >= len(p.tokens) {
		return i, false
	}

	switch tok := p.tokens[i]; {
	case tok.Kind == KindIdent:
		return i + 1, true
	case tok.IsCtrl("("):
		i++

		for {
			end, ok := p.patternEnd(i)
			if !ok || end >= len(p.tokens) {
				return end, false
			}

			switch sep := p.tokens[end]; {
			case sep.IsCtrl(","):
				i = end + 1
			case sep.IsCtrl(")"):
				return end + 1, true
			default:
				return end, false
			}
		}
	default:
		return i, false
	}
}

func (p *parser) parseDeclaration() Node {
	pattern := p.parsePattern()
	decl := &Declaration{Pattern: pattern}
	end := pattern.Span().End

	tok := p.next()

	switch {
	case tok.IsOp(":="):
		decl.Form = BindInfer
		decl.Def = tok.Span
		decl.Value = p.parseExpr()
		end = decl.Value.Span().End
	case tok.IsCtrl(":"):
		decl.Form = BindAnnotated
		decl.Def = tok.Span
		expr := p.parseType()
		decl.Annotation = &TypeRef{Meta: Meta{Loc: expr.Span()}, Expr: expr}
		end = expr.Span().End

		if !p.eof() && p.peek().IsOp("=") {
			decl.Assign = p.next().Span
			decl.Value = p.parseExpr()
			end = decl.Value.Span().End
		}
	default:
		p.fail(tok.Span, "expected `:=` or `:` after pattern, found %q", tok.Value)
	}

	decl.Loc = Span{Start: pattern.Span().Start, End: end}

	return decl
}

func (p *parser) parsePattern() Pattern {
	tok := p.next()

	switch {
	case tok.Kind == KindIdent:
		return &PatternVar{Meta: Meta{Loc: tok.Span}, Name: tok.Value}
	case tok.IsCtrl("("):
		var elems []Pattern

		for {
			elems = append(elems, p.parsePattern())

			sep := p.next()
			if sep.IsCtrl(")") {
				return &PatternTuple{Meta: Meta{Loc: Span{Start: tok.Span.Start, End: sep.Span.End}}, Elems: elems}
			}

			if !sep.IsCtrl(",") {
				p.fail(sep.Span, "expected `,` or `)` in pattern, found %q", sep.Value)
			}
		}
	default:
		p.fail(tok.Span, "expected a name or `(` to start a pattern, found %q", tok.Value)

		return nil
	}
}

func (p *parser) parseExpr() Node {
	if !p.eof() && p.peek().IsOp("|") {
		return p.parseLambda()
	}

	return p.parseBinary(0)
}

func (p *parser) parseLambda() Node {
	pipe := p.next()
	lambda := &Lambda{Pipe: pipe.Span}

	for !p.eof() && p.peek().Kind == KindIdent {
		tok := p.next()
		lambda.Params = append(lambda.Params, &Param{Name: tok.Value, Loc: tok.Span})

		if !p.peek().IsCtrl(",") {
			break
		}

		p.next()
	}

	p.expectOp("|")

	lambda.Body = p.parseExpr()
	lambda.Loc = Span{Start: pipe.Span.Start, End: lambda.Body.Span().End}

	return lambda
}

func (p *parser) parseBinary(level int) Node {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left := p.parseBinary(level + 1)

	for !p.eof() && p.peek().Kind == KindOp && containsOp(binaryLevels[level], p.peek().Value) {
		op := p.next()
		right := p.parseBinary(level + 1)
		left = &Binary{
			Meta:   Meta{Loc: left.Span().Join(right.Span())},
			Left:   left,
			Op:     op.Value,
			OpSpan: op.Span,
			Right:  right,
		}
	}

	return left
}

func containsOp(ops []string, op string) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}

	return false
}

func (p *parser) parseUnary() Node {
	if !p.eof() && (p.peek().IsOp("not") || p.peek().IsOp("-")) {
		op := p.next()
		operand := p.parseUnary()

		return &Unary{
			Meta:    Meta{Loc: op.Span.Join(operand.Span())},
			Op:      op.Value,
			OpSpan:  op.Span,
			Operand: operand,
		}
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() Node {
	expr := p.parsePrimary()

	// A call's `(` must sit on the callee's line; otherwise it starts a new item.
	for !p.eof() && p.peek().IsCtrl("(") && !p.newlineBetween(expr.Span().End, p.peek().Span.Start) {
		p.next()

		call := &Call{Callee: expr}

		for !p.peek().IsCtrl(")") {
			call.Args = append(call.Args, p.parseExpr())

			if !p.peek().IsCtrl(",") {
				break
			}

			p.next()
		}

		closing := p.expectCtrl(")")
		call.Loc = Span{Start: expr.Span().Start, End: closing.End}
		expr = call
	}

	return expr
}

func (p *parser) parsePrimary() Node {
	tok := p.peek()

	switch tok.Kind {
	case KindNumber:
		p.next()

		return &Literal{Meta: Meta{Loc: tok.Span}, Kind: LitNumber, Value: tok.Value}
	case KindText:
		p.next()

		return &Literal{Meta: Meta{Loc: tok.Span}, Kind: LitString, Value: tok.Value}
	case KindBool:
		p.next()

		return &Literal{Meta: Meta{Loc: tok.Span}, Kind: LitBool, Value: tok.Value}
	case KindIdent:
		p.next()

		return &Variable{Meta: Meta{Loc: tok.Span}, Name: tok.Value}
	case KindWhile:
		return p.parseWhile()
	case KindIf:
		return p.parseIf()
	case KindCtrl:
		switch tok.Value {
		case "(":
			return p.parseParens()
		case "{":
			return p.parseBlock()
		}
	case KindOp, KindElse, KindComment:
	}

	if p.eof() {
		p.fail(tok.Span, "unexpected end of input, expected an expression")
	}

	p.fail(tok.Span, "unexpected %q, expected an expression", tok.Value)

	return nil
}

func (p *parser) parseParens() Node {
	open := p.next()

	if p.peek().IsCtrl(")") {
		closing := p.next()

		return &Tuple{Meta: Meta{Loc: Span{Start: open.Span.Start, End: closing.Span.End}}}
	}

	first := p.parseExpr()
	if p.peek().IsCtrl(")") {
		closing := p.next()

		return &Group{Meta: Meta{Loc: Span{Start: open.Span.Start, End: closing.Span.End}}, Inner: first}
	}

	elems := []Node{first}

	for p.peek().IsCtrl(",") {
		p.next()

		if p.peek().IsCtrl(")") {
			break
		}

		elems = append(elems, p.parseExpr())
	}

	closing := p.expectCtrl(")")

	return &Tuple{Meta: Meta{Loc: Span{Start: open.Span.Start, End: closing.End}}, Elems: elems}
}

func (p *parser) parseBlock() *Block {
	open := p.expectCtrl("{")
	items := p.parseItems(true)
	closing := p.expectCtrl("}")

	return &Block{Meta: Meta{Loc: Span{Start: open.Start, End: closing.End}}, Items: items}
}

func (p *parser) parseWhile() Node {
	kw := p.next()
	cond := p.parseExpr()
	body := p.parseBlock()

	return &While{
		Meta:    Meta{Loc: Span{Start: kw.Span.Start, End: body.Loc.End}},
		Keyword: kw.Span,
		Cond:    cond,
		Body:    body,
	}
}

func (p *parser) parseIf() Node {
	kw := p.next()
	node := &If{Keyword: kw.Span}
	node.Cond = p.parseExpr()
	node.Then = p.parseBlock()
	end := node.Then.Loc.End

	if !p.eof() && p.peek().Kind == KindElse {
		node.ElseKeyword = p.next().Span

		if p.peek().Kind == KindIf {
			node.Else = p.parseIf()
		} else {
			node.Else = p.parseBlock()
		}

		end = node.Else.Span().End
	}

	node.Loc = Span{Start: kw.Span.Start, End: end}

	return node
}

// parseType reads `atom ['->' type]`.
func (p *parser) parseType() TypeExpr {
	atom, list := p.parseTypeAtom()

	if p.eof() || !p.peek().IsOp("->") {
		return atom
	}

	arrow := p.next()
	ret := p.parseType()

	return &TypeFunc{
		Loc:    Span{Start: atom.Span().Start, End: ret.Span().End},
		Params: list,
		Arrow:  arrow.Span,
		Ret:    ret,
	}
}

// parseTypeAtom returns the atom and, for use as function parameters, the
// list it denotes: the elements of a parenthesised list or the atom itself.
func (p *parser) parseTypeAtom() (TypeExpr, []TypeExpr) {
	tok := p.next()

	switch {
	case tok.Kind == KindIdent:
		name := &TypeName{Loc: tok.Span, Name: tok.Value}

		return name, []TypeExpr{name}
	case tok.IsCtrl("("):
		var elems []TypeExpr

		for !p.peek().IsCtrl(")") {
			elems = append(elems, p.parseType())

			if !p.peek().IsCtrl(",") {
				break
			}

			p.next()
		}

		closing := p.expectCtrl(")")
		loc := Span{Start: tok.Span.Start, End: closing.End}

		if len(elems) == 1 {
			return elems[0], elems
		}

		return &TypeTuple{Loc: loc, Elems: elems}, elems
	default:
		p.fail(tok.Span, "expected a type, found %q", tok.Value)

		return nil, nil
	}
}

// Token helpers.

func (p *parser) eof() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the next token, or a zero-width token at the end of input.
func (p *parser) peek() Token {
	if p.eof() {
		return Token{Kind: KindCtrl, Span: Span{Start: len(p.src), End: len(p.src)}}
	}

	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.eof() {
		p.fail(tok.Span, "unexpected end of input")
	}

	p.pos++
	p.lastEnd = tok.Span.End

	return tok
}

func (p *parser) expectCtrl(ctrl string) Span {
	tok := p.peek()
	if !tok.IsCtrl(ctrl) {
		p.fail(tok.Span, "expected %q, found %s", ctrl, describe(tok))
	}

	return p.next().Span
}

func (p *parser) expectOp(op string) Span {
	tok := p.peek()
	if !tok.IsOp(op) {
		p.fail(tok.Span, "expected %q, found %s", op, describe(tok))
	}

	return p.next().Span
}

func describe(tok Token) string {
	if tok.Value == "" {
		return "end of input"
	}

	return "\"" + tok.Value + "\""
}

func (p *parser) newlineBetween(from, to int) bool {
	if from >= to || to > len(p.src) {
		return false
	}

	return strings.ContainsRune(p.src[from:to], '\n')
}

func (p *parser) fail(span Span, format string, args ...any) {
	p.errs = append(p.errs, errorf(ParseError, span, format, args...))

	panic(bailout{})
}
