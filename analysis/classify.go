package analysis

import "github.com/nrs-lang/nrs"

// Lexical categorizes raw tokens. It is the fallback when no syntax tree is
// available; punctuation is dropped.
func Lexical(tokens []nrs.Token) []Categorized {
	out := make([]Categorized, 0, len(tokens))

	for _, tok := range tokens {
		var c Category

		switch tok.Kind {
		case nrs.KindNumber:
			c = CategoryNumber
		case nrs.KindText:
			c = CategoryString
		case nrs.KindIdent:
			c = CategoryVariable
		case nrs.KindBool, nrs.KindWhile, nrs.KindIf, nrs.KindElse:
			c = CategoryKeyword
		case nrs.KindOp:
			c = CategoryOperator
		case nrs.KindComment:
			c = CategoryComment
		case nrs.KindCtrl:
			continue
		default:
			uncovered("lexical", tok.Kind)
		}

		out = append(out, Categorized{Category: c, Span: tok.Span})
	}

	return out
}

// Structural categorizes a type checked forest in source order. Comments the
// parser folded into expressions are merged back in from tokens.
func Structural(forest []nrs.Node, table nrs.TypeTable, tokens []nrs.Token) []Categorized {
	c := &classifier{table: table}
	for _, n := range forest {
		c.node(n)
	}

	return mergeComments(c.out, tokens)
}

// Classify picks the structural classifier when a forest is available.
func Classify(tokens []nrs.Token, forest []nrs.Node, table nrs.TypeTable) []Categorized {
	if forest == nil {
		return Lexical(tokens)
	}

	return Structural(forest, table, tokens)
}

type classifier struct {
	table nrs.TypeTable
	out   []Categorized
}

func (c *classifier) emit(cat Category, span nrs.Span) {
	if span.Len() > 0 {
		c.out = append(c.out, Categorized{Category: cat, Span: span})
	}
}

func (c *classifier) name(t nrs.Type, span nrs.Span) {
	if c.table.IsFunction(t) {
		c.emit(CategoryFunction, span)
	} else {
		c.emit(CategoryVariable, span)
	}
}

func operatorCategory(op string) Category {
	switch op {
	case "and", "or", "not":
		return CategoryKeyword
	default:
		return CategoryOperator
	}
}

//nolint:cyclop,funlen // one case per node kind
func (c *classifier) node(n nrs.Node) {
	switch n := n.(type) {
	case *nrs.Literal:
		switch n.Kind {
		case nrs.LitNumber:
			c.emit(CategoryNumber, n.Span())
		case nrs.LitString:
			c.emit(CategoryString, n.Span())
		case nrs.LitBool:
			c.emit(CategoryEnumMember, n.Span())
		default:
			uncovered("classify", n.Kind)
		}
	case *nrs.Variable:
		c.name(n.Type(), n.Span())
	case *nrs.Declaration:
		c.pattern(n.Pattern)

		if n.Form == nrs.BindInfer {
			c.emit(CategoryOperator, n.Def)
		}

		if n.Annotation != nil {
			c.node(n.Annotation)
		}

		c.emit(CategoryOperator, n.Assign)

		if n.Value != nil {
			c.node(n.Value)
		}
	case *nrs.Call:
		c.node(n.Callee)

		for _, arg := range n.Args {
			c.node(arg)
		}
	case *nrs.Binary:
		c.node(n.Left)
		c.emit(operatorCategory(n.Op), n.OpSpan)
		c.node(n.Right)
	case *nrs.Unary:
		c.emit(operatorCategory(n.Op), n.OpSpan)
		c.node(n.Operand)
	case *nrs.While:
		c.emit(CategoryKeyword, n.Keyword)
		c.node(n.Cond)
		c.node(n.Body)
	case *nrs.If:
		c.emit(CategoryKeyword, n.Keyword)
		c.node(n.Cond)
		c.node(n.Then)

		if n.Else != nil {
			c.emit(CategoryKeyword, n.ElseKeyword)
			c.node(n.Else)
		}
	case *nrs.Tuple:
		for _, e := range n.Elems {
			c.node(e)
		}
	case *nrs.Group:
		c.node(n.Inner)
	case *nrs.Block:
		for _, item := range n.Items {
			c.node(item)
		}
	case *nrs.Lambda:
		c.emit(CategoryOperator, n.Pipe)

		for _, p := range n.Params {
			c.name(p.Type(), p.Span())
		}

		c.node(n.Body)
	case *nrs.Comment:
		c.emit(CategoryComment, n.Span())
	case *nrs.TypeRef:
		c.typeExpr(n.Expr)
	case *nrs.ErrorNode:
	default:
		uncovered("classify", n)
	}
}

func (c *classifier) pattern(p nrs.Pattern) {
	switch p := p.(type) {
	case *nrs.PatternVar:
		c.name(p.Type(), p.Span())
	case *nrs.PatternTuple:
		for _, e := range p.Elems {
			c.pattern(e)
		}
	default:
		uncovered("classify", p)
	}
}

func (c *classifier) typeExpr(t nrs.TypeExpr) {
	switch t := t.(type) {
	case *nrs.TypeName:
		c.emit(CategoryType, t.Loc)
	case *nrs.TypeTuple:
		for _, e := range t.Elems {
			c.typeExpr(e)
		}
	case *nrs.TypeFunc:
		for _, p := range t.Params {
			c.typeExpr(p)
		}

		c.emit(CategoryOperator, t.Arrow)
		c.typeExpr(t.Ret)
	default:
		uncovered("classify", t)
	}
}

// mergeComments adds comment tokens that are not already in out, keeping
// source order. Both inputs are sorted.
func mergeComments(out []Categorized, tokens []nrs.Token) []Categorized {
	seen := make(map[int]bool)

	for _, c := range out {
		if c.Category == CategoryComment {
			seen[c.Span.Start] = true
		}
	}

	var missing []Categorized

	for _, tok := range tokens {
		if tok.Kind == nrs.KindComment && !seen[tok.Span.Start] {
			missing = append(missing, Categorized{Category: CategoryComment, Span: tok.Span})
		}
	}

	if len(missing) == 0 {
		return out
	}

	merged := make([]Categorized, 0, len(out)+len(missing))
	i, j := 0, 0

	for i < len(out) && j < len(missing) {
		if missing[j].Span.Start < out[i].Span.Start {
			merged = append(merged, missing[j])
			j++
		} else {
			merged = append(merged, out[i])
			i++
		}
	}

	merged = append(merged, out[i:]...)

	return append(merged, missing[j:]...)
}
