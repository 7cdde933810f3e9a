package analysis

import "github.com/nrs-lang/nrs"

// FindTypeAt returns the most specific type at offset, or nil when no
// top-level node contains it. The returned type may be a Var; resolve it
// against the document's type table.
//
//nolint:ireturn // Type is a closed sum.
func FindTypeAt(forest []nrs.Node, offset int) nrs.Type {
	for _, n := range forest {
		if n.Span().Contains(offset) {
			return typeAt(n, offset)
		}
	}

	return nil
}

// typeAt descends into children in source order; the first child claiming
// offset wins, otherwise the node's own type is the answer.
//
//nolint:ireturn,cyclop // Type is a closed sum; one case per node kind.
func typeAt(n nrs.Node, offset int) nrs.Type {
	if !n.Span().Contains(offset) {
		return nil
	}

	switch n := n.(type) {
	case *nrs.Literal, *nrs.Variable:
		return n.Type()
	case *nrs.Comment, *nrs.ErrorNode:
		return nil
	case *nrs.TypeRef:
		return n.Type()
	case *nrs.Declaration:
		return declarationTypeAt(n, offset)
	case *nrs.Lambda:
		for _, p := range n.Params {
			if p.Span().Contains(offset) {
				return p.Type()
			}
		}

		return firstTypeAt(n, Children(n), offset)
	case *nrs.Call, *nrs.Binary, *nrs.Unary, *nrs.While, *nrs.If, *nrs.Tuple, *nrs.Group, *nrs.Block:
		return firstTypeAt(n, Children(n), offset)
	default:
		uncovered("position", n)

		return nil
	}
}

//nolint:ireturn // Type is a closed sum.
func firstTypeAt(n nrs.Node, children []nrs.Node, offset int) nrs.Type {
	for _, child := range children {
		if t := typeAt(child, offset); t != nil {
			return t
		}
	}

	return n.Type()
}

// declarationTypeAt treats everything before the end of the bound name as the
// name itself, answering with the initializer's type there.
//
//nolint:ireturn // Type is a closed sum.
func declarationTypeAt(d *nrs.Declaration, offset int) nrs.Type {
	if tuple, ok := d.Pattern.(*nrs.PatternTuple); ok {
		if tuple.Span().Contains(offset) {
			return patternTypeAt(tuple, offset)
		}
	} else if offset < d.Span().Start+len(d.Name()) {
		switch {
		case d.Value != nil && d.Value.Type() != nil:
			return d.Value.Type()
		case d.Annotation != nil:
			return d.Annotation.Type()
		default:
			return d.Type()
		}
	}

	if d.Annotation != nil {
		if t := typeAt(d.Annotation, offset); t != nil {
			return t
		}
	}

	if d.Value != nil {
		if t := typeAt(d.Value, offset); t != nil {
			return t
		}
	}

	return d.Type()
}

//nolint:ireturn // Type is a closed sum.
func patternTypeAt(p nrs.Pattern, offset int) nrs.Type {
	switch p := p.(type) {
	case *nrs.PatternVar:
		if p.Span().Contains(offset) {
			return p.Type()
		}

		return nil
	case *nrs.PatternTuple:
		for _, e := range p.Elems {
			if t := patternTypeAt(e, offset); t != nil {
				return t
			}
		}

		if p.Span().Contains(offset) {
			return p.Type()
		}

		return nil
	default:
		uncovered("position", p)

		return nil
	}
}
