package analysis

import "github.com/nrs-lang/nrs"

// Children returns the direct child nodes of n in source order. Lambda
// parameters and declaration patterns are not nodes and are not included.
func Children(n nrs.Node) []nrs.Node {
	switch n := n.(type) {
	case *nrs.Literal, *nrs.Variable, *nrs.Comment, *nrs.TypeRef, *nrs.ErrorNode:
		return nil
	case *nrs.Declaration:
		var out []nrs.Node
		if n.Annotation != nil {
			out = append(out, n.Annotation)
		}

		if n.Value != nil {
			out = append(out, n.Value)
		}

		return out
	case *nrs.Call:
		return append([]nrs.Node{n.Callee}, n.Args...)
	case *nrs.Binary:
		return []nrs.Node{n.Left, n.Right}
	case *nrs.Unary:
		return []nrs.Node{n.Operand}
	case *nrs.While:
		return []nrs.Node{n.Cond, n.Body}
	case *nrs.If:
		if n.Else == nil {
			return []nrs.Node{n.Cond, n.Then}
		}

		return []nrs.Node{n.Cond, n.Then, n.Else}
	case *nrs.Tuple:
		return n.Elems
	case *nrs.Group:
		return []nrs.Node{n.Inner}
	case *nrs.Block:
		return n.Items
	case *nrs.Lambda:
		return []nrs.Node{n.Body}
	default:
		uncovered("children", n)

		return nil
	}
}

// Inspect traverses the forest depth first in source order, calling f for
// each node. Children are skipped when f returns false.
func Inspect(forest []nrs.Node, f func(nrs.Node) bool) {
	for _, n := range forest {
		inspect(n, f)
	}
}

func inspect(n nrs.Node, f func(nrs.Node) bool) {
	if !f(n) {
		return
	}

	for _, child := range Children(n) {
		inspect(child, f)
	}
}
