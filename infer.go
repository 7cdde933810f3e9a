package nrs

// scope maps names to their types, falling back to the enclosing scope.
type scope struct {
	parent *scope
	names  map[string]Type
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]Type)}
}

//nolint:ireturn // Type is a closed sum.
func (s *scope) lookup(name string) (Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.names[name]; ok {
			return t, true
		}
	}

	return nil, false
}

// builtins are bound in the outermost scope of every document.
func builtins() map[string]Type {
	return map[string]Type{
		"print": &FuncType{Params: []Type{String}, Ret: Unit()},
		"str":   &FuncType{Params: []Type{Number}, Ret: String},
		"len":   &FuncType{Params: []Type{String}, Ret: Number},
	}
}

type inferer struct {
	table TypeTable
	errs  []*Error
}

// Infer annotates every node of forest with its type and returns the table
// its Var types index into. The forest is modified in place.
func Infer(forest []Node) (TypeTable, []*Error) {
	i := &inferer{}
	global := newScope(nil)

	for name, t := range builtins() {
		global.names[name] = t
	}

	top := newScope(global)
	for _, n := range forest {
		i.expr(n, top)
	}

	return i.table, i.errs
}

//nolint:ireturn // Type is a closed sum.
func (i *inferer) fresh() Type {
	i.table = append(i.table, nil)

	return Var(len(i.table) - 1)
}

//nolint:ireturn,cyclop,funlen // Type is a closed sum; one case per node kind.
func (i *inferer) expr(n Node, sc *scope) Type {
	switch n := n.(type) {
	case *Literal:
		switch n.Kind {
		case LitNumber:
			n.Ty = Number
		case LitString:
			n.Ty = String
		case LitBool:
			n.Ty = Bool
		}
	case *Variable:
		t, ok := sc.lookup(n.Name)
		if !ok {
			i.errorf(n.Loc, "undefined variable `%s`", n.Name)
			t = i.fresh()
		}

		n.Ty = t
	case *Declaration:
		n.Ty = i.declaration(n, sc)
	case *Call:
		callee := i.expr(n.Callee, sc)
		args := make([]Type, len(n.Args))

		for idx, arg := range n.Args {
			args[idx] = i.expr(arg, sc)
		}

		ret := i.fresh()
		i.unify(n.Loc, callee, &FuncType{Params: args, Ret: ret})
		n.Ty = ret
	case *Binary:
		n.Ty = i.binary(n, sc)
	case *Unary:
		operand := i.expr(n.Operand, sc)

		if n.Op == "not" {
			i.unify(n.Operand.Span(), operand, Bool)
			n.Ty = Bool
		} else {
			i.unify(n.Operand.Span(), operand, Number)
			n.Ty = Number
		}
	case *While:
		i.unify(n.Cond.Span(), i.expr(n.Cond, sc), Bool)
		i.expr(n.Body, sc)
		n.Ty = Unit()
	case *If:
		i.unify(n.Cond.Span(), i.expr(n.Cond, sc), Bool)
		then := i.expr(n.Then, sc)

		if n.Else != nil {
			i.unify(n.Else.Span(), then, i.expr(n.Else, sc))
			n.Ty = then
		} else {
			n.Ty = Unit()
		}
	case *Tuple:
		elems := make([]Type, len(n.Elems))
		for idx, e := range n.Elems {
			elems[idx] = i.expr(e, sc)
		}

		n.Ty = &TupleType{Elems: elems}
	case *Group:
		n.Ty = i.expr(n.Inner, sc)
	case *Block:
		n.Ty = i.block(n, sc)
	case *Lambda:
		inner := newScope(sc)
		params := make([]Type, len(n.Params))

		for idx, p := range n.Params {
			p.Ty = i.fresh()
			params[idx] = p.Ty
			inner.names[p.Name] = p.Ty
		}

		n.Ty = &FuncType{Params: params, Ret: i.expr(n.Body, inner)}
	case *TypeRef:
		n.Ty = i.typeExpr(n.Expr)
	case *Comment:
		return nil
	case *ErrorNode:
		return i.fresh()
	}

	return n.Type()
}

//nolint:ireturn // Type is a closed sum.
func (i *inferer) declaration(d *Declaration, sc *scope) Type {
	// A lambda may refer to its own name, so bind the pattern first.
	_, recursive := Unparen(d.Value).(*Lambda)

	var bound Type
	if recursive {
		bound = i.pattern(d.Pattern, sc)
	}

	var declared Type
	if d.Annotation != nil {
		declared = i.expr(d.Annotation, sc)
	}

	var value Type
	if d.Value != nil {
		value = i.expr(d.Value, sc)
	}

	if !recursive {
		bound = i.pattern(d.Pattern, sc)
	}

	if declared != nil {
		i.unify(d.Pattern.Span(), bound, declared)
	}

	if value != nil {
		i.unify(d.Value.Span(), bound, value)
	}

	return bound
}

//nolint:ireturn // Type is a closed sum.
func (i *inferer) pattern(p Pattern, sc *scope) Type {
	switch p := p.(type) {
	case *PatternVar:
		p.Ty = i.fresh()
		sc.names[p.Name] = p.Ty
	case *PatternTuple:
		elems := make([]Type, len(p.Elems))
		for idx, e := range p.Elems {
			elems[idx] = i.pattern(e, sc)
		}

		p.Ty = &TupleType{Elems: elems}
	}

	return p.Type()
}

//nolint:ireturn // Type is a closed sum.
func (i *inferer) binary(n *Binary, sc *scope) Type {
	left := i.expr(n.Left, sc)
	right := i.expr(n.Right, sc)

	switch n.Op {
	case "+":
		i.unify(n.Right.Span(), left, right)

		if resolved, err := i.table.Resolve(left); err == nil && resolved == String {
			return String
		}

		i.unify(n.Left.Span(), left, Number)

		return Number
	case "-", "*", "/", "%":
		i.unify(n.Left.Span(), left, Number)
		i.unify(n.Right.Span(), right, Number)

		return Number
	case "==", "!=":
		i.unify(n.Right.Span(), left, right)

		return Bool
	case "<", ">", "<=", ">=":
		i.unify(n.Left.Span(), left, Number)
		i.unify(n.Right.Span(), right, Number)

		return Bool
	case "and", "or":
		i.unify(n.Left.Span(), left, Bool)
		i.unify(n.Right.Span(), right, Bool)

		return Bool
	default:
		i.errorf(n.OpSpan, "unknown operator `%s`", n.Op)

		return i.fresh()
	}
}

//nolint:ireturn // Type is a closed sum.
func (i *inferer) block(b *Block, sc *scope) Type {
	inner := newScope(sc)

	var result Type = Unit()

	for _, item := range b.Items {
		t := i.expr(item, inner)

		switch item.(type) {
		case *Comment:
		case *Declaration:
			result = Unit()
		default:
			result = t
		}
	}

	return result
}

//nolint:ireturn // Type is a closed sum.
func (i *inferer) typeExpr(t TypeExpr) Type {
	switch t := t.(type) {
	case *TypeName:
		if p, ok := primitiveNames[t.Name]; ok {
			return p
		}

		i.errorf(t.Loc, "unknown type `%s`", t.Name)

		return i.fresh()
	case *TypeTuple:
		elems := make([]Type, len(t.Elems))
		for idx, e := range t.Elems {
			elems[idx] = i.typeExpr(e)
		}

		return &TupleType{Elems: elems}
	case *TypeFunc:
		params := make([]Type, len(t.Params))
		for idx, p := range t.Params {
			params[idx] = i.typeExpr(p)
		}

		return &FuncType{Params: params, Ret: i.typeExpr(t.Ret)}
	default:
		return i.fresh()
	}
}

// unify makes a and b equal, recording a type error at span when they
// cannot be.
func (i *inferer) unify(span Span, a, b Type) {
	if !i.unifies(a, b) {
		i.mismatch(span, a, b)
	}
}

func (i *inferer) unifies(a, b Type) bool {
	ra, errA := i.table.Resolve(a)
	rb, errB := i.table.Resolve(b)

	if errA != nil || errB != nil {
		return false
	}

	if va, ok := ra.(Var); ok {
		return i.bind(va, rb)
	}

	if vb, ok := rb.(Var); ok {
		return i.bind(vb, ra)
	}

	switch ta := ra.(type) {
	case Primitive:
		return ta == rb
	case *TupleType:
		tb, ok := rb.(*TupleType)
		if !ok || len(ta.Elems) != len(tb.Elems) {
			return false
		}

		for idx := range ta.Elems {
			if !i.unifies(ta.Elems[idx], tb.Elems[idx]) {
				return false
			}
		}

		return true
	case *FuncType:
		tb, ok := rb.(*FuncType)
		if !ok || len(ta.Params) != len(tb.Params) {
			return false
		}

		for idx := range ta.Params {
			if !i.unifies(ta.Params[idx], tb.Params[idx]) {
				return false
			}
		}

		return i.unifies(ta.Ret, tb.Ret)
	default:
		return false
	}
}

func (i *inferer) bind(v Var, t Type) bool {
	if other, ok := t.(Var); ok && other == v {
		return true
	}

	if i.occurs(v, t) {
		return false
	}

	i.table[v] = t

	return true
}

// occurs reports whether v appears in t, which would make the binding infinite.
func (i *inferer) occurs(v Var, t Type) bool {
	resolved, err := i.table.Resolve(t)
	if err != nil {
		return true
	}

	switch t := resolved.(type) {
	case Var:
		return t == v
	case *TupleType:
		for _, e := range t.Elems {
			if i.occurs(v, e) {
				return true
			}
		}
	case *FuncType:
		for _, p := range t.Params {
			if i.occurs(v, p) {
				return true
			}
		}

		return i.occurs(v, t.Ret)
	}

	return false
}

func (i *inferer) mismatch(span Span, a, b Type) {
	want, errA := i.table.Render(a)
	got, errB := i.table.Render(b)

	if errA != nil || errB != nil {
		i.errorf(span, "mismatched types")

		return
	}

	i.errorf(span, "mismatched types: expected %s, found %s", want, got)
}

func (i *inferer) errorf(span Span, format string, args ...any) {
	i.errs = append(i.errs, errorf(TypeError, span, format, args...))
}
