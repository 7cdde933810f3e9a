package analysis

import (
	"strings"

	"github.com/nrs-lang/nrs"
)

// Rule represents a semantic analysis check.
// Inspired by go/analysis.Analyzer pattern.
type Rule struct {
	// Name is a short identifier for the rule (used in diagnostic codes).
	Name string

	// Doc is a brief description of what the rule checks.
	Doc string

	// Severity is the default severity for diagnostics from this rule.
	Severity DiagnosticSeverity

	// Run executes the rule and appends any diagnostics to the file.
	// It is only called when the file has a typed forest.
	Run func(f *AnalyzedFile)
}

// DefaultRules returns all built-in semantic analysis rules.
func DefaultRules() []*Rule {
	return []*Rule{
		// Warning-level checks.
		unusedBindingRule,

		// Hint-level checks.
		constantConditionRule,
		emptyBlockRule,
	}
}

// ----------------------------------------------------------------------------
// Rule: unused-binding
// ----------------------------------------------------------------------------

var unusedBindingRule = &Rule{
	Name:     "unused-binding",
	Doc:      "Reports block-local names that are never read.",
	Severity: SeverityWarning,
	Run:      checkUnusedBindings,
}

type binding struct {
	name string
	span nrs.Span
	used bool
}

type bindingScope struct {
	parent *bindingScope
	names  map[string]*binding
	// order keeps declarations in source order for stable reporting.
	order []*binding
}

func (s *bindingScope) declare(name string, span nrs.Span) {
	b := &binding{name: name, span: span}
	s.names[name] = b
	s.order = append(s.order, b)
}

func (s *bindingScope) use(name string) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.names[name]; ok {
			b.used = true

			return
		}
	}
}

type usageWalker struct {
	f *AnalyzedFile
}

func checkUnusedBindings(f *AnalyzedFile) {
	w := &usageWalker{f: f}
	top := &bindingScope{names: map[string]*binding{}}

	for _, n := range f.Forest {
		w.walk(n, top)
	}
}

func (w *usageWalker) walk(n nrs.Node, sc *bindingScope) {
	switch n := n.(type) {
	case *nrs.Variable:
		sc.use(n.Name)
	case *nrs.Declaration:
		_, recursive := nrs.Unparen(n.Value).(*nrs.Lambda)
		if recursive {
			declarePattern(sc, n.Pattern)
		}

		if n.Value != nil {
			w.walk(n.Value, sc)
		}

		if !recursive {
			declarePattern(sc, n.Pattern)
		}
	case *nrs.Block:
		inner := &bindingScope{parent: sc, names: map[string]*binding{}}

		for _, item := range n.Items {
			w.walk(item, inner)
		}

		w.report(inner)
	case *nrs.Lambda:
		inner := &bindingScope{parent: sc, names: map[string]*binding{}}
		for _, p := range n.Params {
			inner.names[p.Name] = &binding{name: p.Name, span: p.Span(), used: true}
		}

		w.walk(n.Body, inner)
	default:
		for _, child := range Children(n) {
			w.walk(child, sc)
		}
	}
}

func declarePattern(sc *bindingScope, p nrs.Pattern) {
	switch p := p.(type) {
	case *nrs.PatternVar:
		sc.declare(p.Name, p.Span())
	case *nrs.PatternTuple:
		for _, e := range p.Elems {
			declarePattern(sc, e)
		}
	default:
		uncovered("unused-binding", p)
	}
}

func (w *usageWalker) report(sc *bindingScope) {
	for _, b := range sc.order {
		if b.used || strings.HasPrefix(b.name, "_") {
			continue
		}

		w.f.Diagnostics = append(w.f.Diagnostics, Diagnostic{
			Span:     b.span,
			Severity: SeverityWarning,
			Message:  "`" + b.name + "` is declared but never used",
			Code:     "unused-binding",
			Source:   "nrs",
		})
	}
}

// ----------------------------------------------------------------------------
// Rule: constant-condition
// ----------------------------------------------------------------------------

var constantConditionRule = &Rule{
	Name:     "constant-condition",
	Doc:      "Reports if conditions that are boolean literals.",
	Severity: SeverityHint,
	Run:      checkConstantConditions,
}

func checkConstantConditions(f *AnalyzedFile) {
	Inspect(f.Forest, func(n nrs.Node) bool {
		cond, ok := n.(*nrs.If)
		if !ok {
			return true
		}

		if lit, ok := nrs.Unparen(cond.Cond).(*nrs.Literal); ok && lit.Kind == nrs.LitBool {
			f.Diagnostics = append(f.Diagnostics, Diagnostic{
				Span:     lit.Span(),
				Severity: SeverityHint,
				Message:  "condition is always " + lit.Value,
				Code:     "constant-condition",
				Source:   "nrs",
			})
		}

		return true
	})
}

// ----------------------------------------------------------------------------
// Rule: empty-block
// ----------------------------------------------------------------------------

var emptyBlockRule = &Rule{
	Name:     "empty-block",
	Doc:      "Reports loop and branch bodies with no items.",
	Severity: SeverityHint,
	Run:      checkEmptyBlocks,
}

func checkEmptyBlocks(f *AnalyzedFile) {
	report := func(b *nrs.Block, what string) {
		if b != nil && len(b.Items) == 0 {
			f.Diagnostics = append(f.Diagnostics, Diagnostic{
				Span:     b.Span(),
				Severity: SeverityHint,
				Message:  "empty " + what + " body",
				Code:     "empty-block",
				Source:   "nrs",
			})
		}
	}

	Inspect(f.Forest, func(n nrs.Node) bool {
		switch n := n.(type) {
		case *nrs.While:
			report(n.Body, "loop")
		case *nrs.If:
			report(n.Then, "branch")

			if b, ok := n.Else.(*nrs.Block); ok {
				report(b, "branch")
			}
		}

		return true
	})
}
