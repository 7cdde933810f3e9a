package nrs

import "sort"

// Analysis is the result of running the whole frontend over one document.
type Analysis struct {
	// Tokens is every token that could be lexed, comments included. It is
	// populated even when Errors is not empty.
	Tokens []Token
	// Forest and Table are nil unless the document lexed, parsed and
	// type checked without errors.
	Forest []Node
	Table  TypeTable
	// Errors is sorted by span start.
	Errors []*Error
}

// OK reports whether a forest and type table are available.
func (a *Analysis) OK() bool {
	return a != nil && a.Forest != nil
}

// Analyze tokenizes, parses and type checks text as one document.
func Analyze(text string) *Analysis {
	tokens, errs := Tokenize(text)
	forest, parseErrs := Parse(text, tokens)
	errs = append(errs, parseErrs...)

	a := &Analysis{Tokens: tokens}

	if len(errs) == 0 {
		table, typeErrs := Infer(forest)
		errs = append(errs, typeErrs...)

		if len(typeErrs) == 0 {
			if forest == nil {
				forest = []Node{}
			}

			a.Forest = forest
			a.Table = table
		}
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Span.Start < errs[j].Span.Start
	})

	a.Errors = errs

	return a
}
