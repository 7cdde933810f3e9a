package analysis

import (
	"github.com/nrs-lang/nrs"
)

// AnalyzedFile holds analysis results for one snapshot of a document.
type AnalyzedFile struct {
	// Path is the file path (URI in LSP terms).
	Path string

	// Text is the analyzed snapshot.
	Text string

	// Lines indexes Text for offset conversions.
	Lines *LineIndex

	// Tokens is every token that could be lexed, comments included.
	Tokens []nrs.Token

	// Forest and Table are nil if lexing, parsing or inference failed.
	Forest []nrs.Node
	Table  nrs.TypeTable

	// Diagnostics contains frontend errors and rule findings, in span order
	// within each group.
	Diagnostics []Diagnostic
}

// Analyzer runs the frontend and semantic rules over whole documents. It is
// stateless and safe for concurrent use.
type Analyzer struct {
	// rules is the set of checks run over successfully typed forests.
	rules []*Rule

	encoding Encoding
}

// NewAnalyzer creates a new analyzer with default rules.
func NewAnalyzer(enc Encoding) *Analyzer {
	return &Analyzer{
		rules:    DefaultRules(),
		encoding: enc,
	}
}

// NewAnalyzerWithRules creates an analyzer with custom rules.
func NewAnalyzerWithRules(enc Encoding, rules []*Rule) *Analyzer {
	return &Analyzer{
		rules:    rules,
		encoding: enc,
	}
}

// Encoding returns the column unit of produced line indexes.
func (a *Analyzer) Encoding() Encoding {
	return a.encoding
}

// Analyze tokenizes, parses and type checks text.
func (a *Analyzer) Analyze(path, text string) *AnalyzedFile {
	res := nrs.Analyze(text)

	result := &AnalyzedFile{
		Path:        path,
		Text:        text,
		Lines:       NewLineIndex(text, a.encoding),
		Tokens:      res.Tokens,
		Forest:      res.Forest,
		Table:       res.Table,
		Diagnostics: make([]Diagnostic, 0, len(res.Errors)),
	}

	for _, err := range res.Errors {
		result.Diagnostics = append(result.Diagnostics, errorToDiagnostic(err))
	}

	if result.Forest == nil {
		return result
	}

	// Run all semantic rules.
	for _, rule := range a.rules {
		rule.Run(result)
	}

	return result
}

// errorToDiagnostic converts a frontend error to a diagnostic.
func errorToDiagnostic(err *nrs.Error) Diagnostic {
	return Diagnostic{
		Span:     err.Span,
		Severity: SeverityError,
		Message:  err.Message(),
		Code:     err.Kind.String() + "-error",
		Source:   "nrs",
	}
}
