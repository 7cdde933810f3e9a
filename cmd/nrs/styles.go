package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nrs-lang/nrs/analysis"
)

// Color palette.
var (
	colorFunction = lipgloss.Color("#60a5fa") // blue-400
	colorVariable = lipgloss.Color("#e2e8f0") // slate-200
	colorString   = lipgloss.Color("#34d399") // emerald-400
	colorComment  = lipgloss.Color("#6b7280") // gray-500
	colorNumber   = lipgloss.Color("#f59e0b") // amber-500
	colorKeyword  = lipgloss.Color("#d946ef") // fuchsia-500
	colorOperator = lipgloss.Color("#9ca3af") // gray-400
	colorType     = lipgloss.Color("#06b6d4") // cyan-500
	colorError    = lipgloss.Color("#ef4444") // red-500
	colorWarning  = lipgloss.Color("#eab308") // yellow-500
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	categories map[analysis.Category]lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Hint    lipgloss.Style
	Path    lipgloss.Style

	plain bool
}

// DefaultStyles returns styles for w. Writers that are not terminals get
// plain text.
func DefaultStyles(w io.Writer) *Styles {
	f, ok := w.(*os.File)
	plain := !ok || !isatty.IsTerminal(f.Fd())

	return &Styles{
		categories: map[analysis.Category]lipgloss.Style{
			analysis.CategoryFunction:   lipgloss.NewStyle().Foreground(colorFunction),
			analysis.CategoryVariable:   lipgloss.NewStyle().Foreground(colorVariable),
			analysis.CategoryParameter:  lipgloss.NewStyle().Foreground(colorVariable).Italic(true),
			analysis.CategoryString:     lipgloss.NewStyle().Foreground(colorString),
			analysis.CategoryComment:    lipgloss.NewStyle().Foreground(colorComment).Italic(true),
			analysis.CategoryNumber:     lipgloss.NewStyle().Foreground(colorNumber),
			analysis.CategoryKeyword:    lipgloss.NewStyle().Foreground(colorKeyword).Bold(true),
			analysis.CategoryOperator:   lipgloss.NewStyle().Foreground(colorOperator),
			analysis.CategoryType:       lipgloss.NewStyle().Foreground(colorType),
			analysis.CategoryEnumMember: lipgloss.NewStyle().Foreground(colorNumber).Bold(true),
		},
		Error:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		Hint:    lipgloss.NewStyle().Foreground(colorComment),
		Path:    lipgloss.NewStyle().Bold(true),
		plain:   plain,
	}
}

// Render applies style unless output is plain.
func (s *Styles) Render(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}

	return style.Render(text)
}

// Category renders text in the style of c.
func (s *Styles) Category(c analysis.Category, text string) string {
	style, ok := s.categories[c]
	if !ok {
		return text
	}

	return s.Render(style, text)
}

// Severity renders a severity label.
func (s *Styles) Severity(sev analysis.DiagnosticSeverity) string {
	switch sev {
	case analysis.SeverityError:
		return s.Render(s.Error, "error")
	case analysis.SeverityWarning:
		return s.Render(s.Warning, "warning")
	case analysis.SeverityInformation:
		return s.Render(s.Hint, "info")
	default:
		return s.Render(s.Hint, "hint")
	}
}
