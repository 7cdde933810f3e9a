package analysis

import (
	"sort"

	"github.com/nrs-lang/nrs"
)

// CollectHints finds every `:=` declaration without an annotation and maps
// the one-byte anchor right after its pattern to the initializer's type.
func CollectHints(forest []nrs.Node) map[nrs.Span]nrs.Type {
	hints := make(map[nrs.Span]nrs.Type)

	Inspect(forest, func(n nrs.Node) bool {
		d, ok := n.(*nrs.Declaration)
		if !ok || d.Form != nrs.BindInfer || d.Annotation != nil || d.Value == nil {
			return true
		}

		if t := d.Value.Type(); t != nil {
			end := d.Pattern.Span().End
			hints[nrs.Span{Start: end, End: end + 1}] = t
		}

		return true
	})

	return hints
}

// HintTriples renders hints against table, ordered by anchor. Types that
// fail to render are left out.
func HintTriples(hints map[nrs.Span]nrs.Type, table nrs.TypeTable) []InlayHint {
	out := make([]InlayHint, 0, len(hints))

	for span, t := range hints {
		label, err := table.Render(t)
		if err != nil {
			continue
		}

		out = append(out, InlayHint{Start: span.Start, End: span.End, Label: label})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	return out
}
