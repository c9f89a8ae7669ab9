package naming

import (
	"strconv"

	strutil "github.com/typegraph-dev/typegraph/internal/util/strings"
)

// Styler turns a raw candidate into the target language's styled form.
type Styler func(string) string

// Common stylers built on the case utilities.
var (
	PascalStyler Styler = func(s string) string { return strutil.ToPascalCase(strutil.Legalize(s)) }
	CamelStyler  Styler = func(s string) string { return strutil.ToCamelCase(strutil.Legalize(s)) }
	SnakeStyler  Styler = func(s string) string { return strutil.ToSnakeCase(strutil.ToPascalCase(strutil.Legalize(s))) }
)

// Namer styles raw candidates and picks collision-free names: it tries
// each raw candidate, then each with a prefix, then numeric suffixes.
type Namer struct {
	style    Styler
	prefixes []string
}

// NewNamer creates a namer with a style and its fallback prefixes.
func NewNamer(style Styler, prefixes ...string) *Namer {
	return &Namer{style: style, prefixes: prefixes}
}

// Style applies the namer's style function.
func (n *Namer) Style(raw string) string {
	return n.style(raw)
}

// AssignNames picks a styled name for every entry of the batch, in
// order: the first candidate whose styled form neither collides with a
// forbidden name nor was claimed earlier in the batch wins.
func (n *Namer) AssignNames(batch []Name, proposals map[Name][]string, forbidden map[string]struct{}) map[Name]string {
	assigned := map[Name]string{}
	claimed := map[string]struct{}{}

	free := func(styled string) bool {
		if _, taken := forbidden[styled]; taken {
			return false
		}
		_, taken := claimed[styled]
		return !taken
	}

	for _, name := range batch {
		raws := proposals[name]
		styled := n.pick(raws, free)
		assigned[name] = styled
		claimed[styled] = struct{}{}
	}
	return assigned
}

func (n *Namer) pick(raws []string, free func(string) bool) string {
	for _, raw := range raws {
		if styled := n.style(raw); free(styled) {
			return styled
		}
	}
	for _, prefix := range n.prefixes {
		for _, raw := range raws {
			if styled := n.style(prefix + "_" + raw); free(styled) {
				return styled
			}
		}
	}
	base := "name"
	if len(raws) > 0 {
		base = raws[0]
	}
	for i := 1; ; i++ {
		if styled := n.style(base + strconv.Itoa(i)); free(styled) {
			return styled
		}
	}
}
