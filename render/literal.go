package render

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Template is the cached static side of an expanded literal. Identical
// string arrays always map to the same template; identity is the xxhash
// digest of the strings, computed once per distinct array.
type Template struct {
	ID      uint64
	Strings []string
}

// TemplateResult pairs a cached template with this render's hole values. It
// is bindable so it can flow through slot resolution like any other
// declarative value.
type TemplateResult struct {
	Template *Template
	Values   []any
}

func (tr *TemplateResult) ToDirective() Directive {
	var sb strings.Builder
	for i, s := range tr.Template.Strings {
		sb.WriteString(s)
		if i < len(tr.Values) {
			sb.WriteString(formatValue(tr.Values[i]))
		}
	}
	return Text(sb.String())
}

func literalDigest(literals []string) uint64 {
	d := xxhash.New()
	for _, s := range literals {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
