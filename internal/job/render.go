package job

import (
	"regexp"
	"strings"
)

// placeholderRe matches brace-delimited placeholder names. The optional
// leading "$" capture lets shell parameter expansions like ${INFILE} pass
// through the renderer untouched.
var placeholderRe = regexp.MustCompile(`(\$?)\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Placeholders returns the set of placeholder names present in templateText.
func Placeholders(templateText string) map[string]bool {
	names := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(templateText, -1) {
		if m[1] == "$" {
			continue // shell expansion, not a template placeholder
		}
		names[m[2]] = true
	}
	return names
}

// HasPlaceholder reports whether templateText contains the named placeholder.
func HasPlaceholder(templateText, name string) bool {
	return Placeholders(templateText)[name]
}

// Render substitutes every {name} placeholder in templateText with its value
// from the union of cfg and derived (derived wins for the resource fields it
// actually computed). A placeholder with no mapped value is a hard error: the
// renderer never emits a script with unresolved placeholder syntax, since the
// output is shell handed to a scheduler. Bytes outside placeholders,
// including newline conventions, are preserved exactly.
func Render(templateText string, cfg Config, derived *DerivedParameters) (string, error) {
	values := make(map[string]string, len(cfg)+4)
	for k, v := range cfg {
		values[k] = v
	}
	if derived != nil {
		for k, v := range derived.Values() {
			values[k] = v
		}
	}
	return renderValues(templateText, values)
}

func renderValues(templateText string, values map[string]string) (string, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(templateText, -1)
	if len(matches) == 0 {
		return templateText, nil
	}

	var sb strings.Builder
	sb.Grow(len(templateText))
	prev := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		dollar := templateText[m[2]:m[3]]
		name := templateText[m[4]:m[5]]

		sb.WriteString(templateText[prev:start])
		prev = end

		if dollar == "$" {
			sb.WriteString(templateText[start:end])
			continue
		}

		val, ok := values[name]
		if !ok {
			return "", NewMissingPlaceholderError(name)
		}
		sb.WriteString(val)
	}
	sb.WriteString(templateText[prev:])

	return sb.String(), nil
}
