package directive

import (
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsmith/internal/diag"
)

// ParseTags normalizes a raw cell-tags option into a list of tag strings.
// It accepts a comma/whitespace separated scalar, a bracketed literal, or a
// pre-structured list. A nil result means no tags; callers must not attach an
// empty tags field in that case.
func ParseTags(raw any, pos diag.Position, diags *diag.Collector) []string {
	if !truthy(raw) {
		return nil
	}

	switch v := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") {
			var parsed any
			if err := yaml.Unmarshal([]byte(trimmed), &parsed); err != nil {
				diags.Errorf(pos, "could not parse tags %q: %v", trimmed, err)
				return nil
			}
			return ParseTags(parsed, pos, diags)
		}
		fields := strings.FieldsFunc(trimmed, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) == 0 {
			return nil
		}
		return fields
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return tagsFromList(items, pos, diags)
	case []any:
		return tagsFromList(v, pos, diags)
	default:
		return nil
	}
}

func tagsFromList(items []any, pos diag.Position, diags *diag.Collector) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			diags.Warnf(pos, "cell tags must be strings, got element of type %T", item)
			return nil
		}
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
