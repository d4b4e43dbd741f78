package directive

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsmith/internal/diag"
)

// coerce converts a raw option value to the declared type. ok=false means the
// option resolves to undefined; any authoring problem has already been
// reported to the collector.
func coerce(raw any, t OptionType, pos diag.Position, diags *diag.Collector) (any, bool) {
	switch t {
	case Boolean:
		return coerceBool(raw)
	case Number:
		return coerceNumber(raw, pos, diags)
	case String:
		return coerceString(raw)
	case ListOfString:
		return coerceList(raw, pos, diags)
	}
	return nil, false
}

// coerceBool maps any truthy raw value to true. Falsy raw values resolve to
// undefined, never to false.
func coerceBool(raw any) (any, bool) {
	if truthy(raw) {
		return true, true
	}
	return nil, false
}

func truthy(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func coerceNumber(raw any, pos diag.Position, diags *diag.Collector) (any, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			diags.Warnf(pos, "expected an integer, got %v", v)
			return nil, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			diags.Warnf(pos, "expected a number, got %q", v)
			return nil, false
		}
		return n, true
	default:
		diags.Warnf(pos, "expected a number, got %T", raw)
		return nil, false
	}
}

func coerceString(raw any) (any, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case nil:
		return nil, false
	default:
		return fmt.Sprint(v), true
	}
}

// coerceList handles the three list sources: a delimiter-separated scalar, a
// bracketed literal parsed as YAML, and a pre-structured list.
func coerceList(raw any, pos diag.Position, diags *diag.Collector) (any, bool) {
	switch v := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") {
			var parsed any
			if err := yaml.Unmarshal([]byte(trimmed), &parsed); err != nil {
				diags.Errorf(pos, "could not parse list %q: %v", trimmed, err)
				return nil, false
			}
			return coerceList(parsed, pos, diags)
		}
		return listFromScalar(trimmed)
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return stringSlice(items, pos, diags)
	case []any:
		return stringSlice(v, pos, diags)
	default:
		diags.Warnf(pos, "expected a list of strings, got %T", raw)
		return nil, false
	}
}

// listFromScalar splits a plain string on commas and whitespace, trims each
// piece, and drops empties. An empty result is undefined, not an empty list.
func listFromScalar(s string) (any, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

// stringSlice requires every element of a pre-structured list to be a string.
// Non-string elements are not silently coerced.
func stringSlice(items []any, pos diag.Position, diags *diag.Collector) (any, bool) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			diags.Warnf(pos, "expected a list of strings, got element of type %T", item)
			return nil, false
		}
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
