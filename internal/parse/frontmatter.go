package parse

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the page started with a YAML
// frontmatter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

var frontmatterDelim = []byte("---\n")

// splitFrontmatter separates `---` delimited YAML frontmatter from the page
// body. If the page does not start with a delimiter, had is false and body is
// the full input.
func splitFrontmatter(content []byte) (frontmatter, body []byte, had bool, err error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, frontmatterDelim) {
		return nil, normalized, false, nil
	}

	rest := normalized[len(frontmatterDelim):]
	if bytes.HasPrefix(rest, frontmatterDelim) {
		return []byte{}, rest[len(frontmatterDelim):], true, nil
	}

	closeSeq := []byte("\n---\n")
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")+1], nil, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return rest[:idx+1], rest[idx+len(closeSeq):], true, nil
}

// yamlUnmarshalOptions parses a directive's YAML option block into an
// existing map.
func yamlUnmarshalOptions(block string, into map[string]any) error {
	parsed := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &parsed); err != nil {
		return err
	}
	for k, v := range parsed {
		into[k] = v
	}
	return nil
}

// parseFrontmatter parses raw frontmatter YAML (without delimiters) into a
// map.
func parseFrontmatter(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
