package directive

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/diag"
	"git.home.luguber.info/inful/docsmith/internal/docast"
)

// CodeResult is the tagged outcome of building a code directive: either a
// bare code node carrying its own label, or a container wrapping code and
// caption with the label moved onto the container. Exactly one field is set.
type CodeResult struct {
	Bare    *docast.Code
	Wrapped *docast.Container
}

// Nodes flattens the result for the document tree.
func (r CodeResult) Nodes() []docast.Node {
	if r.Wrapped != nil {
		return []docast.Node{r.Wrapped}
	}
	return []docast.Node{r.Bare}
}

// CodeBlockSpec describes the static code listing directive.
func CodeBlockSpec() *Spec {
	return &Spec{
		Name:    "code-block",
		Aliases: []string{"code", "sourcecode"},
		Arg:     String,
		Options: []OptionSpec{
			{Name: "label", Alias: "name", Type: String, Doc: "label for cross-referencing, normalized into an identifier"},
			{Name: "caption", Type: String, Doc: "caption text; wraps the listing in a container"},
			{Name: "linenos", Type: Boolean, Doc: "show line numbers"},
			{Name: "lineno-start", Type: Number, Doc: "explicit first line number"},
			{Name: "number-lines", Type: Number, Doc: "auto-numbering start, wins over lineno-start when greater than 1"},
			{Name: "lineno-match", Type: Boolean, Doc: "match line numbers to the source file"},
			{Name: "emphasize-lines", Type: String, Doc: "lines to highlight, comma separated with ranges"},
			{Name: "filename", Type: String, Doc: "display filename; the literal false suppresses it"},
		},
		Body:  BodyRaw,
		Build: buildCodeBlockNodes,
	}
}

func buildCodeBlockNodes(ctx *Context, inv *Invocation) []docast.Node {
	return BuildCodeBlock(ctx, inv).Nodes()
}

// BuildCodeBlock builds the code node and, when a caption option is present,
// the wrapping container. Label and identifier live on exactly one of the
// two, never both.
func BuildCodeBlock(ctx *Context, inv *Invocation) CodeResult {
	diags := ctx.Diags

	code := &docast.Code{
		Language: inv.Arg,
		Value:    inv.Body,
	}

	if show, ok := inv.BoolOption("linenos", diags); ok {
		code.ShowLineNumbers = &show
	}
	code.StartingLine = resolveStartingLine(inv, diags)
	code.EmphasizeLines = resolveEmphasizeLines(inv, diags)
	code.Filename = resolveFilename(inv, ctx.DefaultFilename, diags)

	label, identifier := resolveLabel(inv, diags)

	caption, hasCaption := inv.StringOption("caption", diags)
	if !hasCaption {
		code.Label = label
		code.Identifier = identifier
		return CodeResult{Bare: code}
	}

	captionNode := &docast.Caption{
		Children: []docast.Node{
			&docast.Paragraph{Children: []docast.Node{docast.Text{Value: caption}}},
		},
	}
	return CodeResult{Wrapped: &docast.Container{
		Kind:       "code",
		Label:      label,
		Identifier: identifier,
		Children:   []docast.Node{code, captionNode},
	}}
}

func resolveLabel(inv *Invocation, diags *diag.Collector) (label, identifier string) {
	label, ok := inv.StringOption("label", diags)
	if !ok || label == "" {
		return "", ""
	}
	return label, docast.NormalizeIdentifier(label)
}

// resolveStartingLine resolves the mutually exclusive numbering options. The
// lineno-match sentinel short-circuits numeric coercion entirely. When both
// lineno-start and number-lines are set, exactly one warning is emitted and
// the auto-numbering value wins when greater than 1.
func resolveStartingLine(inv *Invocation, diags *diag.Collector) *docast.LineStart {
	if match, ok := inv.BoolOption("lineno-match", diags); ok && match {
		return &docast.LineStart{Match: true}
	}

	start, hasStart := inv.NumberOption("lineno-start", diags)
	auto, hasAuto := inv.NumberOption("number-lines", diags)

	if hasStart && hasAuto {
		diags.Warnf(inv.Source, "lineno-start and number-lines are mutually exclusive; using number-lines")
	}
	switch {
	case hasAuto && auto > 1:
		return &docast.LineStart{Number: auto}
	case hasStart:
		return &docast.LineStart{Number: start}
	default:
		return nil
	}
}

// resolveFilename discards a literal "false" (any casing), substitutes the
// ambient default when the option is absent, and otherwise passes the value
// through untouched.
func resolveFilename(inv *Invocation, defaultName string, diags *diag.Collector) string {
	raw, ok := inv.StringOption("filename", diags)
	if !ok {
		return defaultName
	}
	if strings.ToLower(raw) == "false" {
		return ""
	}
	return raw
}

// resolveEmphasizeLines parses "1,3-5" style line selections.
func resolveEmphasizeLines(inv *Invocation, diags *diag.Collector) []int {
	raw, ok := inv.StringOption("emphasize-lines", diags)
	if !ok {
		return nil
	}

	var lines []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, isRange := strings.Cut(part, "-"); isRange {
			from, err1 := strconv.Atoi(strings.TrimSpace(lo))
			to, err2 := strconv.Atoi(strings.TrimSpace(hi))
			if err1 != nil || err2 != nil || from > to {
				diags.Warnf(inv.Source, "invalid emphasize-lines range %q", part)
				continue
			}
			for n := from; n <= to; n++ {
				lines = append(lines, n)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			diags.Warnf(inv.Source, "invalid emphasize-lines value %q", part)
			continue
		}
		lines = append(lines, n)
	}
	return lines
}
