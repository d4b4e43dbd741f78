package directive

import (
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsmith/internal/docast"
)

// CodeCellSpec describes the executable code cell directive.
func CodeCellSpec() *Spec {
	return &Spec{
		Name: "code-cell",
		Arg:  String,
		Options: []OptionSpec{
			{Name: "label", Alias: "name", Type: String, Doc: "label for cross-referencing, normalized into an identifier"},
			{Name: "tags", Type: ListOfString, Doc: "cell tags controlling execution and rendering"},
		},
		Body:  BodyRaw,
		Build: buildCodeCell,
	}
}

// buildCodeCell always produces a block wrapping an executable code node and
// a fresh, empty output node.
func buildCodeCell(ctx *Context, inv *Invocation) []docast.Node {
	diags := ctx.Diags

	language := inv.Arg
	if language == "" {
		language = ctx.DefaultLanguage
	}

	code := &docast.Code{
		Language:   language,
		Value:      inv.Body,
		Executable: true,
	}
	output := &docast.Output{
		ID:   uuid.NewString(),
		Data: []any{},
	}

	label, identifier := resolveLabel(inv, diags)
	block := &docast.Block{
		Label:      label,
		Identifier: identifier,
		Children:   []docast.Node{code, output},
	}

	if raw, ok := inv.rawOption("tags"); ok {
		// Absence of tags must not create an empty tags field.
		if tags := ParseTags(raw, inv.Source, diags); len(tags) > 0 {
			block.Tags = tags
		}
	}

	return []docast.Node{block}
}
