package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsmith/internal/diag"
	"git.home.luguber.info/inful/docsmith/internal/docast"
)

func cellInvocation(arg string, opts map[string]any) *Invocation {
	return &Invocation{
		Spec:    CodeCellSpec(),
		Arg:     arg,
		Options: opts,
		Body:    "x = 1",
		Source:  diag.Position{File: "nb.md", Line: 12},
	}
}

func TestCodeCellStructure(t *testing.T) {
	ctx := buildContext()

	nodes := buildCodeCell(ctx, cellInvocation("julia", nil))

	require.Len(t, nodes, 1)
	block, ok := nodes[0].(*docast.Block)
	require.True(t, ok)
	require.Len(t, block.Children, 2)

	code, ok := block.Children[0].(*docast.Code)
	require.True(t, ok)
	assert.True(t, code.Executable)
	assert.Equal(t, "julia", code.Language)
	assert.Equal(t, "x = 1", code.Value)

	output, ok := block.Children[1].(*docast.Output)
	require.True(t, ok)
	assert.NotEmpty(t, output.ID)
	assert.Empty(t, output.Data, "output stays empty until executed")
}

func TestCodeCellLanguageFallback(t *testing.T) {
	ctx := buildContext()

	nodes := buildCodeCell(ctx, cellInvocation("", nil))

	block := nodes[0].(*docast.Block)
	code := block.Children[0].(*docast.Code)
	assert.Equal(t, "python", code.Language, "ambient default language")
}

func TestCodeCellOutputIDsUnique(t *testing.T) {
	ctx := buildContext()

	first := buildCodeCell(ctx, cellInvocation("python", nil))
	second := buildCodeCell(ctx, cellInvocation("python", nil))

	firstID := first[0].(*docast.Block).Children[1].(*docast.Output).ID
	secondID := second[0].(*docast.Block).Children[1].(*docast.Output).ID
	assert.NotEqual(t, firstID, secondID)
}

func TestCodeCellTags(t *testing.T) {
	ctx := buildContext()

	nodes := buildCodeCell(ctx, cellInvocation("python", map[string]any{"tags": "remove-input, hide-cell"}))
	block := nodes[0].(*docast.Block)
	assert.Equal(t, []string{"remove-input", "hide-cell"}, block.Tags)

	nodes = buildCodeCell(ctx, cellInvocation("python", nil))
	block = nodes[0].(*docast.Block)
	assert.Nil(t, block.Tags, "no tags option, no tags field")

	nodes = buildCodeCell(ctx, cellInvocation("python", map[string]any{"tags": []any{"", " "}}))
	block = nodes[0].(*docast.Block)
	assert.Nil(t, block.Tags, "all-empty tags collapse to no tags field")
}

func TestCodeCellLabel(t *testing.T) {
	ctx := buildContext()

	nodes := buildCodeCell(ctx, cellInvocation("python", map[string]any{"label": "First Cell"}))
	block := nodes[0].(*docast.Block)
	assert.Equal(t, "First Cell", block.Label)
	assert.Equal(t, "first-cell", block.Identifier)
}
