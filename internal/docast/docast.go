// Package docast defines the document AST node shapes produced by directive
// and macro processing. Field names and optionality are the wire contract the
// downstream renderer depends on.
package docast

// Node is implemented by every document AST node.
type Node interface {
	node()
}

// Text is a literal text run inside a paragraph.
type Text struct {
	Value string `json:"value"`
}

func (Text) node() {}

// Paragraph groups inline content.
type Paragraph struct {
	Children []Node `json:"children"`
}

func (*Paragraph) node() {}

// LineStart captures the starting-line-number option of a code node. Match is
// the "match" sentinel mode and excludes Number.
type LineStart struct {
	Match  bool `json:"match,omitempty"`
	Number int  `json:"number,omitempty"`
}

// Code is a static or executable code listing.
//
// Optional typed fields use pointers (or zero values for strings) so that an
// absent option never serializes as a false/zero value.
type Code struct {
	Language        string     `json:"lang,omitempty"`
	Value           string     `json:"value"`
	EmphasizeLines  []int      `json:"emphasizeLines,omitempty"`
	ShowLineNumbers *bool      `json:"showLineNumbers,omitempty"`
	StartingLine    *LineStart `json:"startingLineNumber,omitempty"`
	Filename        string     `json:"filename,omitempty"`
	Label           string     `json:"label,omitempty"`
	Identifier      string     `json:"identifier,omitempty"`
	Executable      bool       `json:"executable,omitempty"`
}

func (*Code) node() {}

// Container wraps a code node together with its caption. It exists iff a
// caption was supplied; label and identifier live here, never on the inner
// code node as well.
type Container struct {
	Kind       string `json:"kind"`
	Label      string `json:"label,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Children   []Node `json:"children"`
}

func (*Container) node() {}

// Caption holds the caption paragraph of a container.
type Caption struct {
	Children []Node `json:"children"`
}

func (*Caption) node() {}

// Block is the executable cell wrapper produced by the code-cell directive.
// Tags is nil when no tags were supplied; an empty tags field is never
// emitted.
type Block struct {
	Label      string   `json:"label,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
	Children   []Node   `json:"children"`
	Tags       []string `json:"tags,omitempty"`
}

func (*Block) node() {}

// Output holds execution results of a code cell. Data stays empty until the
// cell is executed by a downstream runner.
type Output struct {
	ID   string `json:"id"`
	Data []any  `json:"data"`
}

func (*Output) node() {}
