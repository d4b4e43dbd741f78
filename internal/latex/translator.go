// Package latex normalizes legacy LaTeX accent and symbol macros into Unicode
// text on the document AST surface.
package latex

import (
	"git.home.luguber.info/inful/docsmith/internal/diag"
	"git.home.luguber.info/inful/docsmith/internal/docast"
)

// Translator maps macro names to Unicode text. Tables are injected at
// construction; there is no ambient process-wide table.
type Translator struct {
	tables Tables
}

// NewTranslator returns a translator over the shipped tables.
func NewTranslator() *Translator {
	return NewTranslatorWith(DefaultTables())
}

// NewTranslatorWith returns a translator over custom tables.
func NewTranslatorWith(tables Tables) *Translator {
	return &Translator{tables: tables}
}

// IsAccent reports whether name is an accent macro, used with a following
// argument.
func (t *Translator) IsAccent(name string) bool {
	_, ok := t.tables.Accents[name]
	return ok
}

// IsSymbol reports whether name is a standalone symbol macro.
func (t *Translator) IsSymbol(name string) bool {
	_, ok := t.tables.Symbols[name]
	return ok
}

// Translate dispatches one macro occurrence into the emitter's open
// paragraph. It reports whether the macro name was known at all; unknown
// names are diagnostics, not silent drops. An accent macro whose argument
// has no composed form warns and still emits the (empty) composed value.
func (t *Translator) Translate(e *Emitter, name, arg string, pos diag.Position, diags *diag.Collector) bool {
	if sub, ok := t.tables.Accents[name]; ok {
		composed, found := sub[arg]
		if !found {
			diags.Warnf(pos, "unknown character %q for accent macro \\%s", arg, name)
		}
		e.Append(composed)
		return true
	}

	if literal, ok := t.tables.Symbols[name]; ok {
		e.Append(literal)
		return true
	}

	diags.Warnf(pos, "unknown macro \\%s", name)
	return false
}

// Emitter tracks the currently open paragraph that translated text is
// appended to.
type Emitter struct {
	paragraphs []*docast.Paragraph
	open       *docast.Paragraph
}

// NewEmitter returns an emitter with no open paragraph.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Append adds a text run to the open paragraph, opening one if none is open.
func (e *Emitter) Append(text string) {
	if e.open == nil {
		e.open = &docast.Paragraph{}
		e.paragraphs = append(e.paragraphs, e.open)
	}
	e.open.Children = append(e.open.Children, docast.Text{Value: text})
}

// Close ends the open paragraph; the next Append opens a fresh one.
func (e *Emitter) Close() {
	e.open = nil
}

// Paragraphs returns the emitted paragraphs in order.
func (e *Emitter) Paragraphs() []*docast.Paragraph {
	return e.paragraphs
}
