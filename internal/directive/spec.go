// Package directive implements the generic block-directive framework: typed
// option schemas, value coercion, the directive registry, and the node
// builders for the shipped directives.
package directive

import (
	"git.home.luguber.info/inful/docsmith/internal/diag"
	"git.home.luguber.info/inful/docsmith/internal/docast"
)

// OptionType enumerates the declared types an option schema can carry.
type OptionType int

const (
	Boolean OptionType = iota
	Number
	String
	ListOfString
)

func (t OptionType) String() string {
	switch t {
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case ListOfString:
		return "list of strings"
	}
	return "unknown"
}

// BodyType declares how a directive's body payload is handled.
type BodyType int

const (
	BodyNone BodyType = iota
	// BodyRaw passes the body through verbatim.
	BodyRaw
)

// OptionSpec declares one named option of a directive.
type OptionSpec struct {
	Name  string
	Alias string
	Type  OptionType
	Doc   string
}

// Spec is an immutable directive specification. Name and every alias must be
// unique across the whole registry.
type Spec struct {
	Name    string
	Aliases []string
	Arg     OptionType
	Options []OptionSpec
	Body    BodyType
	Build   BuildFunc
}

// BuildFunc produces AST nodes from a resolved invocation. Authoring problems
// are reported through the context's collector; a build never fails outright.
type BuildFunc func(ctx *Context, inv *Invocation) []docast.Node

// Context carries ambient state into directive builders.
type Context struct {
	// DefaultLanguage is used by executable cells when the invocation
	// carries no language argument.
	DefaultLanguage string
	// DefaultFilename is substituted when a directive has no filename
	// option.
	DefaultFilename string
	Diags           *diag.Collector
}

// Invocation is one parsed directive occurrence: resolved spec, raw argument,
// raw option map, raw body, and the source position for diagnostics.
type Invocation struct {
	Spec    *Spec
	Arg     string
	Options map[string]any
	Body    string
	Source  diag.Position
}

// rawOption returns the raw value for the canonical option name, checking the
// declared alias as well.
func (inv *Invocation) rawOption(name string) (any, bool) {
	for _, opt := range inv.Spec.Options {
		if opt.Name != name {
			continue
		}
		if v, ok := inv.Options[opt.Name]; ok {
			return v, true
		}
		if opt.Alias != "" {
			if v, ok := inv.Options[opt.Alias]; ok {
				return v, true
			}
		}
		return nil, false
	}
	return nil, false
}

// BoolOption coerces the named option as a boolean. Absent or falsy values
// report ok=false, never false-the-value.
func (inv *Invocation) BoolOption(name string, diags *diag.Collector) (bool, bool) {
	raw, present := inv.rawOption(name)
	if !present {
		return false, false
	}
	v, ok := coerce(raw, Boolean, inv.Source, diags)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

// NumberOption coerces the named option as a number.
func (inv *Invocation) NumberOption(name string, diags *diag.Collector) (int, bool) {
	raw, present := inv.rawOption(name)
	if !present {
		return 0, false
	}
	v, ok := coerce(raw, Number, inv.Source, diags)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// StringOption coerces the named option as a string.
func (inv *Invocation) StringOption(name string, diags *diag.Collector) (string, bool) {
	raw, present := inv.rawOption(name)
	if !present {
		return "", false
	}
	v, ok := coerce(raw, String, inv.Source, diags)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// ListOption coerces the named option as a list of strings.
func (inv *Invocation) ListOption(name string, diags *diag.Collector) ([]string, bool) {
	raw, present := inv.rawOption(name)
	if !present {
		return nil, false
	}
	v, ok := coerce(raw, ListOfString, inv.Source, diags)
	if !ok {
		return nil, false
	}
	return v.([]string), true
}
