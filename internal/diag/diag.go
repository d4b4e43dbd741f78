// Package diag collects file-scoped authoring diagnostics. Diagnostics are
// attached to the offending source position and never abort a build; a page
// with warnings or errors still produces (degraded) output.
package diag

import (
	"fmt"
	"sync"
)

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityWarning marks a recoverable authoring mistake; the build
	// continues with a default or undefined value substituted.
	SeverityWarning Severity = "warning"
	// SeverityError marks malformed input that could not be coerced; the
	// specific option resolves to undefined but the enclosing directive
	// still produces a node.
	SeverityError Severity = "error"
)

// Position identifies the source location a diagnostic is attached to.
type Position struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Diagnostic is a single reported authoring issue.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Position Position `json:"position"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Position, d.Severity, d.Message)
}

// Collector accumulates diagnostics for one file. Safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Warnf records a warning at pos.
func (c *Collector) Warnf(pos Position, format string, args ...any) {
	c.add(Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Position: pos})
}

// Errorf records an error at pos.
func (c *Collector) Errorf(pos Position, format string, args ...any) {
	c.add(Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...), Position: pos})
}

func (c *Collector) add(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// All returns a copy of the collected diagnostics in report order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Counts reports how many warnings and errors have been collected.
func (c *Collector) Counts() (warnings, errors int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.diags {
		switch d.Severity {
		case SeverityWarning:
			warnings++
		case SeverityError:
			errors++
		}
	}
	return warnings, errors
}
