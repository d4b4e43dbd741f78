// Package parse turns raw page markup into the document AST: YAML
// frontmatter is split off, fenced directive blocks are dispatched through
// the directive registry, and legacy LaTeX macros in prose are translated to
// Unicode text.
package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docsmith/internal/diag"
	"git.home.luguber.info/inful/docsmith/internal/directive"
	"git.home.luguber.info/inful/docsmith/internal/docast"
	"git.home.luguber.info/inful/docsmith/internal/latex"
)

// Document is the processed result of one page.
type Document struct {
	File         string            `json:"file"`
	Title        string            `json:"title,omitempty"`
	Frontmatter  map[string]any    `json:"frontmatter,omitempty"`
	Nodes        []docast.Node     `json:"nodes"`
	CitationKeys []string          `json:"citationKeys,omitempty"`
	Diagnostics  []diag.Diagnostic `json:"diagnostics,omitempty"`
}

// Processor parses pages against an injected directive registry and macro
// translator.
type Processor struct {
	registry        *directive.Registry
	translator      *latex.Translator
	defaultLanguage string
}

// NewProcessor creates a processor. defaultLanguage seeds executable cells
// that carry no language argument.
func NewProcessor(registry *directive.Registry, translator *latex.Translator, defaultLanguage string) *Processor {
	return &Processor{
		registry:        registry,
		translator:      translator,
		defaultLanguage: defaultLanguage,
	}
}

// ProcessFile reads and processes a single page.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", path, err)
	}
	return p.Process(content, path), nil
}

// Process parses page content. Authoring problems surface as diagnostics on
// the returned document; Process itself never fails.
func (p *Processor) Process(content []byte, file string) *Document {
	doc := &Document{File: file}
	diags := diag.NewCollector()

	frontmatter, body, had, err := splitFrontmatter(content)
	if had && err == nil {
		fields, perr := parseFrontmatter(frontmatter)
		if perr != nil {
			diags.Errorf(diag.Position{File: file, Line: 1}, "invalid frontmatter: %v", perr)
		} else {
			doc.Frontmatter = fields
			if title, ok := fields["title"].(string); ok {
				doc.Title = title
			}
		}
	} else if err != nil {
		diags.Errorf(diag.Position{File: file, Line: 1}, "%v", err)
		body = content
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.FencedCodeBlock:
			doc.Nodes = append(doc.Nodes, p.processFence(node, body, file, diags)...)
		case *gmast.Heading:
			heading, _ := blockText(node, body)
			heading = strings.TrimSpace(heading)
			if doc.Title == "" && node.Level == 1 {
				doc.Title = heading
			}
			doc.Nodes = append(doc.Nodes, p.processProse(heading, position(node, body, file), doc, diags)...)
		default:
			doc.Nodes = append(doc.Nodes, p.processBlock(n, body, file, doc, diags)...)
		}
	}

	checkDuplicateLabels(doc.Nodes, file, diags)
	doc.Diagnostics = diags.All()
	return doc
}

// checkDuplicateLabels enforces per-document label uniqueness across every
// labelled node.
func checkDuplicateLabels(nodes []docast.Node, file string, diags *diag.Collector) {
	seen := map[string]bool{}
	var walk func(ns []docast.Node)
	walk = func(ns []docast.Node) {
		for _, n := range ns {
			label := ""
			switch v := n.(type) {
			case *docast.Code:
				label = v.Label
			case *docast.Container:
				label = v.Label
				walk(v.Children)
			case *docast.Block:
				label = v.Label
				walk(v.Children)
			}
			if label == "" {
				continue
			}
			if seen[label] {
				diags.Warnf(diag.Position{File: file}, "duplicate label %q", label)
				continue
			}
			seen[label] = true
		}
	}
	walk(nodes)
}

// processFence handles one fenced block: a `{name}` info string dispatches a
// directive, anything else is a plain code listing.
func (p *Processor) processFence(fence *gmast.FencedCodeBlock, source []byte, file string, diags *diag.Collector) []docast.Node {
	info := ""
	if fence.Info != nil {
		info = strings.TrimSpace(string(fence.Info.Segment.Value(source)))
	}
	raw := fenceBody(fence, source)
	pos := position(fence, source, file)

	if !strings.HasPrefix(info, "{") {
		return []docast.Node{&docast.Code{Language: info, Value: raw}}
	}

	end := strings.Index(info, "}")
	if end < 0 {
		diags.Errorf(pos, "malformed directive info %q", info)
		return nil
	}
	name := info[1:end]
	arg := strings.TrimSpace(info[end+1:])

	spec, ok := p.registry.Resolve(name)
	if !ok {
		diags.Warnf(pos, "unknown directive %q", name)
		return nil
	}

	options, dirBody := p.parseOptions(raw, pos, diags)
	inv := &directive.Invocation{
		Spec:    spec,
		Arg:     arg,
		Options: options,
		Body:    dirBody,
		Source:  pos,
	}
	dctx := &directive.Context{
		DefaultLanguage: p.defaultLanguage,
		Diags:           diags,
	}
	return spec.Build(dctx, inv)
}

// parseOptions extracts directive options from the start of a directive body.
// Both a `---` delimited YAML block and leading `:key: value` field lines are
// accepted; a valueless field line is a flag and reads as true.
func (p *Processor) parseOptions(body string, pos diag.Position, diags *diag.Collector) (map[string]any, string) {
	lines := strings.Split(body, "\n")
	options := map[string]any{}

	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) != "---" {
				continue
			}
			block := strings.Join(lines[1:i], "\n")
			if err := yamlUnmarshalOptions(block, options); err != nil {
				diags.Errorf(pos, "invalid directive options: %v", err)
			}
			return options, strings.TrimPrefix(strings.Join(lines[i+1:], "\n"), "\n")
		}
		diags.Errorf(pos, "unterminated directive option block")
		return options, ""
	}

	rest := 0
	for rest < len(lines) {
		line := lines[rest]
		if !strings.HasPrefix(line, ":") {
			break
		}
		key, value, found := strings.Cut(line[1:], ":")
		if !found {
			diags.Warnf(pos, "malformed directive option line %q", line)
			rest++
			continue
		}
		key = strings.TrimSpace(key)
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			options[key] = true
		} else {
			options[key] = trimmed
		}
		rest++
	}
	if rest < len(lines) && strings.TrimSpace(lines[rest]) == "" {
		rest++
	}
	return options, strings.Join(lines[rest:], "\n")
}

// processBlock handles one prose block. Container blocks (lists, block
// quotes) carry no source lines of their own, so their leaf blocks are
// processed individually; nothing below a top-level node is dropped.
func (p *Processor) processBlock(n gmast.Node, source []byte, file string, doc *Document, diags *diag.Collector) []docast.Node {
	if fence, ok := n.(*gmast.FencedCodeBlock); ok {
		return p.processFence(fence, source, file, diags)
	}
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		prose, _ := blockText(n, source)
		prose = strings.TrimSpace(prose)
		if prose == "" {
			return nil
		}
		return p.processProse(prose, position(n, source, file), doc, diags)
	}

	var nodes []docast.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		nodes = append(nodes, p.processBlock(child, source, file, doc, diags)...)
	}
	return nodes
}

var citationPattern = regexp.MustCompile("\\{cite\\}`([^`]+)`")

// processProse translates macros and collects citation keys from one prose
// block, producing paragraph nodes.
func (p *Processor) processProse(prose string, pos diag.Position, doc *Document, diags *diag.Collector) []docast.Node {
	prose = citationPattern.ReplaceAllStringFunc(prose, func(match string) string {
		key := citationPattern.FindStringSubmatch(match)[1]
		doc.CitationKeys = append(doc.CitationKeys, key)
		return ""
	})

	emitter := latex.NewEmitter()
	p.emitInline(prose, pos, emitter, diags)

	paras := emitter.Paragraphs()
	nodes := make([]docast.Node, 0, len(paras))
	for _, para := range paras {
		nodes = append(nodes, para)
	}
	return nodes
}

// emitInline scans prose for backslash macros and appends the surrounding
// literal text and the translated macro output to the emitter.
func (p *Processor) emitInline(prose string, pos diag.Position, emitter *latex.Emitter, diags *diag.Collector) {
	rest := prose
	for {
		idx := strings.IndexByte(rest, '\\')
		if idx < 0 {
			if rest != "" {
				emitter.Append(rest)
			}
			return
		}
		if idx > 0 {
			emitter.Append(rest[:idx])
		}
		rest = rest[idx+1:]
		if rest == "" {
			emitter.Append("\\")
			return
		}

		name, tail := macroName(rest)
		var arg string
		if p.translator.IsAccent(name) {
			arg, tail = macroArgument(tail)
			if arg == "" && tail != "" && !strings.HasPrefix(tail, "{") {
				r, size := utf8.DecodeRuneInString(tail)
				arg, tail = string(r), tail[size:]
			}
		}
		p.translator.Translate(emitter, name, arg, pos, diags)
		rest = tail
	}
}

// macroName reads a run of letters, or a single punctuation character for
// the short accent forms.
func macroName(s string) (name, rest string) {
	end := 0
	for end < len(s) && unicode.IsLetter(rune(s[end])) {
		end++
	}
	if end == 0 {
		return s[:1], s[1:]
	}
	return s[:end], s[end:]
}

// macroArgument reads an optional braced argument. The caller handles the
// bare single-character form.
func macroArgument(s string) (arg, rest string) {
	if strings.HasPrefix(s, "{") {
		if end := strings.IndexByte(s, '}'); end >= 0 {
			return s[1:end], s[end+1:]
		}
	}
	return "", s
}

func blockText(n gmast.Node, source []byte) (string, int) {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return "", 0
	}
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String(), lines.At(0).Start
}

func fenceBody(fence *gmast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func position(n gmast.Node, source []byte, file string) diag.Position {
	offset := 0
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		offset = lines.At(0).Start
	} else if fence, ok := n.(*gmast.FencedCodeBlock); ok && fence.Info != nil {
		offset = fence.Info.Segment.Start
	}
	if offset > len(source) {
		offset = len(source)
	}
	line := 1 + bytes.Count(source[:offset], []byte("\n"))
	return diag.Position{File: file, Line: line}
}
