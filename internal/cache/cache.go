// Package cache memoizes per-page processing results across builds. Entries
// are keyed by (project, page) and stay valid for the cache's lifetime; only
// an explicit Clean resets them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/docsmith/internal/citations"
	"git.home.luguber.info/inful/docsmith/internal/diag"
	"git.home.luguber.info/inful/docsmith/internal/parse"
	"git.home.luguber.info/inful/docsmith/internal/project"
)

// Result is the stored outcome of processing one page.
type Result struct {
	Slug        string            `json:"slug"`
	File        string            `json:"file"`
	Title       string            `json:"title,omitempty"`
	Document    *parse.Document   `json:"document"`
	References  map[string]string `json:"references,omitempty"`
	ContentHash string            `json:"contentHash"`
}

// Outcome wraps a result with whether it was freshly computed or served from
// cache.
type Outcome struct {
	Result    *Result
	Processed bool
}

// DocumentCache memoizes page processing. At most one computation per cache
// key is in flight at a time; concurrent requests for the same key observe
// the same outcome.
type DocumentCache struct {
	processor *parse.Processor
	citations *citations.Loader

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*Result
}

// New creates an empty document cache.
func New(processor *parse.Processor, loader *citations.Loader) *DocumentCache {
	return &DocumentCache{
		processor: processor,
		citations: loader,
		entries:   make(map[string]*Result),
	}
}

// CitationRenderer returns the project's citation renderer, loading it on
// first use. Callers must complete this before awaiting any ProcessPage call
// for the same project so that pages never race the initial load.
func (c *DocumentCache) CitationRenderer(projectPath string) (*citations.Renderer, error) {
	return c.citations.Get(projectPath)
}

// ProcessPage returns the processed result for a page. An unchanged page is
// served from cache with Processed=false; a miss or a detected content
// change recomputes and stores the result with Processed=true.
func (c *DocumentCache) ProcessPage(ctx context.Context, proj *project.Project, page project.Page) (Outcome, error) {
	path := proj.FilePath(page)
	content, err := os.ReadFile(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("read page %s: %w", path, err)
	}
	hash := contentHash(content)

	key := cacheKey(proj, page)
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && entry.ContentHash == hash {
		slog.Debug("Page served from cache", "project", proj.Slug, "page", page.Slug)
		return Outcome{Result: entry, Processed: false}, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under single flight: a concurrent caller may have
		// stored this exact content already.
		c.mu.RLock()
		existing, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && existing.ContentHash == hash {
			return existing, nil
		}

		result, err := c.compute(ctx, proj, page, content, hash)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = result
		c.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return Outcome{}, err
	}
	slog.Debug("Page processed", "project", proj.Slug, "page", page.Slug)
	return Outcome{Result: v.(*Result), Processed: true}, nil
}

func (c *DocumentCache) compute(_ context.Context, proj *project.Project, page project.Page, content []byte, hash string) (*Result, error) {
	doc := c.processor.Process(content, proj.FilePath(page))

	renderer, err := c.citations.Get(proj.Root)
	if err != nil {
		return nil, fmt.Errorf("citation renderer for %s: %w", proj.Slug, err)
	}

	var references map[string]string
	for _, key := range doc.CitationKeys {
		text, ok := renderer.Render(key)
		if !ok {
			doc.Diagnostics = append(doc.Diagnostics, diag.Diagnostic{
				Severity: diag.SeverityWarning,
				Message:  fmt.Sprintf("unknown citation key %q", key),
				Position: diag.Position{File: doc.File},
			})
			continue
		}
		if references == nil {
			references = make(map[string]string)
		}
		references[key] = text
	}

	title := doc.Title
	if title == "" {
		title = page.Slug
	}
	return &Result{
		Slug:        page.Slug,
		File:        page.File,
		Title:       title,
		Document:    doc,
		References:  references,
		ContentHash: hash,
	}, nil
}

// Clean drops every cache entry and all loaded citation renderers.
func (c *DocumentCache) Clean() {
	c.mu.Lock()
	c.entries = make(map[string]*Result)
	c.mu.Unlock()
	c.citations.Reset()
}

// Len reports the number of stored entries.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheKey is stable across repeated builds of the same content: project
// identity plus the page slug, falling back to the file path for slugless
// pages.
func cacheKey(proj *project.Project, page project.Page) string {
	id := page.Slug
	if id == "" {
		id = page.File
	}
	return proj.Slug + "\x00" + id
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
