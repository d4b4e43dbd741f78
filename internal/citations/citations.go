// Package citations loads per-project citation databases and renders inline
// references. Each project's database is loaded at most once and shared by
// every page of that project.
package citations

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// Entry is one citation record of a project database.
type Entry struct {
	Key    string `yaml:"key"`
	Author string `yaml:"author"`
	Title  string `yaml:"title"`
	Year   int    `yaml:"year"`
}

// Renderer resolves citation keys of one project.
type Renderer struct {
	entries map[string]Entry
}

// Render returns the rendered reference text for a key.
func (r *Renderer) Render(key string) (string, bool) {
	entry, ok := r.entries[key]
	if !ok {
		return "", false
	}
	if entry.Year > 0 {
		return fmt.Sprintf("%s (%d). %s.", entry.Author, entry.Year, entry.Title), true
	}
	return fmt.Sprintf("%s. %s.", entry.Author, entry.Title), true
}

// Len reports the number of loaded entries.
func (r *Renderer) Len() int {
	return len(r.entries)
}

// Loader caches one renderer per project path. Concurrent requests for the
// same project share a single load.
type Loader struct {
	group     singleflight.Group
	mu        sync.RWMutex
	renderers map[string]*Renderer
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{renderers: make(map[string]*Renderer)}
}

// Get returns the citation renderer for a project root, loading it on first
// use. A project without a citations.yaml gets an empty renderer; a present
// but unreadable database is a hard failure for that project.
func (l *Loader) Get(projectPath string) (*Renderer, error) {
	l.mu.RLock()
	renderer, ok := l.renderers[projectPath]
	l.mu.RUnlock()
	if ok {
		return renderer, nil
	}

	v, err, _ := l.group.Do(projectPath, func() (any, error) {
		loaded, err := load(projectPath)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.renderers[projectPath] = loaded
		l.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Renderer), nil
}

// Reset drops all cached renderers.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.renderers = make(map[string]*Renderer)
}

func load(projectPath string) (*Renderer, error) {
	path := filepath.Join(projectPath, "citations.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Renderer{entries: map[string]Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read citation database: %w", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse citation database %s: %w", path, err)
	}

	byKey := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		byKey[entry.Key] = entry
	}
	slog.Debug("Loaded citation database", "project", projectPath, "entries", len(byKey))
	return &Renderer{entries: byKey}, nil
}
