// Package project loads the multi-project site configuration and per-project
// page listings from YAML.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SiteConfig is the root configuration of a multi-project site.
type SiteConfig struct {
	Title    string       `yaml:"title"`
	Output   OutputConfig `yaml:"output"`
	Projects []ProjectRef `yaml:"projects"`

	// Path the configuration was loaded from; watched for changes.
	Path string `yaml:"-"`
}

// OutputConfig describes the build output layout.
type OutputConfig struct {
	// Directory is the build root. Content and static assets are written
	// under it and it is excluded from watching.
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// ProjectRef points at one configured project.
type ProjectRef struct {
	Path string `yaml:"path"`
	Slug string `yaml:"slug"`
}

// Project is a loaded project: a root directory, an index page, and the
// ordered list of pages.
type Project struct {
	Slug  string `yaml:"-"`
	Root  string `yaml:"-"`
	Title string `yaml:"title"`
	Index string `yaml:"index"`
	Pages []Page `yaml:"pages"`
}

// Page is one file of a project. Only pages carrying a routable slug
// participate in the build.
type Page struct {
	File string `yaml:"file"`
	Slug string `yaml:"slug,omitempty"`
}

// BuildPages returns the index page followed by every page with a routable
// slug, in configured order.
func (p *Project) BuildPages() []Page {
	pages := make([]Page, 0, len(p.Pages)+1)
	if p.Index != "" {
		pages = append(pages, Page{File: p.Index, Slug: "index"})
	}
	for _, page := range p.Pages {
		if page.Slug == "" {
			continue
		}
		pages = append(pages, page)
	}
	return pages
}

// FilePath resolves a page file against the project root.
func (p *Project) FilePath(page Page) string {
	return filepath.Join(p.Root, page.File)
}

// LoadSite reads the root site configuration. A `.env` file next to the
// configuration is loaded first and `${VAR}` references in the YAML are
// expanded.
func LoadSite(path string) (*SiteConfig, error) {
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}

	var cfg SiteConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse site config %s: %w", path, err)
	}
	cfg.Path = path

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "_build"
	}
	if !filepath.IsAbs(cfg.Output.Directory) {
		cfg.Output.Directory = filepath.Join(filepath.Dir(path), cfg.Output.Directory)
	}

	base := filepath.Dir(path)
	for i, ref := range cfg.Projects {
		if ref.Path == "" {
			return nil, fmt.Errorf("project %d in %s has no path", i, path)
		}
		if !filepath.IsAbs(ref.Path) {
			cfg.Projects[i].Path = filepath.Join(base, ref.Path)
		}
		if ref.Slug == "" {
			cfg.Projects[i].Slug = filepath.Base(ref.Path)
		}
	}
	return &cfg, nil
}

// LoadProject reads a project's page listing from its project.yaml.
func LoadProject(ref ProjectRef) (*Project, error) {
	configPath := filepath.Join(ref.Path, "project.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read project config: %w", err)
	}

	var proj Project
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", configPath, err)
	}
	proj.Slug = ref.Slug
	proj.Root = ref.Path
	if proj.Index == "" {
		proj.Index = "index.md"
	}
	return &proj, nil
}
