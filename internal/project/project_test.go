package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadSite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "site.yaml"), `
title: Example Docs
output:
  directory: _build
  clean: true
projects:
  - path: guide
    slug: guide
  - path: reference
`)

	cfg, err := LoadSite(filepath.Join(dir, "site.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Example Docs", cfg.Title)
	assert.True(t, cfg.Output.Clean)
	assert.Equal(t, filepath.Join(dir, "_build"), cfg.Output.Directory)
	require.Len(t, cfg.Projects, 2)
	assert.Equal(t, filepath.Join(dir, "guide"), cfg.Projects[0].Path)
	assert.Equal(t, "reference", cfg.Projects[1].Slug, "slug defaults to the directory name")
}

func TestLoadSiteExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCS_TITLE", "From Env")
	writeFile(t, filepath.Join(dir, "site.yaml"), "title: ${DOCS_TITLE}\nprojects:\n  - path: guide\n")

	cfg, err := LoadSite(filepath.Join(dir, "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Title)
}

func TestLoadProjectAndBuildPages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "guide", "project.yaml"), `
title: Guide
index: index.md
pages:
  - file: intro.md
    slug: intro
  - file: notes.md
  - file: setup.md
    slug: setup
`)

	proj, err := LoadProject(ProjectRef{Path: filepath.Join(dir, "guide"), Slug: "guide"})
	require.NoError(t, err)

	pages := proj.BuildPages()
	require.Len(t, pages, 3, "slugless pages do not participate in the build")
	assert.Equal(t, "index", pages[0].Slug)
	assert.Equal(t, "intro", pages[1].Slug)
	assert.Equal(t, "setup", pages[2].Slug)
	assert.Equal(t, filepath.Join(dir, "guide", "intro.md"), proj.FilePath(pages[1]))
}

func TestLoadProjectMissingConfig(t *testing.T) {
	_, err := LoadProject(ProjectRef{Path: t.TempDir(), Slug: "empty"})
	require.Error(t, err)
}
