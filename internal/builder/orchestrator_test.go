package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsmith/internal/cache"
	"git.home.luguber.info/inful/docsmith/internal/citations"
	"git.home.luguber.info/inful/docsmith/internal/directive"
	"git.home.luguber.info/inful/docsmith/internal/latex"
	"git.home.luguber.info/inful/docsmith/internal/manifest"
	"git.home.luguber.info/inful/docsmith/internal/parse"
	"git.home.luguber.info/inful/docsmith/internal/project"
)

func newTestOrchestrator() *Orchestrator {
	processor := parse.NewProcessor(directive.NewDefaultRegistry(), latex.NewTranslator(), "python")
	return New(cache.New(processor, citations.NewLoader()))
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// fixtureSite lays out a site with one or more projects, each holding an
// index and two slugged pages.
func fixtureSite(t *testing.T, projectSlugs ...string) *project.SiteConfig {
	t.Helper()
	dir := t.TempDir()

	refs := make([]project.ProjectRef, 0, len(projectSlugs))
	for _, slug := range projectSlugs {
		root := filepath.Join(dir, slug)
		writeTestFile(t, filepath.Join(root, "project.yaml"), `
index: index.md
pages:
  - file: one.md
    slug: one
  - file: two.md
    slug: two
  - file: draft.md
`)
		writeTestFile(t, filepath.Join(root, "index.md"), "# "+slug+"\n")
		writeTestFile(t, filepath.Join(root, "one.md"), "# One\n\nFirst page.\n")
		writeTestFile(t, filepath.Join(root, "two.md"), "# Two\n\nSecond page.\n")
		writeTestFile(t, filepath.Join(root, "draft.md"), "# Draft\n")
		refs = append(refs, project.ProjectRef{Path: root, Slug: slug})
	}

	return &project.SiteConfig{
		Title:    "Fixture",
		Output:   project.OutputConfig{Directory: filepath.Join(dir, "_build")},
		Projects: refs,
		Path:     filepath.Join(dir, "site.yaml"),
	}
}

func TestBuildProjectOrderAndTouched(t *testing.T) {
	o := newTestOrchestrator()
	site := fixtureSite(t, "guide")

	proj, err := project.LoadProject(site.Projects[0])
	require.NoError(t, err)

	result, err := o.BuildProject(context.Background(), proj)
	require.NoError(t, err)

	require.Len(t, result.Pages, 3, "index plus the two slugged pages")
	assert.Equal(t, "index", result.Pages[0].Slug)
	assert.Equal(t, "one", result.Pages[1].Slug)
	assert.Equal(t, "two", result.Pages[2].Slug)
	assert.Equal(t, 3, result.Touched)
	assert.LessOrEqual(t, result.Touched, len(result.Pages))

	for i, outcome := range result.Outcomes {
		assert.Equal(t, result.Pages[i].Slug, outcome.Result.Slug, "outcomes preserve page-list order")
	}
}

func TestSecondBuildTouchesNothing(t *testing.T) {
	o := newTestOrchestrator()
	site := fixtureSite(t, "guide")

	proj, err := project.LoadProject(site.Projects[0])
	require.NoError(t, err)

	first, err := o.BuildProject(context.Background(), proj)
	require.NoError(t, err)
	require.Equal(t, 3, first.Touched)

	second, err := o.BuildProject(context.Background(), proj)
	require.NoError(t, err)
	assert.Zero(t, second.Touched, "unchanged content rebuild touches nothing")
	for i := range first.Outcomes {
		assert.Same(t, first.Outcomes[i].Result, second.Outcomes[i].Result, "identical page results")
	}
}

func TestSinglePageChangeTouchesOne(t *testing.T) {
	o := newTestOrchestrator()
	site := fixtureSite(t, "guide")

	proj, err := project.LoadProject(site.Projects[0])
	require.NoError(t, err)

	_, err = o.BuildProject(context.Background(), proj)
	require.NoError(t, err)

	writeTestFile(t, filepath.Join(proj.Root, "one.md"), "# One\n\nEdited.\n")

	result, err := o.BuildProject(context.Background(), proj)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Touched)
	assert.True(t, result.Outcomes[1].Processed, "only the edited page recomputed")
	assert.False(t, result.Outcomes[0].Processed)
	assert.False(t, result.Outcomes[2].Processed)
}

func TestBuildSiteWritesManifestAfterBarrier(t *testing.T) {
	o := newTestOrchestrator()
	site := fixtureSite(t, "guide", "reference")

	m, err := o.BuildSite(context.Background(), site, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, "success", m.Status)
	require.Len(t, m.Projects, 2)
	assert.Equal(t, "guide", m.Projects[0].Slug)
	assert.Equal(t, "reference", m.Projects[1].Slug)
	for _, pm := range m.Projects {
		assert.Equal(t, 3, pm.Total)
		assert.Equal(t, 3, pm.Touched)
	}

	// The manifest on disk reflects every settled project.
	data, err := os.ReadFile(ManifestPath(site.Output.Directory))
	require.NoError(t, err)
	onDisk, err := manifest.FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, m.ID, onDisk.ID)
	assert.Len(t, onDisk.Projects, 2)

	// Page output layout: content/<project>/<slug>.json.
	_, err = os.Stat(filepath.Join(site.Output.Directory, "content", "guide", "one.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(site.Output.Directory, "static"))
	assert.NoError(t, err)
}

func TestBuildSiteFailedProjectDegradesStatus(t *testing.T) {
	o := newTestOrchestrator()
	site := fixtureSite(t, "guide")
	site.Projects = append(site.Projects, project.ProjectRef{
		Path: filepath.Join(t.TempDir(), "missing"),
		Slug: "broken",
	})

	m, err := o.BuildSite(context.Background(), site, BuildOptions{})
	require.NoError(t, err, "a failed project never fails the site build")

	assert.Equal(t, "partial", m.Status)
	assert.Equal(t, "success", m.Projects[0].Status)
	assert.Equal(t, "failed", m.Projects[1].Status)
	assert.NotEmpty(t, m.Projects[1].Error)
}

func TestBuildSiteCleanRemovesStaleOutput(t *testing.T) {
	o := newTestOrchestrator()
	site := fixtureSite(t, "guide")

	stale := filepath.Join(site.Output.Directory, "content", "stale.json")
	writeTestFile(t, stale, "{}")

	_, err := o.BuildSite(context.Background(), site, BuildOptions{Clean: true})
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "clean removes transient output")
}

func TestBuildSiteSecondRunTouchedZero(t *testing.T) {
	o := newTestOrchestrator()
	site := fixtureSite(t, "guide")

	_, err := o.BuildSite(context.Background(), site, BuildOptions{})
	require.NoError(t, err)

	m, err := o.BuildSite(context.Background(), site, BuildOptions{})
	require.NoError(t, err)
	assert.Zero(t, m.Projects[0].Touched)
	assert.Equal(t, 3, m.Projects[0].Total)
}
