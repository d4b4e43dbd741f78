// Package builder walks the site configuration, fans page processing out
// across projects, and assembles the site manifest after all projects have
// settled.
package builder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsmith/internal/cache"
	"git.home.luguber.info/inful/docsmith/internal/manifest"
	"git.home.luguber.info/inful/docsmith/internal/metrics"
	"git.home.luguber.info/inful/docsmith/internal/project"
)

// Orchestrator coordinates incremental site builds over a shared document
// cache.
type Orchestrator struct {
	cache    *cache.DocumentCache
	recorder metrics.Recorder
}

// New creates an orchestrator around the given cache.
func New(c *cache.DocumentCache) *Orchestrator {
	return &Orchestrator{cache: c, recorder: metrics.NoopRecorder{}}
}

// WithRecorder injects a metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	o.recorder = r
	return o
}

// ProjectResult reports one project build: per-page outcomes in page-list
// order and the count of pages actually recomputed.
type ProjectResult struct {
	Slug     string
	Pages    []project.Page
	Outcomes []cache.Outcome
	Touched  int
}

// BuildProject loads the project's citation renderer, then concurrently
// processes the index page and every page carrying a routable slug. Results
// are collected preserving page-list order regardless of completion order.
func (o *Orchestrator) BuildProject(ctx context.Context, proj *project.Project) (*ProjectResult, error) {
	// The renderer load must complete before any page task starts so
	// pages of this project never trigger duplicate loads.
	if _, err := o.cache.CitationRenderer(proj.Root); err != nil {
		return nil, fmt.Errorf("project %s: %w", proj.Slug, err)
	}

	pages := proj.BuildPages()
	outcomes := make([]cache.Outcome, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	for i, page := range pages {
		g.Go(func() error {
			outcome, err := o.cache.ProcessPage(gctx, proj, page)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("project %s: %w", proj.Slug, err)
	}

	touched := 0
	for _, outcome := range outcomes {
		if outcome.Processed {
			touched++
		}
	}
	slog.Info("Project built", "project", proj.Slug, "pages", len(pages), "touched", touched)

	return &ProjectResult{
		Slug:     proj.Slug,
		Pages:    pages,
		Outcomes: outcomes,
		Touched:  touched,
	}, nil
}

// BuildOptions controls one site build.
type BuildOptions struct {
	// Clean removes the transient output directories before building.
	// Clean errors are non-fatal; missing output is tolerated.
	Clean bool
}

// BuildSite concurrently builds every configured project and writes the
// aggregated site manifest only after all project builds have settled. A
// failed project degrades the manifest status; it never aborts sibling
// projects.
func (o *Orchestrator) BuildSite(ctx context.Context, site *project.SiteConfig, opts BuildOptions) (*manifest.SiteManifest, error) {
	start := time.Now()
	buildID := uuid.NewString()
	slog.Info("Site build started", "build_id", buildID, "projects", len(site.Projects))

	if opts.Clean || site.Output.Clean {
		if err := CleanOutput(site.Output.Directory); err != nil {
			slog.Warn("Cleaning build output failed", "error", err)
		}
	}
	if err := EnsureOutputDirs(site.Output.Directory); err != nil {
		return nil, err
	}

	projects := make([]manifest.ProjectManifest, len(site.Projects))
	var wg sync.WaitGroup
	for i, ref := range site.Projects {
		wg.Add(1)
		go func() {
			defer wg.Done()
			projects[i] = o.buildOne(ctx, ref, site.Output.Directory)
		}()
	}
	// Barrier: the manifest is never written mid-flight.
	wg.Wait()

	status := "success"
	succeeded, touched, total := 0, 0, 0
	for _, pm := range projects {
		if pm.Status == "success" {
			succeeded++
		}
		touched += pm.Touched
		total += pm.Total
	}
	switch {
	case succeeded == len(projects):
		status = "success"
	case succeeded > 0:
		status = "partial"
	default:
		status = "failed"
	}

	m := &manifest.SiteManifest{
		ID:         buildID,
		Title:      site.Title,
		Timestamp:  time.Now().UTC(),
		Projects:   projects,
		ConfigHash: configHash(site),
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err := WriteManifest(site.Output.Directory, m); err != nil {
		return nil, err
	}

	o.recorder.AddPagesTouched(touched)
	o.recorder.AddPagesCached(total - touched)
	o.recorder.ObserveBuildDuration(time.Since(start))
	o.recorder.IncBuildOutcome(status)
	slog.Info("Site build finished", "build_id", buildID, "status", status, "touched", touched, "pages", total, "duration", time.Since(start))
	return m, nil
}

// buildOne loads and builds a single project. Failures are confined to this
// project's manifest entry.
func (o *Orchestrator) buildOne(ctx context.Context, ref project.ProjectRef, outputDir string) manifest.ProjectManifest {
	pm := manifest.ProjectManifest{Slug: ref.Slug}

	proj, err := project.LoadProject(ref)
	if err != nil {
		slog.Error("Loading project failed", "project", ref.Slug, "error", err)
		pm.Status = "failed"
		pm.Error = err.Error()
		return pm
	}

	result, err := o.BuildProject(ctx, proj)
	if err != nil {
		slog.Error("Building project failed", "project", ref.Slug, "error", err)
		pm.Status = "failed"
		pm.Error = err.Error()
		return pm
	}

	pm.Status = "success"
	pm.Touched = result.Touched
	pm.Total = len(result.Pages)
	for i, outcome := range result.Outcomes {
		r := outcome.Result
		pm.Diagnostics += len(r.Document.Diagnostics)
		pm.Pages = append(pm.Pages, manifest.PageRecord{
			Slug:        r.Slug,
			File:        result.Pages[i].File,
			Title:       r.Title,
			ContentHash: r.ContentHash,
			Touched:     outcome.Processed,
		})
		if err := writePage(outputDir, proj.Slug, r); err != nil {
			slog.Error("Writing page output failed", "project", proj.Slug, "page", r.Slug, "error", err)
			pm.Status = "failed"
			pm.Error = err.Error()
			return pm
		}
	}
	return pm
}

func configHash(site *project.SiteConfig) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%v", site.Title, site.Output.Directory, site.Projects)))
	return hex.EncodeToString(sum[:])
}
