package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsmith/internal/builder"
	"git.home.luguber.info/inful/docsmith/internal/cache"
	"git.home.luguber.info/inful/docsmith/internal/citations"
	"git.home.luguber.info/inful/docsmith/internal/directive"
	"git.home.luguber.info/inful/docsmith/internal/latex"
	"git.home.luguber.info/inful/docsmith/internal/metrics"
	"git.home.luguber.info/inful/docsmith/internal/parse"
	"git.home.luguber.info/inful/docsmith/internal/project"
	"git.home.luguber.info/inful/docsmith/internal/state"
	"git.home.luguber.info/inful/docsmith/internal/watch"
)

const defaultCellLanguage = "python"

// newOrchestrator wires the processing pipeline: registry and translator are
// injected into the processor, the processor into the cache, the cache into
// the orchestrator.
func newOrchestrator() *builder.Orchestrator {
	processor := parse.NewProcessor(directive.NewDefaultRegistry(), latex.NewTranslator(), defaultCellLanguage)
	return builder.New(cache.New(processor, citations.NewLoader()))
}

func historyPath(site *project.SiteConfig) string {
	return filepath.Join(site.Output.Directory, "docsmith.db")
}

func runBuild(configPath string, clean bool) error {
	site, err := project.LoadSite(configPath)
	if err != nil {
		return err
	}

	orch := newOrchestrator()
	m, err := orch.BuildSite(context.Background(), site, builder.BuildOptions{Clean: clean})
	if err != nil {
		return err
	}

	history, err := state.OpenHistory(historyPath(site))
	if err != nil {
		slog.Warn("Build history unavailable", "error", err)
	} else {
		defer history.Close()
		if err := history.Record(context.Background(), m); err != nil {
			slog.Warn("Recording build failed", "error", err)
		}
	}

	if m.Status == "failed" {
		return fmt.Errorf("all projects failed")
	}
	return nil
}

func runWatch(configPath, metricsAddr string, rebuildEvery time.Duration) error {
	site, err := project.LoadSite(configPath)
	if err != nil {
		return err
	}

	orch := newOrchestrator()
	if metricsAddr != "" {
		reg := prom.NewRegistry()
		orch.WithRecorder(metrics.NewPrometheusRecorder(reg))
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.HTTPHandler(reg))
			slog.Info("Serving metrics", "addr", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	history, err := state.OpenHistory(historyPath(site))
	if err != nil {
		slog.Warn("Build history unavailable", "error", err)
		history = nil
	} else {
		defer history.Close()
	}

	rebuild := func(ctx context.Context) {
		m, err := orch.BuildSite(ctx, site, builder.BuildOptions{})
		if err != nil {
			slog.Error("Site build failed", "error", err)
			return
		}
		if history != nil {
			if err := history.Record(ctx, m); err != nil {
				slog.Warn("Recording build failed", "error", err)
			}
		}
	}

	trigger, err := watch.NewTrigger(rebuild, site.Output.Directory)
	if err != nil {
		return err
	}
	defer trigger.Stop()

	if err := trigger.Add(site.Path); err != nil {
		return err
	}
	for _, ref := range site.Projects {
		if err := trigger.AddRecursive(ref.Path); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trigger.Start(ctx)
	trigger.Rebuild() // initial full build

	if rebuildEvery > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		if _, err := scheduler.NewJob(gocron.DurationJob(rebuildEvery), gocron.NewTask(trigger.Rebuild)); err != nil {
			return fmt.Errorf("schedule periodic rebuild: %w", err)
		}
		scheduler.Start()
		defer func() { _ = scheduler.Shutdown() }()
		slog.Info("Periodic rebuild scheduled", "interval", rebuildEvery)
	}

	slog.Info("Watching for changes", "config", site.Path, "projects", len(site.Projects))
	<-ctx.Done()
	slog.Info("Shutting down")
	return nil
}

func runClean(configPath string) error {
	site, err := project.LoadSite(configPath)
	if err != nil {
		return err
	}
	if err := builder.CleanOutput(site.Output.Directory); err != nil {
		return err
	}
	slog.Info("Build output cleaned", "dir", site.Output.Directory)
	return nil
}

func runHistory(configPath string, limit int) error {
	site, err := project.LoadSite(configPath)
	if err != nil {
		return err
	}

	history, err := state.OpenHistory(historyPath(site))
	if err != nil {
		return err
	}
	defer history.Close()

	records, err := history.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No recorded builds.")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %-8s  projects=%d pages=%d touched=%d  %dms  %s\n",
			r.Timestamp.Format(time.RFC3339), r.Status, r.Projects, r.Pages, r.Touched, r.DurationMS, r.ID)
	}
	return nil
}

const starterSiteConfig = `title: My Documentation
output:
  directory: _build
  clean: false
projects:
  - path: guide
    slug: guide
`

const starterProjectConfig = `title: Guide
index: index.md
pages:
  - file: getting-started.md
    slug: getting-started
`

const starterIndexPage = `---
title: Guide
---

# Guide

Welcome. See the getting started page.
`

const starterPage = "---\ntitle: Getting Started\n---\n\n# Getting Started\n\n```{code-block} python\n:caption: Hello\n:label: hello-example\n\nprint(\"hello\")\n```\n"

func runInit(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	base := filepath.Dir(configPath)
	files := map[string]string{
		configPath: starterSiteConfig,
		filepath.Join(base, "guide", "project.yaml"):       starterProjectConfig,
		filepath.Join(base, "guide", "index.md"):           starterIndexPage,
		filepath.Join(base, "guide", "getting-started.md"): starterPage,
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	slog.Info("Starter site created", "config", configPath)
	return nil
}
