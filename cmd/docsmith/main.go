package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsmith/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Site configuration file path" default:"site.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print the version and exit"`

	Build struct {
		Clean bool `help:"Remove build output before building"`
	} `cmd:"" help:"Build the site once"`

	Watch struct {
		MetricsAddr  string        `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
		RebuildEvery time.Duration `help:"Additionally rebuild on a fixed interval"`
	} `cmd:"" help:"Build the site and rebuild on file-system changes"`

	Clean struct{} `cmd:"" help:"Remove transient build output"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration"`
	} `cmd:"" help:"Initialize a starter site configuration"`

	History struct {
		Limit int `short:"n" help:"Number of builds to show" default:"10"`
	} `cmd:"" help:"Show recent builds"`
}

func main() {
	ctx := kong.Parse(&CLI, kong.Vars{"version": version.String()})

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild(CLI.Config, CLI.Build.Clean)
	case "watch":
		err = runWatch(CLI.Config, CLI.Watch.MetricsAddr, CLI.Watch.RebuildEvery)
	case "clean":
		err = runClean(CLI.Config)
	case "init":
		err = runInit(CLI.Config, CLI.Init.Force)
	case "history":
		err = runHistory(CLI.Config, CLI.History.Limit)
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
