package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"plexus/internal/analyzer"
	"plexus/internal/config"
	"plexus/internal/loader"
	"plexus/internal/observ"
	"plexus/internal/urlresolver"
)

// workspace is the package a command operates on: its manifest, a loader
// rooted at the package directory and the knobs shared by every command.
type workspace struct {
	manifest *config.Manifest
	loader   *loader.FSLoader
	resolver *urlresolver.PackageResolver
	timer    *observ.Timer
	jobs     int
}

func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	flags := cmd.Root().PersistentFlags()
	rootDir, err := flags.GetString("root")
	if err != nil {
		return nil, fmt.Errorf("failed to get root flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showTimings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	var manifest *config.Manifest
	if configPath != "" {
		manifest, err = config.Load(configPath)
	} else {
		manifest, err = config.Discover(rootDir)
	}
	if err != nil {
		return nil, err
	}
	if manifest.Path == "" && rootDir != "" {
		if abs, err := filepath.Abs(rootDir); err == nil {
			manifest.Root = abs
		}
	}

	cfg := manifest.Config
	if jobs == 0 {
		jobs = cfg.Analyzer.Jobs
	}
	fsl := loader.NewFSLoader(manifest.Root)
	fsl.Exclude = cfg.Analyzer.Exclude
	fsl.IncludeExternal = cfg.Analyzer.IncludeExternal

	ws := &workspace{
		manifest: manifest,
		loader:   fsl,
		resolver: urlresolver.New(cfg.Package.ComponentDir),
		jobs:     jobs,
	}
	if showTimings {
		ws.timer = observ.NewTimer()
	}
	return ws, nil
}

// newAnalyzer builds an analyzer reporting progress to sink, which may be nil.
func (ws *workspace) newAnalyzer(sink analyzer.ProgressSink) (*analyzer.Analyzer, error) {
	return analyzer.New(analyzer.Options{
		Loader:    ws.loader,
		Resolver:  ws.resolver,
		CacheSize: ws.manifest.Config.Analyzer.CacheSize,
		Jobs:      ws.jobs,
		Progress:  sink,
		Timer:     ws.timer,
	})
}

// title names the package in headers.
func (ws *workspace) title() string {
	if name := ws.manifest.Config.Package.Name; name != "" {
		return name
	}
	return filepath.Base(ws.manifest.Root)
}
