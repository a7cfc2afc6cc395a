package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dejo1307/a11ysnap/internal/audits/duplicates"
	"github.com/dejo1307/a11ysnap/internal/audits/unlabeled"
	"github.com/dejo1307/a11ysnap/internal/config"
	"github.com/dejo1307/a11ysnap/internal/engine"
	"github.com/dejo1307/a11ysnap/internal/loaders/tsxsource"
	"github.com/dejo1307/a11ysnap/internal/loaders/yamlsource"
	"github.com/dejo1307/a11ysnap/internal/renderers/legend"
	"github.com/dejo1307/a11ysnap/internal/renderers/transcript"
	"github.com/dejo1307/a11ysnap/internal/server"
)

func main() {
	// Ensure log output goes to stderr, never stdout (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)

	ctx := context.Background()

	// Check for --generate flag
	generateMode := false
	cfgPath := "a11ysnap.yaml"
	for _, arg := range os.Args[1:] {
		if arg == "--generate" {
			generateMode = true
		} else {
			cfgPath = arg
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// If config file doesn't exist, use defaults
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	// Register loaders
	eng.RegisterLoader(yamlsource.New())
	eng.RegisterLoader(tsxsource.New())

	// Register audits
	eng.RegisterAudit(unlabeled.New())
	eng.RegisterAudit(duplicates.New())

	// Register renderers
	eng.RegisterRenderer(legend.New(cfg.Output.MaxLegendTokens))
	eng.RegisterRenderer(transcript.New())

	sourcePath, err := filepath.Abs(cfg.Source)
	if err != nil {
		log.Fatalf("failed to resolve source path: %v", err)
	}
	outDir := eng.OutputDir(sourcePath)

	// One-shot generation mode
	if generateMode {
		snapshot, err := eng.GenerateSnapshot(ctx, sourcePath)
		if err != nil {
			log.Fatalf("snapshot generation failed: %v", err)
		}

		if err := eng.WriteArtifacts(outDir); err != nil {
			log.Fatalf("failed to write artifacts: %v", err)
		}

		fmt.Fprintf(os.Stderr, "\nSnapshot complete:\n")
		fmt.Fprintf(os.Stderr, "  Source:      %s\n", snapshot.Meta.SourcePath)
		fmt.Fprintf(os.Stderr, "  Elements:    %d\n", snapshot.Meta.ElementCount)
		fmt.Fprintf(os.Stderr, "  Containers:  %d\n", snapshot.Meta.ContainerCount)
		fmt.Fprintf(os.Stderr, "  Insights:    %d\n", snapshot.Meta.InsightCount)
		fmt.Fprintf(os.Stderr, "  Artifacts:   %d\n", len(snapshot.Artifacts))
		fmt.Fprintf(os.Stderr, "  Duration:    %s\n", snapshot.Meta.Duration)
		fmt.Fprintf(os.Stderr, "  Output:      %s\n", outDir)
		os.Exit(0)
	}

	// Auto-load existing snapshot if available (so queries work immediately
	// without requiring a generate_snapshot call first).
	if _, err := os.Stat(filepath.Join(outDir, engine.MetaFile)); err == nil {
		log.Printf("[main] loading existing snapshot from %s", outDir)
		if err := eng.LoadArtifacts(outDir); err != nil {
			log.Printf("[main] warning: failed to load existing snapshot: %v", err)
		}
	}

	// MCP server mode (default)
	srv, err := server.New(eng, cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
