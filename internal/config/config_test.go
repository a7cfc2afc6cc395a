package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a11ysnap.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
source: screens/settings.tsx
parse:
  idiom: pad
  layout_direction: rtl
  verbosity: custom
  include:
    traits: true
    value: true
output:
  dir: ""
  max_legend_tokens: -1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Source != "screens/settings.tsx" {
		t.Errorf("Source = %q", cfg.Source)
	}
	if cfg.Parse.Idiom != "pad" || cfg.Parse.LayoutDirection != "rtl" {
		t.Errorf("Parse = %+v, want pad/rtl", cfg.Parse)
	}
	if cfg.Parse.Locale != "en" {
		t.Errorf("Locale = %q, want default en", cfg.Parse.Locale)
	}
	if cfg.Parse.RotorResultLimit != 10 {
		t.Errorf("RotorResultLimit = %d, want default 10", cfg.Parse.RotorResultLimit)
	}
	if !cfg.Parse.Include.Traits || !cfg.Parse.Include.Value || cfg.Parse.Include.Hints {
		t.Errorf("Include = %+v", cfg.Parse.Include)
	}
	if cfg.Output.Dir != ".a11ysnap" {
		t.Errorf("Output.Dir = %q, want .a11ysnap restored", cfg.Output.Dir)
	}
	if cfg.Output.MaxLegendTokens != 16000 {
		t.Errorf("MaxLegendTokens = %d, want default 16000", cfg.Output.MaxLegendTokens)
	}
	if !cfg.IsLoaderEnabled("tsx") || !cfg.IsAuditEnabled("unlabeled") || !cfg.IsRendererEnabled("legend") {
		t.Error("default plugin lists were not kept")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "parse: [unclosed"},
		{"unknown idiom", "parse:\n  idiom: watch\n"},
		{"unknown direction", "parse:\n  layout_direction: ttb\n"},
		{"unknown verbosity", "parse:\n  verbosity: chatty\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("Load(%q) succeeded, want error", tt.body)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) succeeded, want error")
	}
}

func TestEnabledLists(t *testing.T) {
	cfg := Default()
	cfg.Audits = []string{"duplicates"}

	if cfg.IsAuditEnabled("unlabeled") {
		t.Error("unlabeled should be disabled")
	}
	if !cfg.IsAuditEnabled("duplicates") {
		t.Error("duplicates should be enabled")
	}
	if cfg.IsLoaderEnabled("swift") {
		t.Error("unknown loader reported enabled")
	}
}
