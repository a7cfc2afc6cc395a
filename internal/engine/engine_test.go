package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/dejo1307/a11ysnap/internal/audits/duplicates"
	"github.com/dejo1307/a11ysnap/internal/audits/unlabeled"
	"github.com/dejo1307/a11ysnap/internal/config"
	"github.com/dejo1307/a11ysnap/internal/describe"
	"github.com/dejo1307/a11ysnap/internal/loaders/yamlsource"
	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/parser"
	"github.com/dejo1307/a11ysnap/internal/renderers/legend"
	"github.com/dejo1307/a11ysnap/internal/renderers/transcript"
	"github.com/dejo1307/a11ysnap/internal/source/fixture"
)

// --- helpers ---

const inboxScreen = `
children:
  - {kind: element, label: Inbox, traits: [header], frame: [0, 0, 390, 44]}
  - {kind: element, label: Delete, traits: [button], frame: [0, 44, 195, 44]}
  - {kind: element, label: Delete, traits: [button], frame: [195, 44, 195, 44]}
  - {kind: element, traits: [button], identifier: compose, frame: [0, 88, 390, 44]}
  - id: folders
    container_type: list
    frame: [0, 132, 390, 88]
    explicit: [work, home]
    children:
      - {id: work, kind: element, label: Work, frame: [0, 0, 390, 44]}
      - {id: home, kind: element, label: Home, frame: [0, 44, 390, 44]}
`

func writeScreen(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inbox.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	eng, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	eng.RegisterLoader(yamlsource.New())
	eng.RegisterAudit(unlabeled.New())
	eng.RegisterAudit(duplicates.New())
	eng.RegisterRenderer(legend.New(0))
	eng.RegisterRenderer(transcript.New())
	return eng
}

// cancelingLoader loads a single element and cancels the run on its way out,
// so the pipeline fails after parsing.
type cancelingLoader struct {
	cancel context.CancelFunc
}

func (l *cancelingLoader) Name() string { return "ghost" }

func (l *cancelingLoader) Detect(path string) (bool, error) {
	return filepath.Ext(path) == ".ghost", nil
}

func (l *cancelingLoader) Load(ctx context.Context, path string) (*fixture.Spec, error) {
	l.cancel()
	return &fixture.Spec{Children: []fixture.Spec{
		{Kind: fixture.KindElement, Label: "Ghost", Frame: []float64{0, 0, 390, 44}},
	}}, nil
}

// --- tests ---

func TestCompilerOptions(t *testing.T) {
	tests := []struct {
		name      string
		verbosity string
		include   config.IncludeConfig
		want      describe.Verbosity
	}{
		{"verbose", config.VerbosityVerbose, config.IncludeConfig{}, describe.Verbose()},
		{"minimal", config.VerbosityMinimal, config.IncludeConfig{Traits: true}, describe.Minimal()},
		{
			"custom reads include",
			config.VerbosityCustom,
			config.IncludeConfig{Traits: true, Value: true},
			describe.Verbosity{Traits: true, Value: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Parse.Verbosity = tt.verbosity
			cfg.Parse.Include = tt.include

			got := CompilerOptions(cfg)
			if got.Verbosity != tt.want {
				t.Errorf("Verbosity = %+v, want %+v", got.Verbosity, tt.want)
			}
		})
	}
}

func TestCompilerOptions_LocaleAndSwitches(t *testing.T) {
	cfg := config.Default()
	cfg.Parse.Locale = "de_DE"
	cfg.Parse.LegacySwitchValues = true

	got := CompilerOptions(cfg)
	if got.DefaultLocale.String() != "de-DE" {
		t.Errorf("DefaultLocale = %v, want de-DE", got.DefaultLocale)
	}
	if got.ReadsUnknownSwitchValues {
		t.Error("legacy switch values should disable reading unknown values")
	}
}

func TestParserOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Parse.Idiom = "pad"
	cfg.Parse.LayoutDirection = "rtl"
	cfg.Parse.RotorResultLimit = 0

	got := ParserOptions(cfg)
	want := parser.Options{Idiom: parser.IdiomPad, LayoutDirection: parser.RightToLeft, RotorResultLimit: 10}
	if got != want {
		t.Errorf("ParserOptions = %+v, want %+v", got, want)
	}
}

func TestGenerateSnapshot(t *testing.T) {
	eng := newTestEngine(t, config.Default())
	source := writeScreen(t, inboxScreen)

	snapshot, err := eng.GenerateSnapshot(context.Background(), source)
	if err != nil {
		t.Fatalf("GenerateSnapshot: %v", err)
	}

	meta := snapshot.Meta
	if _, err := uuid.Parse(meta.ID); err != nil {
		t.Errorf("meta ID %q is not a UUID: %v", meta.ID, err)
	}
	if meta.Loader != "yaml" || meta.SourcePath != source {
		t.Errorf("meta loader/source = %q/%q", meta.Loader, meta.SourcePath)
	}
	if meta.ElementCount != 6 || eng.Store().Count() != 6 {
		t.Errorf("element count = %d (store %d), want 6", meta.ElementCount, eng.Store().Count())
	}
	if meta.ContainerCount != 1 {
		t.Errorf("container count = %d, want 1", meta.ContainerCount)
	}
	if meta.Locale != "en" || meta.Idiom != "phone" || meta.LayoutDirection != "ltr" {
		t.Errorf("meta parse settings = %s/%s/%s", meta.Locale, meta.Idiom, meta.LayoutDirection)
	}
	if strings.Join(meta.Audits, ",") != "unlabeled,duplicates" {
		t.Errorf("audits = %v", meta.Audits)
	}
	if strings.Join(meta.Renderers, ",") != "legend,transcript" {
		t.Errorf("renderers = %v", meta.Renderers)
	}

	// One unlabeled control, one duplicated "Delete. Button."
	if meta.InsightCount != 2 || len(snapshot.Insights) != 2 {
		t.Errorf("insights = %d, want 2", len(snapshot.Insights))
	}

	transcriptText, err := eng.GetArtifact("transcript.txt")
	if err != nil {
		t.Fatalf("GetArtifact(transcript.txt): %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(transcriptText)), "\n")
	if len(lines) != 6 || lines[0] != "Inbox. Heading." || lines[4] != "Work. List Start." {
		t.Errorf("transcript = %q", lines)
	}
}

func TestGenerateSnapshot_DisabledPlugins(t *testing.T) {
	cfg := config.Default()
	cfg.Audits = nil
	cfg.Renderers = []string{"transcript"}
	eng := newTestEngine(t, cfg)

	snapshot, err := eng.GenerateSnapshot(context.Background(), writeScreen(t, inboxScreen))
	if err != nil {
		t.Fatalf("GenerateSnapshot: %v", err)
	}
	if len(snapshot.Insights) != 0 || len(snapshot.Meta.Audits) != 0 {
		t.Errorf("disabled audits ran: %v", snapshot.Meta.Audits)
	}
	if len(snapshot.Artifacts) != 1 || snapshot.Artifacts[0].Name != "transcript.txt" {
		t.Errorf("artifacts = %+v, want only transcript.txt", snapshot.Artifacts)
	}
}

func TestGenerateSnapshot_Errors(t *testing.T) {
	eng := newTestEngine(t, config.Default())

	if _, err := eng.GenerateSnapshot(context.Background(), "screen.swift"); err == nil {
		t.Error("unsupported source accepted")
	}
	if _, err := eng.GenerateSnapshot(context.Background(), writeScreen(t, "children: [{kind: gizmo}]\n")); err == nil {
		t.Error("unknown node kind accepted")
	}
	if _, err := eng.GenerateSnapshot(context.Background(), writeScreen(t, "frame: [0, 0, .nan, 10]\n")); !errors.Is(err, parser.ErrUnrenderable) {
		t.Errorf("non-finite root error = %v, want ErrUnrenderable", err)
	}
	if eng.Snapshot() != nil {
		t.Error("failed runs left a snapshot behind")
	}
}

func TestWriteAndLoadArtifacts(t *testing.T) {
	eng := newTestEngine(t, config.Default())
	source := writeScreen(t, inboxScreen)

	if err := eng.WriteArtifacts(t.TempDir()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("WriteArtifacts before generation = %v, want ErrNoSnapshot", err)
	}

	original, err := eng.GenerateSnapshot(context.Background(), source)
	if err != nil {
		t.Fatalf("GenerateSnapshot: %v", err)
	}
	outDir := eng.OutputDir(source)
	if outDir != filepath.Join(filepath.Dir(source), ".a11ysnap") {
		t.Errorf("OutputDir = %q", outDir)
	}
	if err := eng.WriteArtifacts(outDir); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}

	for _, name := range []string{ElementsFile, HierarchyFile, InsightsFile, MetaFile, "legend.md", "transcript.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	restored := newTestEngine(t, config.Default())
	if err := restored.LoadArtifacts(outDir); err != nil {
		t.Fatalf("LoadArtifacts: %v", err)
	}
	got := restored.Snapshot()
	if got.Meta.ID != original.Meta.ID {
		t.Errorf("restored ID = %q, want %q", got.Meta.ID, original.Meta.ID)
	}
	if restored.Store().Count() != 6 || len(got.Hierarchy) != len(original.Hierarchy) {
		t.Errorf("restored %d elements, %d roots", restored.Store().Count(), len(got.Hierarchy))
	}
	if len(got.Artifacts) != 2 {
		t.Errorf("restored %d rendered artifacts, want 2", len(got.Artifacts))
	}
	legendText, err := restored.GetArtifact("legend.md")
	if err != nil || !strings.Contains(string(legendText), "Inbox. Heading.") {
		t.Errorf("restored legend = %q, %v", legendText, err)
	}

	if err := restored.LoadArtifacts(t.TempDir()); err == nil {
		t.Error("LoadArtifacts from an empty dir succeeded")
	}
}

func TestGetArtifact(t *testing.T) {
	eng := newTestEngine(t, config.Default())
	if _, err := eng.GetArtifact(MetaFile); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("GetArtifact before generation = %v, want ErrNoSnapshot", err)
	}

	eng.SetSnapshot(&model.Snapshot{
		Elements: []model.Element{{Label: "Done", Description: "Done."}},
		Insights: []model.Insight{},
	})

	data, err := eng.GetArtifact(ElementsFile)
	if err != nil || !strings.Contains(string(data), `"label":"Done"`) {
		t.Errorf("elements = %q, %v", data, err)
	}
	if data, err := eng.GetArtifact(InsightsFile); err != nil || string(data) != "[]" {
		t.Errorf("insights = %q, %v", data, err)
	}
	if _, err := eng.GetArtifact("nope.md"); err == nil {
		t.Error("unknown artifact found")
	}
}

// TestGenerateSnapshot_ConcurrentCallsSerialized verifies that the engine mutex
// keeps concurrent GenerateSnapshot calls from corrupting shared state.
func TestGenerateSnapshot_ConcurrentCallsSerialized(t *testing.T) {
	eng := newTestEngine(t, config.Default())
	source := writeScreen(t, inboxScreen)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = eng.GenerateSnapshot(context.Background(), source)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: %v", i, err)
		}
	}
	if eng.Store().Count() != 6 {
		t.Errorf("store has %d elements after concurrent runs, want 6", eng.Store().Count())
	}
}

func TestGenerateSnapshot_FailedRunKeepsPreviousState(t *testing.T) {
	cfg := config.Default()
	cfg.Loaders = append(cfg.Loaders, "ghost")
	eng := newTestEngine(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ghost := &cancelingLoader{cancel: cancel}
	eng.RegisterLoader(ghost)

	// Without a previous snapshot the store stays empty.
	if _, err := eng.GenerateSnapshot(ctx, "screen.ghost"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GenerateSnapshot = %v, want context.Canceled", err)
	}
	if eng.Snapshot() != nil || eng.Store().Count() != 0 {
		t.Errorf("failed run left snapshot %v and %d stored elements", eng.Snapshot(), eng.Store().Count())
	}

	previous, err := eng.GenerateSnapshot(context.Background(), writeScreen(t, inboxScreen))
	if err != nil {
		t.Fatalf("GenerateSnapshot: %v", err)
	}

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	ghost.cancel = cancel
	if _, err := eng.GenerateSnapshot(ctx, "screen.ghost"); err == nil {
		t.Fatal("canceled run succeeded")
	}
	if got := eng.Snapshot(); got == nil || got.Meta.ID != previous.Meta.ID {
		t.Errorf("snapshot replaced by a failed run: %v", got)
	}
	if eng.Store().Count() != 6 {
		t.Errorf("store has %d elements, want the previous 6", eng.Store().Count())
	}
	if ghosts, _ := eng.Store().Query(model.QueryOpts{Text: "ghost"}); len(ghosts) != 0 {
		t.Errorf("store serves elements from the failed run: %+v", ghosts)
	}
}
