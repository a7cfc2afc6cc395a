package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/dejo1307/a11ysnap/internal/audits"
	"github.com/dejo1307/a11ysnap/internal/config"
	"github.com/dejo1307/a11ysnap/internal/describe"
	"github.com/dejo1307/a11ysnap/internal/loaders"
	"github.com/dejo1307/a11ysnap/internal/localize"
	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/parser"
	"github.com/dejo1307/a11ysnap/internal/renderers"
	"github.com/dejo1307/a11ysnap/internal/source/fixture"
)

// Artifact file names written next to the renderer output.
const (
	ElementsFile  = "elements.jsonl"
	HierarchyFile = "hierarchy.json"
	InsightsFile  = "insights.json"
	MetaFile      = "snapshot.meta.json"
)

// ErrNoSnapshot is returned when an operation needs a generated snapshot.
var ErrNoSnapshot = errors.New("no snapshot generated")

// Engine orchestrates the snapshot generation pipeline.
type Engine struct {
	mu        sync.Mutex
	cfg       *config.Config
	loaders   *loaders.Registry
	audits    *audits.Registry
	renderers *renderers.Registry
	compiler  *describe.Compiler
	parser    *parser.Parser
	store     *model.Store
	snapshot  *model.Snapshot
}

// New creates a new Engine with the given config.
// Loaders, audits, and renderers must be registered after creation.
func New(cfg *config.Config) (*Engine, error) {
	table, err := localize.Builtin()
	if err != nil {
		return nil, fmt.Errorf("loading string tables: %w", err)
	}

	compiler := describe.New(table, CompilerOptions(cfg))
	return &Engine{
		cfg:       cfg,
		loaders:   loaders.NewRegistry(),
		audits:    audits.NewRegistry(),
		renderers: renderers.NewRegistry(),
		compiler:  compiler,
		parser:    parser.New(compiler, ParserOptions(cfg)),
		store:     model.NewStore(),
	}, nil
}

// CompilerOptions maps the parse section of cfg onto description options.
func CompilerOptions(cfg *config.Config) describe.Options {
	opts := describe.DefaultOptions()
	opts.DefaultLocale = localize.ParseLocale(cfg.Parse.Locale, language.English)
	opts.ReadsUnknownSwitchValues = !cfg.Parse.LegacySwitchValues

	switch cfg.Parse.Verbosity {
	case config.VerbosityMinimal:
		opts.Verbosity = describe.Minimal()
	case config.VerbosityCustom:
		inc := cfg.Parse.Include
		opts.Verbosity = describe.Verbosity{
			Traits:           inc.Traits,
			Hints:            inc.Hints,
			ContainerContext: inc.ContainerContext,
			TableContext:     inc.TableContext,
			Value:            inc.Value,
			CustomContent:    inc.CustomContent,
		}
	default:
		opts.Verbosity = describe.Verbose()
	}
	return opts
}

// ParserOptions maps the parse section of cfg onto traversal options.
func ParserOptions(cfg *config.Config) parser.Options {
	opts := parser.DefaultOptions()
	if cfg.Parse.Idiom != "" {
		opts.Idiom = parser.Idiom(cfg.Parse.Idiom)
	}
	if cfg.Parse.LayoutDirection != "" {
		opts.LayoutDirection = parser.LayoutDirection(cfg.Parse.LayoutDirection)
	}
	if cfg.Parse.RotorResultLimit > 0 {
		opts.RotorResultLimit = cfg.Parse.RotorResultLimit
	}
	return opts
}

// RegisterLoader adds a loader to the engine.
func (e *Engine) RegisterLoader(l loaders.Loader) {
	e.loaders.Register(l)
}

// RegisterAudit adds an audit to the engine.
func (e *Engine) RegisterAudit(a audits.Audit) {
	e.audits.Register(a)
}

// RegisterRenderer adds a renderer to the engine.
func (e *Engine) RegisterRenderer(rnd renderers.Renderer) {
	e.renderers.Register(rnd)
}

// Store returns the element store.
func (e *Engine) Store() *model.Store {
	return e.store
}

// Compiler returns the description compiler the engine parses with.
func (e *Engine) Compiler() *describe.Compiler {
	return e.compiler
}

// Snapshot returns the last generated snapshot, or nil.
func (e *Engine) Snapshot() *model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// SetSnapshot replaces the current snapshot and reloads the store from it.
func (e *Engine) SetSnapshot(s *model.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = s
	e.store.Clear()
	if s != nil {
		e.store.Add(s.Elements...)
	}
}

// Config returns the engine config.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// GenerateSnapshot runs the full pipeline: load -> parse -> audit -> render.
// Concurrent calls are serialized.
func (e *Engine) GenerateSnapshot(ctx context.Context, sourcePath string) (*model.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	if sourcePath == "" {
		sourcePath = e.cfg.Source
	}

	absSource, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("resolving source path: %w", err)
	}

	// 1. Load the screen description
	loader, err := e.selectLoader(absSource)
	if err != nil {
		return nil, err
	}
	log.Printf("[engine] loading %s with %s loader", absSource, loader.Name())
	spec, err := loader.Load(ctx, absSource)
	if err != nil {
		return nil, fmt.Errorf("loading: %w", err)
	}

	tree, err := fixture.Build(*spec)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}
	log.Printf("[engine] built %d nodes", tree.Count())

	// 2. Parse into reading order
	res, err := e.parser.Parse(tree.Root)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	// The engine store is only replaced once every step has succeeded.
	store := model.NewStore()
	store.Add(res.Elements...)
	log.Printf("[engine] parsed %d elements", store.Count())

	// 3. Run audits
	allInsights, usedAudits, err := e.runAudits(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("auditing: %w", err)
	}
	log.Printf("[engine] produced %d insights using %d audits", len(allInsights), len(usedAudits))

	// 4. Build snapshot
	parseOpts := e.parser.Options()
	duration := time.Since(start)
	snapshot := &model.Snapshot{
		Meta: model.SnapshotMeta{
			ID:              uuid.NewString(),
			SourcePath:      absSource,
			Loader:          loader.Name(),
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
			Duration:        duration.String(),
			Locale:          e.compiler.Options().DefaultLocale.String(),
			Idiom:           string(parseOpts.Idiom),
			LayoutDirection: string(parseOpts.LayoutDirection),
			Audits:          usedAudits,
			Renderers:       []string{},
			ElementCount:    len(res.Elements),
			ContainerCount:  countContainers(res.Hierarchy),
			RotorCount:      countRotors(res.Elements),
			InsightCount:    len(allInsights),
		},
		Elements:  res.Elements,
		Hierarchy: res.Hierarchy,
		Insights:  allInsights,
	}

	// 5. Run renderers
	usedRenderers, err := e.runRenderers(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	snapshot.Meta.Renderers = usedRenderers
	log.Printf("[engine] produced %d artifacts using %d renderers", len(snapshot.Artifacts), len(usedRenderers))

	e.store.Clear()
	e.store.Add(res.Elements...)
	e.snapshot = snapshot
	log.Printf("[engine] snapshot %s generated in %s", snapshot.Meta.ID, duration)
	return snapshot, nil
}

// selectLoader returns the first enabled loader that detects the source.
func (e *Engine) selectLoader(path string) (loaders.Loader, error) {
	for _, l := range e.loaders.All() {
		if !e.cfg.IsLoaderEnabled(l.Name()) {
			continue
		}
		ok, err := l.Detect(path)
		if err != nil {
			log.Printf("[engine] loader %s detect error: %v", l.Name(), err)
			continue
		}
		if ok {
			return l, nil
		}
	}
	return nil, fmt.Errorf("no enabled loader supports %s", path)
}

// runAudits runs all enabled audits against store.
func (e *Engine) runAudits(ctx context.Context, store *model.Store) ([]model.Insight, []string, error) {
	var allInsights []model.Insight
	usedNames := []string{}

	for _, a := range e.audits.All() {
		if !e.cfg.IsAuditEnabled(a.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		log.Printf("[engine] running audit: %s", a.Name())
		insights, err := a.Audit(ctx, store)
		if err != nil {
			log.Printf("[engine] audit %s error: %v", a.Name(), err)
			continue
		}

		allInsights = append(allInsights, insights...)
		usedNames = append(usedNames, a.Name())
		log.Printf("[engine] audit %s: produced %d insights", a.Name(), len(insights))
	}

	return allInsights, usedNames, nil
}

// runRenderers runs all enabled renderers.
func (e *Engine) runRenderers(ctx context.Context, snapshot *model.Snapshot) ([]string, error) {
	usedNames := []string{}

	for _, rnd := range e.renderers.All() {
		if !e.cfg.IsRendererEnabled(rnd.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Printf("[engine] running renderer: %s", rnd.Name())
		artifacts, err := rnd.Render(ctx, snapshot)
		if err != nil {
			log.Printf("[engine] renderer %s error: %v", rnd.Name(), err)
			continue
		}

		snapshot.Artifacts = append(snapshot.Artifacts, artifacts...)
		usedNames = append(usedNames, rnd.Name())
	}

	return usedNames, nil
}

// OutputDir returns the artifact directory for a source file: the
// configured output dir next to the source.
func (e *Engine) OutputDir(sourcePath string) string {
	return filepath.Join(filepath.Dir(sourcePath), e.cfg.Output.Dir)
}

// WriteArtifacts writes all snapshot artifacts to outDir, including
// elements.jsonl, hierarchy.json, insights.json, and snapshot.meta.json.
func (e *Engine) WriteArtifacts(outDir string) error {
	snapshot := e.Snapshot()
	if snapshot == nil {
		return ErrNoSnapshot
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	// Write renderer artifacts (e.g. legend.md)
	for _, a := range snapshot.Artifacts {
		path := filepath.Join(outDir, a.Name)
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.Name, err)
		}
		log.Printf("[engine] wrote %s (%d bytes)", path, len(a.Content))
	}

	elementsPath := filepath.Join(outDir, ElementsFile)
	if err := e.store.WriteJSONLFile(elementsPath); err != nil {
		return fmt.Errorf("writing %s: %w", ElementsFile, err)
	}
	log.Printf("[engine] wrote %s", elementsPath)

	for _, f := range []struct {
		name  string
		value any
	}{
		{HierarchyFile, snapshot.Hierarchy},
		{InsightsFile, snapshot.Insights},
		{MetaFile, snapshot.Meta},
	} {
		data, err := json.MarshalIndent(f.value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", f.name, err)
		}
		path := filepath.Join(outDir, f.name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		log.Printf("[engine] wrote %s (%d bytes)", path, len(data))
	}

	return nil
}

// LoadArtifacts restores a previously written snapshot from outDir so
// queries work without regenerating. Renderer artifacts are read back for
// every renderer that the stored meta lists.
func (e *Engine) LoadArtifacts(outDir string) error {
	snapshot := &model.Snapshot{}

	for _, f := range []struct {
		name   string
		target any
	}{
		{MetaFile, &snapshot.Meta},
		{HierarchyFile, &snapshot.Hierarchy},
		{InsightsFile, &snapshot.Insights},
	} {
		data, err := os.ReadFile(filepath.Join(outDir, f.name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.target); err != nil {
			return fmt.Errorf("parsing %s: %w", f.name, err)
		}
	}

	store := model.NewStore()
	if err := store.ReadJSONLFile(filepath.Join(outDir, ElementsFile)); err != nil {
		return fmt.Errorf("reading %s: %w", ElementsFile, err)
	}
	snapshot.Elements = store.All()

	for _, name := range renderedFiles(snapshot.Meta.Renderers) {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			log.Printf("[engine] warning: %s missing from %s", name, outDir)
			continue
		}
		snapshot.Artifacts = append(snapshot.Artifacts, model.Artifact{Name: name, Content: data, Type: artifactType(name)})
	}

	e.SetSnapshot(snapshot)
	log.Printf("[engine] loaded snapshot %s with %d elements from %s", snapshot.Meta.ID, len(snapshot.Elements), outDir)
	return nil
}

// GetArtifact returns the content of a named artifact, or the generated JSONL/JSON files.
func (e *Engine) GetArtifact(name string) ([]byte, error) {
	snapshot := e.Snapshot()
	if snapshot == nil {
		return nil, ErrNoSnapshot
	}

	switch name {
	case ElementsFile:
		var buf bytes.Buffer
		if err := e.store.WriteJSONL(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case HierarchyFile:
		return json.MarshalIndent(snapshot.Hierarchy, "", "  ")
	case InsightsFile:
		return json.MarshalIndent(snapshot.Insights, "", "  ")
	case MetaFile:
		return json.MarshalIndent(snapshot.Meta, "", "  ")
	default:
		for _, a := range snapshot.Artifacts {
			if a.Name == name {
				return a.Content, nil
			}
		}
		return nil, fmt.Errorf("artifact %q not found", name)
	}
}

// renderedFiles maps renderer names to the files they produce.
func renderedFiles(names []string) []string {
	files := map[string]string{
		"legend":     "legend.md",
		"transcript": "transcript.txt",
	}
	var out []string
	for _, n := range names {
		if f, ok := files[n]; ok {
			out = append(out, f)
		}
	}
	return out
}

func artifactType(name string) string {
	switch filepath.Ext(name) {
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	}
	return "text/plain"
}

func countContainers(roots []model.Hierarchy) int {
	n := 0
	for _, root := range roots {
		root.Walk(func(h model.Hierarchy, _ int) {
			if h.Container != nil {
				n++
			}
		})
	}
	return n
}

func countRotors(elements []model.Element) int {
	n := 0
	for _, el := range elements {
		n += len(el.CustomRotors)
	}
	return n
}
