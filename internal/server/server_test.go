package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dejo1307/a11ysnap/internal/config"
	"github.com/dejo1307/a11ysnap/internal/engine"
	"github.com/dejo1307/a11ysnap/internal/loaders/yamlsource"
	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/renderers/transcript"
)

// --- test helpers ---

// newTestServer creates a Server whose engine holds the given elements.
func newTestServer(t *testing.T, elements ...model.Element) *Server {
	t.Helper()
	cfg := config.Default()
	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	if elements != nil {
		eng.SetSnapshot(&model.Snapshot{Elements: elements})
	}
	s, err := New(eng, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func populatedElements() []model.Element {
	frame := model.Rect{X: 0, Y: 44, Width: 390, Height: 44}
	return []model.Element{
		{TraversalIndex: 0, Label: "Inbox", Traits: model.TraitHeader, Description: "Inbox. Heading."},
		{
			TraversalIndex:             1,
			Label:                      "Archive",
			Traits:                     model.TraitButton,
			Identifier:                 "archive",
			Description:                "Archive. Button.",
			AnnouncedHint:              "Moves the message out of the inbox.",
			Shape:                      model.FrameShape(frame),
			UsesDefaultActivationPoint: true,
			CustomActions:              []model.CustomAction{{Name: "Undo"}},
			ContainerContext:           model.SeriesContext(1, 2),
		},
		{
			TraversalIndex:   2,
			Label:            "Delete",
			Traits:           model.TraitButton,
			Description:      "Delete. Button.",
			Shape:            model.FrameShape(frame),
			ActivationPoint:  model.Point{X: 10, Y: 50},
			ContainerContext: model.SeriesContext(2, 2),
			CustomRotors: []model.CollectedRotor{{
				Name:          "Links",
				ResultMarkers: []model.RotorResultMarker{{ElementDescription: "Inbox."}},
				Limit:         model.UnderMax(3),
			}},
		},
	}
}

// --- tests ---

func TestQueryElements(t *testing.T) {
	s := newTestServer(t, populatedElements()...)

	tests := []struct {
		name      string
		args      queryElementsArgs
		wantIdx   []int
		wantPager bool
	}{
		{"by trait", queryElementsArgs{Trait: "button"}, []int{1, 2}, false},
		{"by identifier", queryElementsArgs{Identifier: "archive"}, []int{1}, false},
		{"by text", queryElementsArgs{Text: "inbox"}, []int{0}, false},
		{"by context", queryElementsArgs{ContextKind: "series"}, []int{1, 2}, false},
		{"no match", queryElementsArgs{Trait: "link"}, []int{}, false},
		{"paged", queryElementsArgs{Limit: 1, Offset: 1}, []int{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := s.queryElements(tt.args)
			if err != nil {
				t.Fatalf("queryElements: %v", err)
			}

			body, _, pager := strings.Cut(text, "\n\n...")
			var got []model.Element
			if err := json.Unmarshal([]byte(body), &got); err != nil {
				t.Fatalf("unmarshal %q: %v", body, err)
			}
			gotIdx := []int{}
			for _, el := range got {
				gotIdx = append(gotIdx, el.TraversalIndex)
			}
			if len(gotIdx) != len(tt.wantIdx) {
				t.Fatalf("got indices %v, want %v", gotIdx, tt.wantIdx)
			}
			for i := range gotIdx {
				if gotIdx[i] != tt.wantIdx[i] {
					t.Errorf("got indices %v, want %v", gotIdx, tt.wantIdx)
					break
				}
			}
			if pager != tt.wantPager {
				t.Errorf("pager shown = %v, want %v", pager, tt.wantPager)
			}
		})
	}
}

func TestQueryElements_PagerText(t *testing.T) {
	s := newTestServer(t, populatedElements()...)

	text, err := s.queryElements(queryElementsArgs{Limit: 2})
	if err != nil {
		t.Fatalf("queryElements: %v", err)
	}
	if !strings.Contains(text, "(showing 1-2 of 3 results, use offset to page)") {
		t.Errorf("missing pager in %q", text)
	}
}

func TestQueryElements_NoSnapshot(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.queryElements(queryElementsArgs{}); err == nil {
		t.Error("expected error without a snapshot")
	}
}

func TestShowElement(t *testing.T) {
	s := newTestServer(t, populatedElements()...)

	text, err := s.showElement(1)
	if err != nil {
		t.Fatalf("showElement: %v", err)
	}
	for _, want := range []string{
		"### #2 Archive. Button.",
		"Hint: Moves the message out of the inbox.",
		"Traits: button",
		"Identifier: archive",
		"Context: series 1 of 2",
		"Frame: (0, 44, 390 x 44)",
		"Action: Undo",
		"```json",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Activation point") {
		t.Error("default activation point should not be listed")
	}

	text, err = s.showElement(2)
	if err != nil {
		t.Fatalf("showElement: %v", err)
	}
	for _, want := range []string{"Activation point: (10, 50)", `Rotor "Links": 1 results, 3 more`} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestShowElement_Errors(t *testing.T) {
	if _, err := newTestServer(t).showElement(0); err == nil {
		t.Error("expected error without a snapshot")
	}

	s := newTestServer(t, populatedElements()...)
	for _, index := range []int{-1, 3} {
		if _, err := s.showElement(index); err == nil {
			t.Errorf("showElement(%d) succeeded", index)
		}
	}
}

func TestDescribeElement(t *testing.T) {
	s := newTestServer(t)
	row, column := 1, 0

	tests := []struct {
		name string
		args describeElementArgs
		want string
	}{
		{
			"button",
			describeElementArgs{Label: "Save", Traits: []string{"button"}},
			"Description: Save. Button.",
		},
		{
			"switch",
			describeElementArgs{Label: "Wi-Fi", Value: "1", Traits: []string{"button", "switchButton"}},
			"Description: Wi-Fi. Switch Button. On.",
		},
		{
			"tab",
			describeElementArgs{Label: "Search", Traits: []string{"button"}, ContextKind: "tab", Index: 2, Count: 2},
			"Description: Search. Button. Tab. 2 of 2.",
		},
		{
			"list start",
			describeElementArgs{Label: "One", ContextKind: "listStart"},
			"Description: One. List Start.",
		},
		{
			"hint",
			describeElementArgs{Label: "Save", Hint: "Saves your changes", Traits: []string{"button"}},
			"Description: Save. Button.\nHint: Saves your changes",
		},
		{
			"table cell",
			describeElementArgs{Label: "Alice", ContextKind: "dataTableCell", Row: &row, Column: &column},
			"Description: Alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.describeElement(tt.args)
			if err != nil {
				t.Fatalf("describeElement: %v", err)
			}
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("got %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestDescribeElement_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		args describeElementArgs
	}{
		{"unknown trait", describeElementArgs{Label: "x", Traits: []string{"sparkly"}}},
		{"unknown context", describeElementArgs{Label: "x", ContextKind: "carousel"}},
		{"index past count", describeElementArgs{Label: "x", ContextKind: "series", Index: 3, Count: 2}},
		{"zero index", describeElementArgs{Label: "x", ContextKind: "tabBarItem", Count: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.describeElement(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuildContext_TableCellDefaults(t *testing.T) {
	ctx, err := buildContext(describeElementArgs{ContextKind: "dataTableCell"})
	if err != nil {
		t.Fatalf("buildContext: %v", err)
	}
	if ctx.Row != model.NotFound || ctx.Column != model.NotFound {
		t.Errorf("row/column = %d/%d, want NotFound", ctx.Row, ctx.Column)
	}
	if ctx.RowSpan != 1 || ctx.ColumnSpan != 1 {
		t.Errorf("spans = %d/%d, want 1/1", ctx.RowSpan, ctx.ColumnSpan)
	}

	if ctx, err := buildContext(describeElementArgs{}); err != nil || ctx != nil {
		t.Errorf("empty kind = %v, %v; want nil, nil", ctx, err)
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "inbox.yaml")
	body := "children:\n" +
		"  - {kind: element, label: Inbox, traits: [header], frame: [0, 0, 390, 44]}\n" +
		"  - {kind: element, label: Archive, traits: [button], frame: [0, 44, 390, 44]}\n"
	if err := os.WriteFile(source, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Source = source
	cfg.Renderers = []string{"transcript"}
	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	eng.RegisterLoader(yamlsource.New())
	eng.RegisterRenderer(transcript.New())
	s, err := New(eng, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// An empty path falls back to the configured source.
	summary, err := s.generate(context.Background(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{"(yaml loader)", "- Elements: 2", "- Renderers: [transcript]"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, cfg.Output.Dir, "transcript.txt"))
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if got := string(data); got != "Inbox. Heading.\nArchive. Button.\n" {
		t.Errorf("transcript = %q", got)
	}

	if _, err := s.generate(context.Background(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("generate(missing) succeeded")
	}
}
