package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dejo1307/a11ysnap/internal/config"
	"github.com/dejo1307/a11ysnap/internal/describe"
	"github.com/dejo1307/a11ysnap/internal/engine"
	"github.com/dejo1307/a11ysnap/internal/model"
)

// Server wraps the MCP server and connects it to the snapshot engine.
type Server struct {
	mcp *mcp.Server
	eng *engine.Engine
	cfg *config.Config
}

// New creates a new MCP server wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config) (*Server, error) {
	s := &Server{
		eng: eng,
		cfg: cfg,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "a11ysnap",
		Version: "0.1.0",
	}, nil)

	s.mcp = mcpServer
	s.registerResources()
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[server] starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// snapshotResource maps a resource URI onto an engine artifact.
type snapshotResource struct {
	uri         string
	name        string
	description string
	artifact    string
	mimeType    string
}

var snapshotResources = []snapshotResource{
	{
		uri:         "a11y://snapshot/legend",
		name:        "Accessibility Legend",
		description: "Reading order, findings, containers and rotors of the last snapshot as markdown",
		artifact:    "legend.md",
		mimeType:    "text/markdown",
	},
	{
		uri:         "a11y://snapshot/transcript",
		name:        "VoiceOver Transcript",
		description: "What VoiceOver announces for each element, one line per swipe",
		artifact:    "transcript.txt",
		mimeType:    "text/plain",
	},
	{
		uri:         "a11y://snapshot/elements",
		name:        "Accessibility Elements",
		description: "All accessibility elements in reading order in JSONL format",
		artifact:    engine.ElementsFile,
		mimeType:    "application/jsonl",
	},
	{
		uri:         "a11y://snapshot/hierarchy",
		name:        "Accessibility Hierarchy",
		description: "Elements nested under the containers VoiceOver reports",
		artifact:    engine.HierarchyFile,
		mimeType:    "application/json",
	},
	{
		uri:         "a11y://snapshot/insights",
		name:        "Accessibility Insights",
		description: "Audit findings for the last snapshot",
		artifact:    engine.InsightsFile,
		mimeType:    "application/json",
	},
	{
		uri:         "a11y://snapshot/meta",
		name:        "Snapshot Metadata",
		description: "Metadata about the last snapshot generation",
		artifact:    engine.MetaFile,
		mimeType:    "application/json",
	},
}

// registerResources adds MCP resources for snapshot artifacts.
func (s *Server) registerResources() {
	for _, r := range snapshotResources {
		s.mcp.AddResource(&mcp.Resource{
			URI:         r.uri,
			Name:        r.name,
			Description: r.description,
			MIMEType:    r.mimeType,
		}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			content, err := s.eng.GetArtifact(r.artifact)
			if err != nil {
				return nil, fmt.Errorf("no snapshot available: %w (run generate_snapshot first)", err)
			}
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: req.Params.URI, Text: string(content), MIMEType: r.mimeType},
				},
			}, nil
		})
	}
}

// generateSnapshotArgs are the arguments for the generate_snapshot tool.
type generateSnapshotArgs struct {
	SourcePath string `json:"source_path,omitempty" jsonschema:"Path to the screen description (.yaml, .yml, .tsx or .jsx). Defaults to the configured source."`
}

// queryElementsArgs are the arguments for the query_elements tool.
type queryElementsArgs struct {
	Trait       string `json:"trait,omitempty" jsonschema:"Filter by trait name, e.g. button, header, adjustable"`
	Identifier  string `json:"identifier,omitempty" jsonschema:"Filter by accessibility identifier (exact)"`
	Text        string `json:"text,omitempty" jsonschema:"Case-insensitive substring of the description, label, value or hint"`
	ContextKind string `json:"context_kind,omitempty" jsonschema:"Filter by container context: series, tabBarItem, tab, dataTableCell, listStart, listEnd, landmarkStart or landmarkEnd"`
	Offset      int    `json:"offset,omitempty" jsonschema:"Number of results to skip"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 100, max 500)"`
}

// showElementArgs are the arguments for the show_element tool.
type showElementArgs struct {
	TraversalIndex int `json:"traversal_index" jsonschema:"required,Zero-based position of the element in reading order"`
}

// describeElementArgs are the arguments for the describe_element tool.
type describeElementArgs struct {
	Label         string   `json:"label,omitempty" jsonschema:"Accessibility label"`
	Value         string   `json:"value,omitempty" jsonschema:"Accessibility value"`
	Hint          string   `json:"hint,omitempty" jsonschema:"Accessibility hint"`
	Traits        []string `json:"traits,omitempty" jsonschema:"Trait names, e.g. button, selected, switchButton"`
	Language      string   `json:"language,omitempty" jsonschema:"Language the element speaks in, e.g. de or fr-CA"`
	ContextKind   string   `json:"context_kind,omitempty" jsonschema:"Container context: series, tabBarItem, tab, dataTableCell, listStart, listEnd, landmarkStart or landmarkEnd"`
	Index         int      `json:"index,omitempty" jsonschema:"One-based position for series, tabBarItem and tab contexts"`
	Count         int      `json:"count,omitempty" jsonschema:"Item count for series, tabBarItem and tab contexts"`
	Row           *int     `json:"row,omitempty" jsonschema:"Zero-based row for dataTableCell"`
	Column        *int     `json:"column,omitempty" jsonschema:"Zero-based column for dataTableCell"`
	FirstInRow    bool     `json:"first_in_row,omitempty" jsonschema:"Whether the cell is the first VoiceOver reaches in its row"`
	RowHeaders    []string `json:"row_headers,omitempty" jsonschema:"Row header descriptions for dataTableCell"`
	ColumnHeaders []string `json:"column_headers,omitempty" jsonschema:"Column header descriptions for dataTableCell"`
}

// registerTools adds MCP tools for snapshot generation and element querying.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_snapshot",
		Description: "Generate an accessibility snapshot of a screen. Builds the accessibility tree, orders it the way VoiceOver reads it, compiles every announcement, runs audits and writes the artifacts next to the source.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args generateSnapshotArgs) (*mcp.CallToolResult, any, error) {
		summary, err := s.generate(ctx, args.SourcePath)
		if err != nil {
			return errorResult(fmt.Sprintf("snapshot generation failed: %v", err)), nil, nil
		}
		return textResult(summary), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "query_elements",
		Description: "Query the accessibility elements of the last snapshot by trait, identifier, text or container context. Returns matching elements as JSON in reading order.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args queryElementsArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.queryElements(args)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "show_element",
		Description: "Show one element of the last snapshot: what VoiceOver announces, its container context, actions, rotors and full JSON record.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args showElementArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.showElement(args.TraversalIndex)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "describe_element",
		Description: "Compile the VoiceOver announcement for an element from its label, value, hint, traits and container context, without generating a snapshot.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args describeElementArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.describeElement(args)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})
}

// generate runs the pipeline for sourcePath and writes the artifacts.
func (s *Server) generate(ctx context.Context, sourcePath string) (string, error) {
	if sourcePath == "" {
		sourcePath = s.cfg.Source
	}

	snapshot, err := s.eng.GenerateSnapshot(ctx, sourcePath)
	if err != nil {
		return "", err
	}

	outDir := s.eng.OutputDir(snapshot.Meta.SourcePath)
	if err := s.eng.WriteArtifacts(outDir); err != nil {
		log.Printf("[server] warning: failed to write artifacts: %v", err)
	}

	meta := snapshot.Meta
	return fmt.Sprintf(
		"Snapshot generated successfully.\n\n"+
			"- Source: %s (%s loader)\n"+
			"- Elements: %d\n"+
			"- Containers: %d\n"+
			"- Custom rotors: %d\n"+
			"- Insights: %d\n"+
			"- Artifacts: %d in %s\n"+
			"- Duration: %s\n"+
			"- Audits: %v\n"+
			"- Renderers: %v\n\n"+
			"Use the a11y://snapshot/legend resource to read the reading order.",
		meta.SourcePath, meta.Loader,
		meta.ElementCount,
		meta.ContainerCount,
		meta.RotorCount,
		meta.InsightCount,
		len(snapshot.Artifacts), outDir,
		meta.Duration,
		meta.Audits,
		meta.Renderers,
	), nil
}

func (s *Server) queryElements(args queryElementsArgs) (string, error) {
	store := s.eng.Store()
	if store.Count() == 0 {
		return "", errors.New("No elements available. Run generate_snapshot first.")
	}

	results, total := store.Query(model.QueryOpts{
		Trait:       args.Trait,
		Identifier:  args.Identifier,
		Text:        args.Text,
		ContextKind: args.ContextKind,
		Offset:      args.Offset,
		Limit:       args.Limit,
	})
	if results == nil {
		results = []model.Element{}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	text := string(data)
	if shown := args.Offset + len(results); shown < total || args.Offset > 0 {
		text += fmt.Sprintf("\n\n... (showing %d-%d of %d results, use offset to page)",
			min(args.Offset+1, total), min(shown, total), total)
	}
	return text, nil
}

func (s *Server) showElement(index int) (string, error) {
	if s.eng.Snapshot() == nil {
		return "", errors.New("No snapshot available. Run generate_snapshot first.")
	}
	el, ok := s.eng.Store().At(index)
	if !ok {
		return "", fmt.Errorf("No element at traversal index %d (snapshot has %d)", index, s.eng.Store().Count())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### #%d %s\n", el.TraversalIndex+1, el.Description)
	if el.AnnouncedHint != "" {
		fmt.Fprintf(&sb, "Hint: %s\n", el.AnnouncedHint)
	}
	if el.Traits != 0 {
		fmt.Fprintf(&sb, "Traits: %s\n", el.Traits)
	}
	if el.Identifier != "" {
		fmt.Fprintf(&sb, "Identifier: %s\n", el.Identifier)
	}
	if c := el.ContainerContext; c != nil {
		fmt.Fprintf(&sb, "Context: %s\n", describeContext(c))
	}
	fmt.Fprintf(&sb, "Frame: %s\n", formatRect(el.Shape.Bounds()))
	if !el.UsesDefaultActivationPoint {
		fmt.Fprintf(&sb, "Activation point: (%g, %g)\n", el.ActivationPoint.X, el.ActivationPoint.Y)
	}
	for _, a := range el.CustomActions {
		fmt.Fprintf(&sb, "Action: %s\n", a.Name)
	}
	for _, r := range el.CustomRotors {
		fmt.Fprintf(&sb, "Rotor %q: %d results", r.Name, len(r.ResultMarkers))
		if more := r.Limit.String(); more != "" {
			fmt.Fprintf(&sb, ", %s", more)
		}
		sb.WriteString("\n")
	}

	data, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal element: %w", err)
	}
	fmt.Fprintf(&sb, "\n```json\n%s\n```\n", data)
	return sb.String(), nil
}

func (s *Server) describeElement(args describeElementArgs) (string, error) {
	traits, err := model.ParseTraits(args.Traits)
	if err != nil {
		return "", err
	}
	ctx, err := buildContext(args)
	if err != nil {
		return "", err
	}

	desc, hint := s.eng.Compiler().Compile(describe.Input{
		Label:    args.Label,
		Value:    args.Value,
		Hint:     args.Hint,
		Traits:   traits,
		Language: args.Language,
	}, ctx)

	text := "Description: " + desc
	if hint != "" {
		text += "\nHint: " + hint
	}
	return text, nil
}

// buildContext turns the describe_element arguments into a container context.
func buildContext(args describeElementArgs) (*model.ContainerContext, error) {
	switch kind := model.ContextKind(args.ContextKind); kind {
	case "":
		return nil, nil
	case model.ContextSeries, model.ContextTabBarItem, model.ContextTab:
		if args.Index < 1 || args.Count < args.Index {
			return nil, fmt.Errorf("%s context needs 1 <= index <= count, got %d of %d", kind, args.Index, args.Count)
		}
		return &model.ContainerContext{Kind: kind, Index: args.Index, Count: args.Count}, nil
	case model.ContextDataTableCell:
		row, column := model.NotFound, model.NotFound
		if args.Row != nil {
			row = *args.Row
		}
		if args.Column != nil {
			column = *args.Column
		}
		return model.DataTableCellContext(row, column, 1, 1, args.FirstInRow, args.RowHeaders, args.ColumnHeaders), nil
	case model.ContextListStart, model.ContextListEnd, model.ContextLandmarkStart, model.ContextLandmarkEnd:
		return &model.ContainerContext{Kind: kind}, nil
	default:
		return nil, fmt.Errorf("unknown context kind %q", args.ContextKind)
	}
}

func describeContext(c *model.ContainerContext) string {
	switch c.Kind {
	case model.ContextSeries, model.ContextTabBarItem, model.ContextTab:
		return fmt.Sprintf("%s %d of %d", c.Kind, c.Index, c.Count)
	case model.ContextDataTableCell:
		s := fmt.Sprintf("cell row %d, column %d", c.Row+1, c.Column+1)
		if len(c.RowHeaders) > 0 {
			s += ", row headers " + strings.Join(c.RowHeaders, " / ")
		}
		if len(c.ColumnHeaders) > 0 {
			s += ", column headers " + strings.Join(c.ColumnHeaders, " / ")
		}
		return s
	}
	return string(c.Kind)
}

func formatRect(r model.Rect) string {
	return fmt.Sprintf("(%g, %g, %g x %g)", r.X, r.Y, r.Width, r.Height)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
