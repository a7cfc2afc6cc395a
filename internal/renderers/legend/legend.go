package legend

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dejo1307/a11ysnap/internal/model"
)

// LegendRenderer produces a markdown legend of a screen: what VoiceOver says
// for each element, in reading order.
type LegendRenderer struct {
	maxTokens int
}

// New creates a new LegendRenderer with the given token budget.
func New(maxTokens int) *LegendRenderer {
	if maxTokens <= 0 {
		maxTokens = 16000
	}
	return &LegendRenderer{maxTokens: maxTokens}
}

func (r *LegendRenderer) Name() string {
	return "legend"
}

// section holds a rendered section with its display name.
type section struct {
	name    string
	content string
}

// Render produces the legend.md artifact. Sections are ordered by priority;
// lower-priority sections are omitted first when the token budget is tight.
func (r *LegendRenderer) Render(ctx context.Context, snapshot *model.Snapshot) ([]model.Artifact, error) {
	sections := []section{
		{"Reading Order", r.renderReadingOrder(snapshot)},
		{"Findings", r.renderFindings(snapshot)},
		{"Containers", r.renderContainers(snapshot)},
		{"Custom Rotors", r.renderRotors(snapshot)},
		{"Actions and Content", r.renderActions(snapshot)},
		{"Meta", r.renderMeta(snapshot)},
	}

	header := "# Accessibility Legend\n\n"
	maxChars := r.maxTokens * 4 // rough estimate: 1 token ~= 4 chars
	remaining := maxChars - len(header)

	var sb strings.Builder
	sb.WriteString(header)

	for i, sec := range sections {
		if sec.content == "" {
			continue
		}
		if len(sec.content) <= remaining {
			sb.WriteString(sec.content)
			remaining -= len(sec.content)
			continue
		}
		if remaining > 200 {
			cut := strings.LastIndex(sec.content[:remaining-100], "\n")
			if cut < 0 {
				cut = remaining - 100
			}
			sb.WriteString(sec.content[:cut])
			fmt.Fprintf(&sb, "\n\n---\n*[Truncated in: %s]*\n", sec.name)
			break
		}
		var omitted []string
		for _, s := range sections[i:] {
			if s.content != "" {
				omitted = append(omitted, s.name)
			}
		}
		fmt.Fprintf(&sb, "\n\n---\n*[Omitted: %s]*\n", strings.Join(omitted, ", "))
		break
	}

	return []model.Artifact{
		{
			Name:    "legend.md",
			Content: []byte(sb.String()),
			Type:    "text/markdown",
		},
	}, nil
}

func (r *LegendRenderer) renderReadingOrder(snapshot *model.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("## Reading Order\n\n")

	if len(snapshot.Elements) == 0 {
		sb.WriteString("_No accessible elements._\n\n")
		return sb.String()
	}

	sb.WriteString("| # | Description | Hint | Traits | Context |\n")
	sb.WriteString("|---|-------------|------|--------|---------|\n")
	for _, el := range snapshot.Elements {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
			el.TraversalIndex+1,
			cell(el.Description),
			cell(el.AnnouncedHint),
			cell(strings.Join(el.Traits.Names(), ", ")),
			cell(contextSummary(el.ContainerContext)))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *LegendRenderer) renderFindings(snapshot *model.Snapshot) string {
	if len(snapshot.Insights) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Findings\n\n")
	for _, in := range snapshot.Insights {
		positions := make([]string, 0, len(in.Evidence))
		for _, e := range in.Evidence {
			positions = append(positions, fmt.Sprintf("#%d", e.TraversalIndex+1))
		}
		fmt.Fprintf(&sb, "- **%s** (%s): %s\n", in.Title, strings.Join(positions, ", "), in.Description)
		for _, action := range in.Actions {
			fmt.Fprintf(&sb, "  - %s\n", action)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *LegendRenderer) renderContainers(snapshot *model.Snapshot) string {
	if !slices.ContainsFunc(snapshot.Hierarchy, func(h model.Hierarchy) bool { return h.Container != nil }) {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Containers\n\n")
	for _, root := range snapshot.Hierarchy {
		root.Walk(func(node model.Hierarchy, depth int) {
			indent := strings.Repeat("  ", depth)
			switch {
			case node.Container != nil:
				fmt.Fprintf(&sb, "%s- %s\n", indent, containerSummary(node.Container))
			case node.Element != nil:
				fmt.Fprintf(&sb, "%s- #%d %s\n", indent, node.TraversalIndex+1, node.Element.Description)
			}
		})
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *LegendRenderer) renderRotors(snapshot *model.Snapshot) string {
	var sb strings.Builder
	for _, el := range snapshot.Elements {
		for _, rotor := range el.CustomRotors {
			fmt.Fprintf(&sb, "### %s (on #%d)\n\n", rotor.Name, el.TraversalIndex+1)
			for i, m := range rotor.ResultMarkers {
				text := m.ElementDescription
				if m.RangeDescription != "" {
					text = fmt.Sprintf("%q in %s", m.RangeDescription, text)
				}
				fmt.Fprintf(&sb, "%d. %s\n", i+1, text)
			}
			if more := rotor.Limit.String(); more != "" {
				fmt.Fprintf(&sb, "\n_%s_\n", more)
			}
			sb.WriteString("\n")
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return "## Custom Rotors\n\n" + sb.String()
}

func (r *LegendRenderer) renderActions(snapshot *model.Snapshot) string {
	var sb strings.Builder
	for _, el := range snapshot.Elements {
		if len(el.CustomActions) == 0 && len(el.CustomContent) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- #%d %s\n", el.TraversalIndex+1, el.Description)
		for _, a := range el.CustomActions {
			fmt.Fprintf(&sb, "  - action: %s\n", a.Name)
		}
		for _, c := range el.CustomContent {
			marker := ""
			if c.IsImportant {
				marker = " (important)"
			}
			fmt.Fprintf(&sb, "  - %s: %s%s\n", c.Label, c.Value, marker)
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return "## Actions and Content\n\n" + sb.String() + "\n"
}

func (r *LegendRenderer) renderMeta(snapshot *model.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "*Generated at %s in %s from %s (%s, %s, %s). %d elements, %d insights.*\n",
		snapshot.Meta.GeneratedAt, snapshot.Meta.Duration, snapshot.Meta.SourcePath,
		snapshot.Meta.Locale, snapshot.Meta.Idiom, snapshot.Meta.LayoutDirection,
		snapshot.Meta.ElementCount, snapshot.Meta.InsightCount)
	return sb.String()
}

// contextSummary renders a container context for the legend table.
func contextSummary(c *model.ContainerContext) string {
	if c == nil {
		return ""
	}
	switch c.Kind {
	case model.ContextSeries, model.ContextTab, model.ContextTabBarItem:
		return fmt.Sprintf("%s %d of %d", c.Kind, c.Index, c.Count)
	case model.ContextDataTableCell:
		var parts []string
		if c.Row != model.NotFound {
			parts = append(parts, fmt.Sprintf("row %d", c.Row+1))
		}
		if c.Column != model.NotFound {
			parts = append(parts, fmt.Sprintf("column %d", c.Column+1))
		}
		if len(parts) == 0 {
			return "cell"
		}
		return "cell " + strings.Join(parts, ", ")
	}
	return string(c.Kind)
}

func containerSummary(c *model.Container) string {
	switch c.Kind {
	case model.ContainerSemanticGroup:
		if c.Label != "" {
			return fmt.Sprintf("group %q", c.Label)
		}
		return "group"
	case model.ContainerDataTable:
		return fmt.Sprintf("table %dx%d", c.RowCount, c.ColumnCount)
	case model.ContainerTabBar:
		return "tab bar"
	}
	return string(c.Kind)
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
