package parser

import (
	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/source"
)

// hierarchy rebuilds the sorted node forest as a container outline. Groups
// whose declaring node has a container role become container nodes; other
// groups are spliced into their parent. next is the running traversal index.
func (p *pass) hierarchy(nodes []node, elements []model.Element, next *int) []model.Hierarchy {
	var out []model.Hierarchy
	for _, n := range nodes {
		if !n.group {
			index := *next
			*next++
			el := elements[index]
			out = append(out, model.Hierarchy{Element: &el, TraversalIndex: index})
			continue
		}

		children := p.hierarchy(n.children, elements, next)
		if c := p.container(n.declarer); c != nil {
			out = append(out, model.Hierarchy{Container: c, Children: children})
			continue
		}
		out = append(out, children...)
	}
	return out
}

// container describes n as a hierarchy container, or returns nil when n has
// no container role.
func (p *pass) container(n source.Node) *model.Container {
	if n == nil {
		return nil
	}
	c := &model.Container{Frame: p.frame(n)}

	if table, ok := n.(source.DataTable); ok {
		c.Kind = model.ContainerDataTable
		c.RowCount = table.AccessibilityRowCount()
		c.ColumnCount = table.AccessibilityColumnCount()
		return c
	}

	switch n.AccessibilityContainerType() {
	case model.ContainerTypeSemanticGroup:
		attrs := n.Attributes()
		c.Kind = model.ContainerSemanticGroup
		c.Label = attrs.Label
		c.Value = attrs.Value
		c.Identifier = attrs.Identifier
	case model.ContainerTypeList:
		c.Kind = model.ContainerList
	case model.ContainerTypeLandmark:
		c.Kind = model.ContainerLandmark
	case model.ContainerTypeDataTable:
		c.Kind = model.ContainerDataTable
	default:
		if _, ok := n.(source.TabStrip); ok || n.Attributes().Traits.Has(model.TraitTabBar) {
			c.Kind = model.ContainerTabBar
			return c
		}
		return nil
	}
	return c
}
