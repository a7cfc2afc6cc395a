package parser

import (
	"slices"

	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/source"
)

// tabButtonClasses are the class names of the buttons a tab strip renders.
var tabButtonClasses = []string{"UITabBarButton", "_UITabButton"}

// context resolves the container context of a leaf. An element reachable
// along more than one path keeps the context of the first.
func (p *pass) context(leaf node) *model.ContainerContext {
	if ctx, ok := p.contexts[leaf.object]; ok {
		return ctx
	}
	var ctx *model.ContainerContext
	if leaf.provider != nil {
		ctx = p.resolve(leaf.object, *leaf.provider)
	}
	p.contexts[leaf.object] = ctx
	return ctx
}

func (p *pass) resolve(element source.Node, provider contextProvider) *model.ContainerContext {
	switch provider.kind {
	case providerSuperview:
		return p.superviewContext(element, provider.object)
	case providerContainer:
		return containerContext(element, provider.object)
	case providerDataTable:
		table, ok := provider.object.(source.DataTable)
		if !ok {
			return nil
		}
		return dataTableContext(element, table)
	}
	return nil
}

func (p *pass) superviewContext(element, view source.Node) *model.ContainerContext {
	if strip, ok := view.(source.TabStrip); ok {
		count := strip.TabItemCount()
		index := slices.Index(tabButtons(strip), element)
		// A mismatched strip degrades to no context.
		if index < 0 || count <= 0 {
			return nil
		}
		return model.TabBarItemContext(index%count+1, count)
	}

	if view.Attributes().Traits.Has(model.TraitTabBar) {
		elements := p.tabElements(view)
		index := slices.Index(elements, element)
		if index < 0 {
			return nil
		}
		return model.TabContext(index+1, len(elements))
	}
	return nil
}

// tabButtons returns the rendered tab buttons below v in subview order.
func tabButtons(v source.View) []source.Node {
	var out []source.Node
	for _, sub := range v.Subviews() {
		view, ok := sub.(source.View)
		if !ok {
			continue
		}
		if slices.Contains(tabButtonClasses, view.ClassName()) {
			out = append(out, sub)
		}
		out = append(out, tabButtons(view)...)
	}
	return out
}

// tabElements returns the accessible descendants of view in reading order.
func (p *pass) tabElements(view source.Node) []source.Node {
	if elements, ok := p.tabViews[view]; ok {
		return elements
	}
	var elements []source.Node
	for _, leaf := range flatten(p.sortNodes(buildNodes(view, nil), false), nil) {
		elements = append(elements, leaf.object)
	}
	p.tabViews[view] = elements
	return elements
}

func containerContext(element, container source.Node) *model.ContainerContext {
	elements := container.AccessibilityElements()
	index := slices.Index(elements, element)
	if index < 0 {
		return nil
	}
	count := len(elements)

	if isSegmentedControl(container) {
		return model.SeriesContext(index+1, count)
	}
	if container.Attributes().Traits.Has(model.TraitTabBar) {
		return model.TabContext(index+1, count)
	}

	first, last := index == 0, index == count-1
	switch container.AccessibilityContainerType() {
	case model.ContainerTypeList:
		if first {
			return model.ListStartContext()
		}
		if last {
			return model.ListEndContext()
		}
	case model.ContainerTypeLandmark:
		if first {
			return model.LandmarkStartContext()
		}
		if last {
			return model.LandmarkEndContext()
		}
	}
	return nil
}

func dataTableContext(element source.Node, table source.DataTable) *model.ContainerContext {
	cell, ok := element.(source.DataTableCell)
	if !ok {
		return nil
	}
	row, column := cell.RowRange(), cell.ColumnRange()

	isFirstInRow := false
	if column.Defined() {
		isFirstInRow = true
		if row.Defined() {
			for c := 0; c < column.Location; c++ {
				if other := table.CellElement(row.Location, c); other != nil && other != element {
					isFirstInRow = false
					break
				}
			}
		}
	}

	var rowHeaders []string
	if isFirstInRow && row.Defined() {
		for _, header := range table.HeaderElementsForRow(row.Location) {
			if header == element || !isGenuineCell(table, header) {
				continue
			}
			if text := headerText(header); text != "" {
				rowHeaders = append(rowHeaders, text)
			}
		}
	}

	var columnHeaders []string
	if column.Defined() {
		for _, header := range table.HeaderElementsForColumn(column.Location) {
			if header == nil || header == element {
				continue
			}
			if isFirstInRow && row.Defined() && precedesInColumn(header, row.Location, column.Location) {
				continue
			}
			if text := headerText(header); text != "" {
				columnHeaders = append(columnHeaders, text)
			}
		}
	}

	rowIndex, columnIndex := model.NotFound, model.NotFound
	if row.Defined() {
		rowIndex = row.Location
	}
	if column.Defined() {
		columnIndex = column.Location
	}
	return model.DataTableCellContext(rowIndex, columnIndex, row.Length, column.Length, isFirstInRow, rowHeaders, columnHeaders)
}

// isGenuineCell reports whether the table resolves n's own coordinates to n.
func isGenuineCell(table source.DataTable, n source.Node) bool {
	cell, ok := n.(source.DataTableCell)
	if !ok {
		return false
	}
	row, column := cell.RowRange(), cell.ColumnRange()
	if !row.Defined() || !column.Defined() {
		return false
	}
	return table.CellElement(row.Location, column.Location) == n
}

// precedesInColumn reports whether header is the cell directly above (row, column).
func precedesInColumn(header source.Node, row, column int) bool {
	cell, ok := header.(source.DataTableCell)
	if !ok {
		return false
	}
	r, c := cell.RowRange(), cell.ColumnRange()
	if !r.Defined() || !c.Defined() {
		return false
	}
	end := r.Location + max(r.Length, 1)
	return end == row && c.Location <= column && column < c.Location+max(c.Length, 1)
}

func headerText(n source.Node) string {
	attrs := n.Attributes()
	switch {
	case attrs.Label != "" && attrs.Value != "":
		return attrs.Label + ": " + attrs.Value
	case attrs.Label != "":
		return attrs.Label
	default:
		return attrs.Value
	}
}
