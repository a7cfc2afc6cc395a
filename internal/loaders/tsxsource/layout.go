package tsxsource

import (
	"github.com/dejo1307/a11ysnap/internal/source/fixture"
)

const (
	screenWidth  = 390
	screenHeight = 844
	rowHeight    = 44
)

// jsxNode is a converted element before layout.
type jsxNode struct {
	s        fixture.Spec
	comp     component
	width    float64
	height   float64
	children []*jsxNode
}

// spec returns the fixture tree rooted at n.
func (n *jsxNode) spec() fixture.Spec {
	s := n.s
	s.Children = nil
	for _, child := range n.children {
		s.Children = append(s.Children, child.spec())
	}
	return s
}

// layoutRoot places the tree on a phone sized screen. The root grows past
// the screen height when its content does.
func (n *jsxNode) layoutRoot() {
	if len(n.s.Frame) == 4 {
		n.layoutChildren(n.s.Frame[2])
		return
	}
	width := float64(screenWidth)
	if n.width > 0 {
		width = n.width
	}
	height := n.layoutChildren(width)
	if n.height > 0 {
		height = n.height
	}
	n.s.Frame = []float64{0, 0, width, max(height, screenHeight)}
}

// layout positions n at (x, y) within a parent of the given width and
// returns the height it occupies in the flow. Nodes with an explicit frame
// are positioned absolutely and occupy nothing.
func (n *jsxNode) layout(x, y, width float64) float64 {
	if len(n.s.Frame) == 4 {
		n.layoutChildren(n.s.Frame[2])
		return 0
	}
	if n.width > 0 {
		width = n.width
	}
	height := n.layoutChildren(width)
	if n.height > 0 {
		height = n.height
	}
	if height == 0 {
		height = rowHeight
	}
	n.s.Frame = []float64{x, y, width, height}
	return height
}

// layoutChildren positions the children inside a box of the given width and
// returns their content height.
func (n *jsxNode) layoutChildren(width float64) float64 {
	if n.s.Kind == fixture.KindDataTable {
		return n.layoutGrid(width)
	}

	var flow []*jsxNode
	for _, child := range n.children {
		if len(child.s.Frame) == 4 {
			child.layoutChildren(child.s.Frame[2])
			continue
		}
		flow = append(flow, child)
	}
	if len(flow) == 0 {
		return 0
	}

	if n.comp.row {
		each := width / float64(len(flow))
		var x, height float64
		for _, child := range flow {
			w := each
			if child.width > 0 {
				w = child.width
			}
			height = max(height, child.layout(x, 0, w))
			x += w
		}
		return height
	}

	var y float64
	for _, child := range flow {
		y += child.layout(0, y, width)
	}
	return y
}

// layoutGrid places table cells by their row and column. Cells without
// coordinates flow below the grid.
func (n *jsxNode) layoutGrid(width float64) float64 {
	columns := 1
	rows := 0
	for _, child := range n.children {
		if child.s.Column != nil {
			columns = max(columns, *child.s.Column+max(child.s.ColumnSpan, 1))
		}
		if child.s.Row != nil {
			rows = max(rows, *child.s.Row+max(child.s.RowSpan, 1))
		}
	}
	cellWidth := width / float64(columns)

	y := float64(rows * rowHeight)
	for _, child := range n.children {
		switch {
		case len(child.s.Frame) == 4:
			child.layoutChildren(child.s.Frame[2])
		case child.s.Row != nil:
			column := 0
			if child.s.Column != nil {
				column = *child.s.Column
			}
			child.s.Frame = []float64{
				float64(column) * cellWidth,
				float64(*child.s.Row * rowHeight),
				cellWidth * float64(max(child.s.ColumnSpan, 1)),
				float64(rowHeight * max(child.s.RowSpan, 1)),
			}
			child.layoutChildren(child.s.Frame[2])
		default:
			y += child.layout(0, y, width)
		}
	}
	return y
}
