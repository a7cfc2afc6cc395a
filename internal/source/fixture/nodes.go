package fixture

import (
	"slices"

	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/source"
)

// core carries the state every node kind shares.
type core struct {
	id               string
	accessible       bool
	elementsHidden   bool
	group            bool
	modal            bool
	explicit         []source.Node
	explicitDeclared bool
	containerType    model.ContainerType
	attrs            source.Attributes
	frame            model.Rect
	path             *model.Path
	activation       model.Point
}

func (c *core) IsAccessibilityElement() bool { return c.accessible }
func (c *core) AccessibilityElementsHidden() bool { return c.elementsHidden }
func (c *core) ShouldGroupAccessibilityChildren() bool {
	return c.group
}
func (c *core) AccessibilityViewIsModal() bool { return c.modal }
func (c *core) AccessibilityContainerType() model.ContainerType {
	return c.containerType
}
func (c *core) Attributes() source.Attributes { return c.attrs }
func (c *core) AccessibilityFrame() model.Rect { return c.frame }
func (c *core) AccessibilityPath() *model.Path { return c.path }
func (c *core) AccessibilityActivationPoint() model.Point { return c.activation }

func (c *core) AccessibilityElements() []source.Node {
	if !c.explicitDeclared {
		return nil
	}
	if c.explicit == nil {
		return []source.Node{}
	}
	return c.explicit
}

// ID returns the fixture ID of the node.
func (c *core) ID() string { return c.id }

// Element is a plain accessibility element outside the view hierarchy.
type Element struct {
	core
}

// Cell is an element positioned in a data table.
type Cell struct {
	Element
	row, column source.Range
	header      string
}

func (c *Cell) RowRange() source.Range { return c.row }
func (c *Cell) ColumnRange() source.Range { return c.column }

func (c *Cell) covers(row, column int) bool {
	return inRange(c.row, row) && inRange(c.column, column)
}

func inRange(r source.Range, i int) bool {
	return r.Defined() && r.Location <= i && i < r.Location+max(r.Length, 1)
}

// TextInput is an element exposing text by range.
type TextInput struct {
	Element
	text []rune
}

func (t *TextInput) TextInRange(r model.TextRange) (string, bool) {
	if r.Location < 0 || r.Length < 0 || r.Location+r.Length > len(t.text) {
		return "", false
	}
	return string(t.text[r.Location : r.Location+r.Length]), true
}

// View is a node in the subview hierarchy.
type View struct {
	core
	class    string
	hidden   bool
	alpha    float64
	subviews []source.Node
}

func (v *View) IsHidden() bool { return v.hidden }
func (v *View) Alpha() float64 { return v.alpha }
func (v *View) Size() model.Size { return v.frame.Size() }
func (v *View) Subviews() []source.Node { return v.subviews }
func (v *View) ClassName() string { return v.class }

// TabStrip is a tab bar control.
type TabStrip struct {
	View
	items int
}

func (t *TabStrip) TabItemCount() int { return t.items }

// Segmented is a segmented control.
type Segmented struct {
	View
}

func (s *Segmented) IsSegmentedControl() bool { return true }

// DataTable is a grid of Cells.
type DataTable struct {
	View
	rows, columns int
	cells         []*Cell
}

func (t *DataTable) AccessibilityRowCount() int { return t.rows }
func (t *DataTable) AccessibilityColumnCount() int { return t.columns }

func (t *DataTable) CellElement(row, column int) source.Node {
	for _, c := range t.cells {
		if c.covers(row, column) {
			return c
		}
	}
	return nil
}

func (t *DataTable) HeaderElementsForRow(row int) []source.Node {
	var out []source.Node
	for _, c := range t.cells {
		if c.header == "row" && inRange(c.row, row) {
			out = append(out, c)
		}
	}
	return out
}

func (t *DataTable) HeaderElementsForColumn(column int) []source.Node {
	var out []source.Node
	for _, c := range t.cells {
		if c.header == "column" && inRange(c.column, column) {
			out = append(out, c)
		}
	}
	return out
}

// listRotor steps through a fixed result list.
type listRotor struct {
	name  string
	items []source.RotorItem
	wrap  bool
}

func (r *listRotor) Name() string { return r.name }

func (r *listRotor) Search(current source.RotorItem, direction source.Direction) (source.RotorItem, bool) {
	if len(r.items) == 0 {
		return source.RotorItem{}, false
	}
	key := current.Key()
	index := slices.IndexFunc(r.items, func(item source.RotorItem) bool { return item.Key() == key })

	var next int
	switch {
	case index < 0 && direction == source.Next:
		next = 0
	case index < 0:
		next = len(r.items) - 1
	case direction == source.Next:
		next = index + 1
	default:
		next = index - 1
	}
	if next < 0 || next >= len(r.items) {
		if !r.wrap {
			return source.RotorItem{}, false
		}
		next = (next + len(r.items)) % len(r.items)
	}
	return r.items[next], true
}
