// Package source defines the capabilities a host UI tree exposes to the parser.
//
// The parser only consumes these interfaces and never inspects concrete
// types. Adapters implement them per host widget kind. Implementations must
// be comparable (pointer-backed): node identity is interface equality.
package source

import "github.com/dejo1307/a11ysnap/internal/model"

// Node is any object in the host tree: a view or a plain accessibility element.
type Node interface {
	IsAccessibilityElement() bool
	AccessibilityElementsHidden() bool
	// AccessibilityElements returns the explicitly ordered sub-elements, or nil
	// when the node does not declare any. An empty non-nil slice is a
	// declaration of no elements.
	AccessibilityElements() []Node
	ShouldGroupAccessibilityChildren() bool
	AccessibilityViewIsModal() bool
	AccessibilityContainerType() model.ContainerType
	Attributes() Attributes
	// AccessibilityFrame is in screen coordinates.
	AccessibilityFrame() model.Rect
	// AccessibilityPath is in screen coordinates, or nil.
	AccessibilityPath() *model.Path
	// AccessibilityActivationPoint is in screen coordinates.
	AccessibilityActivationPoint() model.Point
}

// Attributes are the primitive accessibility properties of a node.
type Attributes struct {
	Label                     string
	Value                     string
	Hint                      string
	Traits                    model.Traits
	Identifier                string
	UserInputLabels           []string
	CustomActions             []model.CustomAction
	CustomContent             []model.CustomContent
	CustomRotors              []Rotor
	Language                  string
	RespondsToUserInteraction bool
}

// View is a node that participates in the subview hierarchy.
type View interface {
	Node
	IsHidden() bool
	Alpha() float64
	Size() model.Size
	Subviews() []Node
	ClassName() string
}

// TabStrip is a genuine tab bar control.
type TabStrip interface {
	View
	// TabItemCount is the number of declared tab items. Rendered tab buttons
	// may outnumber it when the control duplicates its button set.
	TabItemCount() int
}

// SegmentedControl is a widget whose elements form a series.
type SegmentedControl interface {
	Node
	IsSegmentedControl() bool
}

// Range is a location/length pair. Location is model.NotFound when undefined.
type Range struct {
	Location int
	Length   int
}

// Defined reports whether the range has a location.
func (r Range) Defined() bool {
	return r.Location != model.NotFound
}

// DataTable is a container exposing its elements as a grid.
type DataTable interface {
	Node
	AccessibilityRowCount() int
	AccessibilityColumnCount() int
	// CellElement returns the cell covering (row, column), or nil.
	CellElement(row, column int) Node
	HeaderElementsForRow(row int) []Node
	HeaderElementsForColumn(column int) []Node
}

// DataTableCell is an element positioned inside a DataTable.
type DataTableCell interface {
	Node
	RowRange() Range
	ColumnRange() Range
}

// TextInput exposes text content addressed by ranges.
type TextInput interface {
	Node
	TextInRange(r model.TextRange) (string, bool)
}
