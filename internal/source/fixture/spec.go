// Package fixture builds live source trees from declarative descriptions.
//
// A Spec tree is what the YAML and TSX loaders produce; Build turns it into
// source.Node values implementing every capability the parser probes for.
package fixture

// Kind selects the capability set of a node.
type Kind string

const (
	KindView      Kind = "view"
	KindElement   Kind = "element"
	KindText      Kind = "text"
	KindTabStrip  Kind = "tab_strip"
	KindSegmented Kind = "segmented"
	KindDataTable Kind = "data_table"
)

// Spec declares one node and its subtree. Frames, paths and activation
// points are relative to the parent's origin.
type Spec struct {
	ID    string `yaml:"id,omitempty"`
	Kind  Kind   `yaml:"kind,omitempty"`
	Class string `yaml:"class,omitempty"`

	// Accessible defaults to true for element and text kinds.
	Accessible     *bool     `yaml:"accessible,omitempty"`
	Hidden         bool      `yaml:"hidden,omitempty"`
	Alpha          *float64  `yaml:"alpha,omitempty"`
	Frame          []float64 `yaml:"frame,omitempty,flow"`
	Path           []Segment `yaml:"path,omitempty"`
	ElementsHidden bool      `yaml:"elements_hidden,omitempty"`
	GroupChildren  bool      `yaml:"group_children,omitempty"`
	Modal          bool      `yaml:"modal,omitempty"`
	// Ordered declares the children as the node's explicit element list.
	Ordered bool `yaml:"ordered,omitempty"`
	// Explicit declares an explicit element list by node ID. An empty,
	// non-nil list declares no elements.
	Explicit      []string `yaml:"explicit,omitempty,flow"`
	ContainerType string   `yaml:"container_type,omitempty"`

	Label           string        `yaml:"label,omitempty"`
	Value           string        `yaml:"value,omitempty"`
	Hint            string        `yaml:"hint,omitempty"`
	Identifier      string        `yaml:"identifier,omitempty"`
	Language        string        `yaml:"language,omitempty"`
	Traits          []string      `yaml:"traits,omitempty,flow"`
	UserInputLabels []string      `yaml:"user_input_labels,omitempty"`
	ActivationPoint []float64     `yaml:"activation_point,omitempty,flow"`
	CustomActions   []ActionSpec  `yaml:"custom_actions,omitempty"`
	CustomContent   []ContentSpec `yaml:"custom_content,omitempty"`
	// Interactive defaults to true when the node has the button, link,
	// adjustable or text entry trait.
	Interactive *bool `yaml:"interactive,omitempty"`

	// Data table cells.
	Row        *int   `yaml:"row,omitempty"`
	Column     *int   `yaml:"column,omitempty"`
	RowSpan    int    `yaml:"row_span,omitempty"`
	ColumnSpan int    `yaml:"column_span,omitempty"`
	Header     string `yaml:"header,omitempty"`

	// Tab strips.
	Items int `yaml:"items,omitempty"`

	// Text inputs.
	Text string `yaml:"text,omitempty"`

	Rotors   []RotorSpec `yaml:"rotors,omitempty"`
	Children []Spec      `yaml:"children,omitempty"`
}

// Segment is one path instruction. Points holds the end point first, then
// control points.
type Segment struct {
	Op     string      `yaml:"op"`
	Points [][]float64 `yaml:"points,omitempty,flow"`
}

type ActionSpec struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon,omitempty"`
}

type ContentSpec struct {
	Label     string `yaml:"label"`
	Value     string `yaml:"value,omitempty"`
	Important bool   `yaml:"important,omitempty"`
}

// RotorSpec declares a custom rotor over nodes of the same tree.
type RotorSpec struct {
	Name    string       `yaml:"name"`
	Targets []TargetSpec `yaml:"targets"`
	// Wrap makes the rotor cycle past either end.
	Wrap bool `yaml:"wrap,omitempty"`
}

// TargetSpec names a rotor result. Range is [location, length].
type TargetSpec struct {
	ID    string `yaml:"id"`
	Range []int  `yaml:"range,omitempty,flow"`
}

// Walk visits s and its descendants depth-first.
func (s *Spec) Walk(fn func(*Spec)) {
	fn(s)
	for i := range s.Children {
		s.Children[i].Walk(fn)
	}
}
