package model

// ContainerType is the accessibility container type a node declares.
type ContainerType string

const (
	ContainerTypeNone          ContainerType = ""
	ContainerTypeSemanticGroup ContainerType = "semanticGroup"
	ContainerTypeList          ContainerType = "list"
	ContainerTypeLandmark      ContainerType = "landmark"
	ContainerTypeDataTable     ContainerType = "dataTable"
)

// ContainerKind identifies a container shown in the hierarchy outline.
type ContainerKind string

const (
	ContainerSemanticGroup ContainerKind = "semanticGroup"
	ContainerList          ContainerKind = "list"
	ContainerLandmark      ContainerKind = "landmark"
	ContainerDataTable     ContainerKind = "dataTable"
	ContainerTabBar        ContainerKind = "tabBar"
)

// Container is a grouping construct surfaced for visualization.
type Container struct {
	Kind ContainerKind `json:"kind"`

	// SemanticGroup.
	Label      string `json:"label,omitempty"`
	Value      string `json:"value,omitempty"`
	Identifier string `json:"identifier,omitempty"`

	// DataTable.
	RowCount    int `json:"rowCount,omitempty"`
	ColumnCount int `json:"columnCount,omitempty"`

	Frame Rect `json:"frame"`
}

// Hierarchy is one node of the container outline: either an element leaf
// (Element set) or a container with children.
type Hierarchy struct {
	Element        *Element    `json:"element,omitempty"`
	TraversalIndex int         `json:"traversalIndex,omitempty"`
	Container      *Container  `json:"container,omitempty"`
	Children       []Hierarchy `json:"children,omitempty"`
}

// Walk visits h and its descendants depth-first. depth is 0 for h.
func (h Hierarchy) Walk(fn func(node Hierarchy, depth int)) {
	h.walk(fn, 0)
}

func (h Hierarchy) walk(fn func(Hierarchy, int), depth int) {
	fn(h, depth)
	for _, c := range h.Children {
		c.walk(fn, depth+1)
	}
}
