package model

// NotFound marks an undefined row or column of a data-table cell.
const NotFound = -1

// ContextKind identifies the construct an element sits in.
type ContextKind string

const (
	ContextSeries        ContextKind = "series"
	ContextTabBarItem    ContextKind = "tabBarItem"
	ContextTab           ContextKind = "tab"
	ContextDataTableCell ContextKind = "dataTableCell"
	ContextListStart     ContextKind = "listStart"
	ContextListEnd       ContextKind = "listEnd"
	ContextLandmarkStart ContextKind = "landmarkStart"
	ContextLandmarkEnd   ContextKind = "landmarkEnd"
)

// ContainerContext describes an element's position within a grouping construct.
// Only the fields relevant to Kind are populated. A nil *ContainerContext means
// the element has no context.
type ContainerContext struct {
	Kind ContextKind `json:"kind"`

	// Series, TabBarItem, Tab. Index is one-based.
	Index int `json:"index,omitempty"`
	Count int `json:"count,omitempty"`

	// DataTableCell.
	Row           int      `json:"row,omitempty"`
	Column        int      `json:"column,omitempty"`
	RowSpan       int      `json:"rowSpan,omitempty"`
	ColumnSpan    int      `json:"columnSpan,omitempty"`
	IsFirstInRow  bool     `json:"isFirstInRow,omitempty"`
	RowHeaders    []string `json:"rowHeaders,omitempty"`
	ColumnHeaders []string `json:"columnHeaders,omitempty"`
}

func SeriesContext(index, count int) *ContainerContext {
	return &ContainerContext{Kind: ContextSeries, Index: index, Count: count}
}

func TabBarItemContext(index, count int) *ContainerContext {
	return &ContainerContext{Kind: ContextTabBarItem, Index: index, Count: count}
}

func TabContext(index, count int) *ContainerContext {
	return &ContainerContext{Kind: ContextTab, Index: index, Count: count}
}

// DataTableCellContext builds a table-cell context. row and column may be NotFound.
func DataTableCellContext(row, column, rowSpan, columnSpan int, isFirstInRow bool, rowHeaders, columnHeaders []string) *ContainerContext {
	return &ContainerContext{
		Kind:          ContextDataTableCell,
		Row:           row,
		Column:        column,
		RowSpan:       rowSpan,
		ColumnSpan:    columnSpan,
		IsFirstInRow:  isFirstInRow,
		RowHeaders:    rowHeaders,
		ColumnHeaders: columnHeaders,
	}
}

func ListStartContext() *ContainerContext { return &ContainerContext{Kind: ContextListStart} }
func ListEndContext() *ContainerContext { return &ContainerContext{Kind: ContextListEnd} }
func LandmarkStartContext() *ContainerContext { return &ContainerContext{Kind: ContextLandmarkStart} }
func LandmarkEndContext() *ContainerContext { return &ContainerContext{Kind: ContextLandmarkEnd} }

// IsPositional reports whether the context announces "N of M".
func (c *ContainerContext) IsPositional() bool {
	if c == nil {
		return false
	}
	switch c.Kind {
	case ContextSeries, ContextTabBarItem, ContextTab:
		return true
	}
	return false
}

// IsBoundary reports whether the context marks a list or landmark edge.
func (c *ContainerContext) IsBoundary() bool {
	if c == nil {
		return false
	}
	switch c.Kind {
	case ContextListStart, ContextListEnd, ContextLandmarkStart, ContextLandmarkEnd:
		return true
	}
	return false
}

// HidesButtonTrait reports whether VoiceOver drops "Button." for elements in this context.
func (c *ContainerContext) HidesButtonTrait() bool {
	return c != nil && c.Kind == ContextTab
}

// ShowsTabTrait reports whether the context implies the "Tab." trait.
func (c *ContainerContext) ShowsTabTrait() bool {
	return c != nil && (c.Kind == ContextTab || c.Kind == ContextTabBarItem)
}
