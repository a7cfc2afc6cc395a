package fixture

import (
	"fmt"

	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/source"
)

// DefaultScreen is the root frame used when the root Spec declares none.
var DefaultScreen = model.Rect{Width: 390, Height: 844}

// TabButtonClass is the class given to views placed directly in a tab strip.
const TabButtonClass = "UITabBarButton"

// Tree is a built fixture.
type Tree struct {
	Root  source.Node
	nodes map[string]source.Node
	count int
}

// Lookup returns the node declared with id.
func (t *Tree) Lookup(id string) (source.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int {
	return t.count
}

type builder struct {
	nodes map[string]source.Node
	// deferred resolves ID references once every node exists.
	deferred []func() error
	tables   []*DataTable
	count    int
}

// Build constructs the live tree described by root.
func Build(root Spec) (*Tree, error) {
	b := &builder{nodes: make(map[string]source.Node)}
	parent := DefaultScreen
	if len(root.Frame) > 0 {
		parent = model.Rect{}
	}
	n, err := b.build(&root, parent)
	if err != nil {
		return nil, err
	}
	for _, resolve := range b.deferred {
		if err := resolve(); err != nil {
			return nil, err
		}
	}
	for _, table := range b.tables {
		table.cells = collectCells(table, make(map[source.Node]bool), nil)
		table.rows, table.columns = gridSize(table.cells)
	}
	return &Tree{Root: n, nodes: b.nodes, count: b.count}, nil
}

func (b *builder) build(s *Spec, parent model.Rect) (source.Node, error) {
	b.count++
	kind := s.Kind
	if kind == "" {
		kind = KindView
	}

	c, err := b.core(s, kind, parent)
	if err != nil {
		return nil, err
	}

	children := make([]source.Node, 0, len(s.Children))
	for i := range s.Children {
		child := s.Children[i]
		if kind == KindTabStrip && child.Class == "" && (child.Kind == "" || child.Kind == KindView) {
			child.Class = TabButtonClass
		}
		n, err := b.build(&child, c.frame)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}

	ordered := s.Ordered || (s.Explicit == nil && (kind == KindSegmented || kind == KindDataTable))
	isView := kind != KindElement && kind != KindText
	if !isView && len(children) > 0 {
		ordered = true
	}
	if ordered && s.Explicit == nil {
		c.explicit = children
		c.explicitDeclared = true
	}

	var n source.Node
	switch kind {
	case KindElement, KindText:
		el := Element{core: c}
		switch {
		case kind == KindText:
			n = &TextInput{Element: el, text: []rune(s.Text)}
		case s.Row != nil || s.Column != nil:
			n = &Cell{Element: el, row: span(s.Row, s.RowSpan), column: span(s.Column, s.ColumnSpan), header: s.Header}
		default:
			n = &el
		}
	case KindView, KindTabStrip, KindSegmented, KindDataTable:
		v := View{core: c, class: s.Class, hidden: s.Hidden, alpha: 1}
		if s.Alpha != nil {
			v.alpha = *s.Alpha
		}
		if isView {
			v.subviews = children
		}
		switch kind {
		case KindTabStrip:
			if v.class == "" {
				v.class = "UITabBar"
			}
			items := s.Items
			if items == 0 {
				items = len(children)
			}
			n = &TabStrip{View: v, items: items}
		case KindSegmented:
			if v.class == "" {
				v.class = "UISegmentedControl"
			}
			n = &Segmented{View: v}
		case KindDataTable:
			if v.class == "" {
				v.class = "UICollectionView"
			}
			table := &DataTable{View: v}
			b.tables = append(b.tables, table)
			n = table
		default:
			if v.class == "" {
				v.class = "UIView"
			}
			n = &v
		}
	default:
		return nil, fmt.Errorf("node %q: unknown kind %q", s.ID, kind)
	}

	if s.ID != "" {
		if _, dup := b.nodes[s.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", s.ID)
		}
		b.nodes[s.ID] = n
	}

	if s.Explicit != nil {
		b.deferred = append(b.deferred, b.resolveExplicit(n, s))
	}
	if len(s.Rotors) > 0 {
		b.deferred = append(b.deferred, b.resolveRotors(n, s))
	}
	return n, nil
}

// core translates the shared Spec fields. The returned core is copied into
// the concrete node, so ID references are resolved against the node later.
func (b *builder) core(s *Spec, kind Kind, parent model.Rect) (core, error) {
	traits, err := model.ParseTraits(s.Traits)
	if err != nil {
		return core{}, fmt.Errorf("node %q: %w", s.ID, err)
	}

	frame, err := resolveFrame(s.Frame, parent)
	if err != nil {
		return core{}, fmt.Errorf("node %q: %w", s.ID, err)
	}

	accessible := kind == KindElement || kind == KindText
	if s.Accessible != nil {
		accessible = *s.Accessible
	}
	interactive := traits.HasAny(model.TraitButton | model.TraitLink | model.TraitAdjustable | model.TraitTextEntry)
	if s.Interactive != nil {
		interactive = *s.Interactive
	}

	c := core{
		id:             s.ID,
		accessible:     accessible,
		elementsHidden: s.ElementsHidden,
		group:          s.GroupChildren,
		modal:          s.Modal,
		containerType:  model.ContainerType(s.ContainerType),
		frame:          frame,
		activation:     frame.Center(),
		attrs: source.Attributes{
			Label:                     s.Label,
			Value:                     s.Value,
			Hint:                      s.Hint,
			Traits:                    traits,
			Identifier:                s.Identifier,
			UserInputLabels:           s.UserInputLabels,
			Language:                  s.Language,
			RespondsToUserInteraction: interactive,
		},
	}
	if kind == KindDataTable && c.containerType == model.ContainerTypeNone {
		c.containerType = model.ContainerTypeDataTable
	}

	if len(s.ActivationPoint) > 0 {
		if len(s.ActivationPoint) != 2 {
			return core{}, fmt.Errorf("node %q: activation_point needs 2 values, got %d", s.ID, len(s.ActivationPoint))
		}
		c.activation = model.Point{X: frame.X + s.ActivationPoint[0], Y: frame.Y + s.ActivationPoint[1]}
	}
	if len(s.Path) > 0 {
		path, err := buildPath(s.Path, frame)
		if err != nil {
			return core{}, fmt.Errorf("node %q: %w", s.ID, err)
		}
		c.path = path
	}
	for _, a := range s.CustomActions {
		c.attrs.CustomActions = append(c.attrs.CustomActions, model.CustomAction{Name: a.Name, Icon: a.Icon})
	}
	for _, content := range s.CustomContent {
		c.attrs.CustomContent = append(c.attrs.CustomContent, model.CustomContent{
			Label:       content.Label,
			Value:       content.Value,
			IsImportant: content.Important,
		})
	}
	return c, nil
}

func (b *builder) resolveExplicit(n source.Node, s *Spec) func() error {
	ids := s.Explicit
	return func() error {
		elements := make([]source.Node, 0, len(ids))
		for _, id := range ids {
			target, ok := b.nodes[id]
			if !ok {
				return fmt.Errorf("node %q: explicit element %q not found", s.ID, id)
			}
			elements = append(elements, target)
		}
		c := coreOf(n)
		c.explicit = elements
		c.explicitDeclared = true
		return nil
	}
}

func (b *builder) resolveRotors(n source.Node, s *Spec) func() error {
	specs := s.Rotors
	return func() error {
		c := coreOf(n)
		for _, rs := range specs {
			r := &listRotor{name: rs.Name, wrap: rs.Wrap}
			for _, ts := range rs.Targets {
				target, ok := b.nodes[ts.ID]
				if !ok {
					return fmt.Errorf("node %q: rotor %q target %q not found", s.ID, rs.Name, ts.ID)
				}
				item := source.RotorItem{Target: target}
				if len(ts.Range) > 0 {
					if len(ts.Range) != 2 {
						return fmt.Errorf("node %q: rotor %q target %q: range needs 2 values", s.ID, rs.Name, ts.ID)
					}
					item.Range = &model.TextRange{Location: ts.Range[0], Length: ts.Range[1]}
				}
				r.items = append(r.items, item)
			}
			c.attrs.CustomRotors = append(c.attrs.CustomRotors, r)
		}
		return nil
	}
}

// coreOf returns the shared state of a node built by this package.
func coreOf(n source.Node) *core {
	switch v := n.(type) {
	case *Element:
		return &v.core
	case *Cell:
		return &v.core
	case *TextInput:
		return &v.core
	case *View:
		return &v.core
	case *TabStrip:
		return &v.core
	case *Segmented:
		return &v.core
	case *DataTable:
		return &v.core
	}
	panic(fmt.Sprintf("fixture: foreign node %T", n))
}

func resolveFrame(values []float64, parent model.Rect) (model.Rect, error) {
	if len(values) == 0 {
		return parent, nil
	}
	if len(values) != 4 {
		return model.Rect{}, fmt.Errorf("frame needs 4 values [x, y, width, height], got %d", len(values))
	}
	return model.Rect{
		X:      parent.X + values[0],
		Y:      parent.Y + values[1],
		Width:  values[2],
		Height: values[3],
	}, nil
}

var segmentPoints = map[string]int{
	model.SegmentMove:      1,
	model.SegmentLine:      1,
	model.SegmentQuadCurve: 2,
	model.SegmentCurve:     3,
	model.SegmentClose:     0,
}

func buildPath(segments []Segment, origin model.Rect) (*model.Path, error) {
	path := &model.Path{}
	for i, seg := range segments {
		want, ok := segmentPoints[seg.Op]
		if !ok {
			return nil, fmt.Errorf("path segment %d: unknown op %q", i, seg.Op)
		}
		if len(seg.Points) != want {
			return nil, fmt.Errorf("path segment %d (%s): needs %d points, got %d", i, seg.Op, want, len(seg.Points))
		}
		points := make([]*model.Point, want)
		for j, p := range seg.Points {
			if len(p) != 2 {
				return nil, fmt.Errorf("path segment %d: point %d needs 2 values", i, j)
			}
			points[j] = &model.Point{X: origin.X + p[0], Y: origin.Y + p[1]}
		}
		out := model.PathSegment{Type: seg.Op}
		if want > 0 {
			out.Point = points[0]
		}
		if want > 1 {
			out.Control1 = points[1]
		}
		if want > 2 {
			out.Control2 = points[2]
		}
		path.Segments = append(path.Segments, out)
	}
	return path, nil
}

func span(location *int, length int) source.Range {
	if location == nil {
		return source.Range{Location: model.NotFound}
	}
	return source.Range{Location: *location, Length: max(length, 1)}
}

// collectCells gathers the cells reachable below n through subviews and
// explicit element lists.
func collectCells(n source.Node, seen map[source.Node]bool, out []*Cell) []*Cell {
	if seen[n] {
		return out
	}
	seen[n] = true
	if cell, ok := n.(*Cell); ok {
		out = append(out, cell)
	}
	for _, child := range n.AccessibilityElements() {
		out = collectCells(child, seen, out)
	}
	if v, ok := n.(source.View); ok {
		for _, child := range v.Subviews() {
			out = collectCells(child, seen, out)
		}
	}
	return out
}

func gridSize(cells []*Cell) (rows, columns int) {
	for _, c := range cells {
		if c.row.Defined() {
			rows = max(rows, c.row.Location+c.row.Length)
		}
		if c.column.Defined() {
			columns = max(columns, c.column.Location+c.column.Length)
		}
	}
	return rows, columns
}
