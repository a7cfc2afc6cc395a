package parser

import (
	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/source"
)

// providerKind is how a context provider reached the element it describes.
type providerKind int

const (
	// providerSuperview: the element was reached through the provider's subviews.
	providerSuperview providerKind = iota
	// providerContainer: the element is in the provider's explicit element list.
	providerContainer
	// providerDataTable: the provider implements source.DataTable.
	providerDataTable
)

type contextProvider struct {
	kind   providerKind
	object source.Node
}

// node is either an element leaf (group == false) or a group of nodes.
type node struct {
	object   source.Node
	provider *contextProvider

	group             bool
	children          []node
	explicitlyOrdered bool
	// frameOverride, when set, is the node whose frame the group sorts by.
	frameOverride source.Node
	// declarer is the source node that produced the group.
	declarer source.Node
}

// buildNodes walks the source tree below n and returns its accessibility
// nodes in source order. provider is inherited from the nearest ancestor that
// provides context.
func buildNodes(n source.Node, provider *contextProvider) []node {
	if n == nil || n.AccessibilityElementsHidden() {
		return nil
	}
	view, isView := n.(source.View)
	if isView && (view.IsHidden() || view.Size().IsZero() || view.Alpha() <= 0) {
		return nil
	}

	if n.IsAccessibilityElement() {
		return []node{{object: n, provider: provider}}
	}

	if elements := n.AccessibilityElements(); elements != nil {
		childProvider := provider
		if p := containerProvider(n); p != nil {
			childProvider = p
		}
		var children []node
		for _, element := range elements {
			children = append(children, buildNodes(element, childProvider)...)
		}
		return []node{{
			group:             true,
			children:          children,
			explicitlyOrdered: true,
			frameOverride:     frameOverride(n, provider),
			declarer:          n,
		}}
	}

	if !isView {
		return nil
	}

	// The last modal subview hides its siblings.
	subviews := view.Subviews()
	for i := len(subviews) - 1; i >= 0; i-- {
		if subviews[i] != nil && subviews[i].AccessibilityViewIsModal() {
			subviews = subviews[i : i+1]
			break
		}
	}

	childProvider := provider
	if p := superviewProvider(view); p != nil {
		childProvider = p
	}
	var children []node
	for _, subview := range subviews {
		children = append(children, buildNodes(subview, childProvider)...)
	}

	if n.ShouldGroupAccessibilityChildren() {
		return []node{{
			group:    true,
			children: children,
			declarer: n,
		}}
	}
	return children
}

// containerProvider returns the provider a node offers to its explicit elements.
func containerProvider(n source.Node) *contextProvider {
	if _, ok := n.(source.DataTable); ok {
		return &contextProvider{kind: providerDataTable, object: n}
	}
	if isSegmentedControl(n) || n.Attributes().Traits.Has(model.TraitTabBar) {
		return &contextProvider{kind: providerContainer, object: n}
	}
	switch n.AccessibilityContainerType() {
	case model.ContainerTypeList, model.ContainerTypeLandmark:
		return &contextProvider{kind: providerContainer, object: n}
	}
	return nil
}

// superviewProvider returns the provider a view offers to its subviews.
func superviewProvider(v source.View) *contextProvider {
	if _, ok := v.(source.DataTable); ok {
		return &contextProvider{kind: providerDataTable, object: v}
	}
	if _, ok := v.(source.TabStrip); ok || v.Attributes().Traits.Has(model.TraitTabBar) {
		return &contextProvider{kind: providerSuperview, object: v}
	}
	return nil
}

// frameOverride returns the node an explicitly ordered group declared by n
// sorts by. Inside a generic view opting into tab semantics the group sorts
// as a unit at n's own position.
func frameOverride(n source.Node, provider *contextProvider) source.Node {
	if provider == nil || provider.kind != providerSuperview {
		return nil
	}
	if _, ok := provider.object.(source.TabStrip); ok {
		return nil
	}
	if provider.object.Attributes().Traits.Has(model.TraitTabBar) {
		return n
	}
	return nil
}

func isSegmentedControl(n source.Node) bool {
	s, ok := n.(source.SegmentedControl)
	return ok && s.IsSegmentedControl()
}

// flatten expands sorted nodes into reading order.
func flatten(nodes []node, out []node) []node {
	for _, n := range nodes {
		if n.group {
			out = flatten(n.children, out)
			continue
		}
		out = append(out, n)
	}
	return out
}
