package parser

import (
	"cmp"
	"math"
	"slices"

	"github.com/dejo1307/a11ysnap/internal/model"
)

// sortNodes orders sibling nodes the way VoiceOver reads them and recurses
// into groups. Explicitly ordered siblings keep their given order.
func (p *pass) sortNodes(nodes []node, explicitlyOrdered bool) []node {
	ordered := make([]node, len(nodes))
	copy(ordered, nodes)

	if !explicitlyOrdered {
		type framed struct {
			n     node
			frame model.Rect
		}
		items := make([]framed, len(ordered))
		for i, n := range ordered {
			items[i] = framed{n: n, frame: p.sortFrame(n)}
		}
		slices.SortStableFunc(items, func(a, b framed) int {
			return p.compareFrames(a.frame, b.frame)
		})
		for i, item := range items {
			ordered[i] = item.n
		}
	}

	for i := range ordered {
		if ordered[i].group {
			ordered[i].children = p.sortNodes(ordered[i].children, ordered[i].explicitlyOrdered)
		}
	}
	return ordered
}

// sortFrame is the rectangle a node sorts by. Paths never affect sorting.
func (p *pass) sortFrame(n node) model.Rect {
	if !n.group {
		return p.frame(n.object)
	}
	if n.frameOverride != nil {
		return p.frame(n.frameOverride)
	}
	var union model.Rect
	for i, child := range n.children {
		f := p.sortFrame(child)
		if i == 0 {
			union = f
			continue
		}
		union = union.Union(f)
	}
	return union
}

// compareFrames orders two frames top to bottom. Frames whose top edges are
// closer than the idiom's threshold count as one line and are ordered along
// the layout direction.
func (p *pass) compareFrames(a, b model.Rect) int {
	dy := a.MinY() - b.MinY()
	if math.Abs(dy) >= p.opts.Idiom.VerticalThreshold() {
		if dy < 0 {
			return -1
		}
		return 1
	}
	if p.opts.LayoutDirection == RightToLeft {
		return cmp.Compare(b.MaxX(), a.MaxX())
	}
	return cmp.Compare(a.MinX(), b.MinX())
}
