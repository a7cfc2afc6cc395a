package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a location in the coordinate space of the inspected root.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset returns p translated by (dx, dy).
func (p Point) Offset(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) MinX() float64 { return math.Min(r.X, r.X+r.Width) }
func (r Rect) MaxX() float64 { return math.Max(r.X, r.X+r.Width) }
func (r Rect) MinY() float64 { return math.Min(r.Y, r.Y+r.Height) }
func (r Rect) MaxY() float64 { return math.Max(r.Y, r.Y+r.Height) }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.MinX() + r.MaxX()) / 2, Y: (r.MinY() + r.MaxY()) / 2}
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.MinX(), o.MinX())
	minY := math.Min(r.MinY(), o.MinY())
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsFinite reports whether every component is a finite number.
func (r Rect) IsFinite() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Path segment types.
const (
	SegmentMove      = "move"
	SegmentLine      = "line"
	SegmentQuadCurve = "quadCurve"
	SegmentCurve     = "curve"
	SegmentClose     = "close"
)

// PathSegment is one drawing instruction of a Path.
type PathSegment struct {
	Type     string `json:"type"`
	Point    *Point `json:"point,omitempty"`
	Control1 *Point `json:"control1,omitempty"`
	Control2 *Point `json:"control2,omitempty"`
}

// Path is an ordered list of drawing instructions describing a polygon or curve outline.
type Path struct {
	Segments []PathSegment `json:"segments"`
}

// Offset returns a copy of the path with every point translated by (dx, dy).
func (p *Path) Offset(dx, dy float64) *Path {
	if p == nil {
		return nil
	}
	out := &Path{Segments: make([]PathSegment, len(p.Segments))}
	shift := func(pt *Point) *Point {
		if pt == nil {
			return nil
		}
		moved := pt.Offset(dx, dy)
		return &moved
	}
	for i, s := range p.Segments {
		out.Segments[i] = PathSegment{
			Type:     s.Type,
			Point:    shift(s.Point),
			Control1: shift(s.Control1),
			Control2: shift(s.Control2),
		}
	}
	return out
}

// Bounds returns the bounding box of every point in the path, control points included.
func (p *Path) Bounds() Rect {
	var bounds Rect
	seen := false
	add := func(pt *Point) {
		if pt == nil {
			return
		}
		r := Rect{X: pt.X, Y: pt.Y}
		if !seen {
			bounds = r
			seen = true
			return
		}
		bounds = bounds.Union(r)
	}
	for _, s := range p.Segments {
		add(s.Point)
		add(s.Control1)
		add(s.Control2)
	}
	return bounds
}

// Shape is either a rectangular frame or a path, always in root coordinates.
type Shape struct {
	Frame *Rect
	Path  *Path
}

// FrameShape wraps a rectangle as a Shape.
func FrameShape(r Rect) Shape {
	return Shape{Frame: &r}
}

// PathShape wraps a path as a Shape.
func PathShape(p *Path) Shape {
	return Shape{Path: p}
}

// Bounds returns the rectangle covered by the shape.
func (s Shape) Bounds() Rect {
	if s.Path != nil {
		return s.Path.Bounds()
	}
	if s.Frame != nil {
		return *s.Frame
	}
	return Rect{}
}

type shapeJSON struct {
	Frame *Rect         `json:"frame,omitempty"`
	Path  []PathSegment `json:"path,omitempty"`
}

func (s Shape) MarshalJSON() ([]byte, error) {
	if s.Path != nil {
		segs := s.Path.Segments
		if segs == nil {
			segs = []PathSegment{}
		}
		return json.Marshal(struct {
			Path []PathSegment `json:"path"`
		}{segs})
	}
	return json.Marshal(shapeJSON{Frame: s.Frame})
}

func (s *Shape) UnmarshalJSON(data []byte) error {
	var raw struct {
		Frame *Rect            `json:"frame"`
		Path  *json.RawMessage `json:"path"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding shape: %w", err)
	}
	switch {
	case raw.Path != nil:
		var segs []PathSegment
		if err := json.Unmarshal(*raw.Path, &segs); err != nil {
			return fmt.Errorf("decoding path segments: %w", err)
		}
		if segs == nil {
			segs = []PathSegment{}
		}
		*s = Shape{Path: &Path{Segments: segs}}
	case raw.Frame != nil:
		*s = Shape{Frame: raw.Frame}
	default:
		*s = Shape{}
	}
	return nil
}
