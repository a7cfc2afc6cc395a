// Package parser turns a source tree into the ordered, described element list
// VoiceOver would traverse.
package parser

import (
	"errors"
	"fmt"

	"github.com/dejo1307/a11ysnap/internal/describe"
	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/rotor"
	"github.com/dejo1307/a11ysnap/internal/source"
)

var (
	// ErrNilRoot is returned when Parse is given no root node.
	ErrNilRoot = errors.New("parser: nil root")
	// ErrUnrenderable is returned when the root's frame cannot be used as a
	// coordinate space.
	ErrUnrenderable = errors.New("parser: root frame is not finite")
)

// Idiom is the device class the tree is laid out for.
type Idiom string

const (
	IdiomPhone Idiom = "phone"
	IdiomPad   Idiom = "pad"
	IdiomTV    Idiom = "tv"
	IdiomMac   Idiom = "mac"
)

// VerticalThreshold is the minimum top-edge distance, in points, at which two
// frames are read on separate lines.
func (i Idiom) VerticalThreshold() float64 {
	if i == IdiomPhone || i == "" {
		return 8
	}
	return 13
}

// LayoutDirection is the horizontal reading direction.
type LayoutDirection string

const (
	LeftToRight LayoutDirection = "ltr"
	RightToLeft LayoutDirection = "rtl"
)

// Options configure a Parser.
type Options struct {
	Idiom           Idiom
	LayoutDirection LayoutDirection
	// RotorResultLimit caps custom rotor results per direction.
	RotorResultLimit int
}

// DefaultOptions returns phone, left-to-right, 10 rotor results per direction.
func DefaultOptions() Options {
	return Options{
		Idiom:            IdiomPhone,
		LayoutDirection:  LeftToRight,
		RotorResultLimit: rotor.DefaultLimit,
	}
}

// Parser is safe for concurrent use; each Parse call keeps its own state.
type Parser struct {
	compiler *describe.Compiler
	opts     Options
}

// New creates a Parser. A nil compiler uses English defaults.
func New(compiler *describe.Compiler, opts Options) *Parser {
	if compiler == nil {
		compiler = describe.New(nil, describe.DefaultOptions())
	}
	if opts.Idiom == "" {
		opts.Idiom = IdiomPhone
	}
	if opts.LayoutDirection == "" {
		opts.LayoutDirection = LeftToRight
	}
	if opts.RotorResultLimit <= 0 {
		opts.RotorResultLimit = rotor.DefaultLimit
	}
	return &Parser{compiler: compiler, opts: opts}
}

// Options returns the parser configuration.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse walks root and returns its elements in reading order along with the
// container hierarchy. Coordinates are relative to root's frame.
func (p *Parser) Parse(root source.Node) (*model.ParseResult, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	frame := root.AccessibilityFrame()
	if !frame.IsFinite() {
		return nil, fmt.Errorf("%w: %v", ErrUnrenderable, frame)
	}

	ps := &pass{
		Parser:   p,
		dx:       -frame.X,
		dy:       -frame.Y,
		contexts: make(map[source.Node]*model.ContainerContext),
		tabViews: make(map[source.Node][]source.Node),
	}

	sorted := ps.sortNodes(buildNodes(root, nil), false)
	leaves := flatten(sorted, nil)

	elements := make([]model.Element, len(leaves))
	for i, leaf := range leaves {
		elements[i] = ps.element(leaf, i)
	}

	next := 0
	hierarchy := ps.hierarchy(sorted, elements, &next)

	return &model.ParseResult{Elements: elements, Hierarchy: hierarchy}, nil
}

// pass holds the state of one Parse call.
type pass struct {
	*Parser
	dx, dy float64

	// contexts memoizes each element's context; the first path wins.
	contexts map[source.Node]*model.ContainerContext
	// tabViews memoizes the sorted accessible descendants of tab-bar views.
	tabViews map[source.Node][]source.Node
}

func (p *pass) frame(n source.Node) model.Rect {
	return n.AccessibilityFrame().Offset(p.dx, p.dy)
}

func (p *pass) shape(n source.Node) model.Shape {
	if path := n.AccessibilityPath(); path != nil && len(path.Segments) > 0 {
		return model.PathShape(path.Offset(p.dx, p.dy))
	}
	return model.FrameShape(p.frame(n))
}

func (p *pass) element(leaf node, index int) model.Element {
	n := leaf.object
	attrs := n.Attributes()
	ctx := p.context(leaf)
	description, hint := p.compiler.Compile(compileInput(attrs), ctx)

	activation := n.AccessibilityActivationPoint()
	return model.Element{
		Label:                      attrs.Label,
		Value:                      attrs.Value,
		Hint:                       attrs.Hint,
		Traits:                     attrs.Traits,
		Identifier:                 attrs.Identifier,
		UserInputLabels:            attrs.UserInputLabels,
		Shape:                      p.shape(n),
		ActivationPoint:            activation.Offset(p.dx, p.dy),
		UsesDefaultActivationPoint: activation == n.AccessibilityFrame().Center(),
		CustomActions:              attrs.CustomActions,
		CustomContent:              attrs.CustomContent,
		CustomRotors:               p.rotors(attrs.CustomRotors),
		Language:                   attrs.Language,
		RespondsToUserInteraction:  attrs.RespondsToUserInteraction,
		ContainerContext:           ctx,
		Description:                description,
		AnnouncedHint:              hint,
		TraversalIndex:             index,
	}
}

func (p *pass) rotors(rotors []source.Rotor) []model.CollectedRotor {
	var out []model.CollectedRotor
	for _, r := range rotors {
		if r == nil {
			continue
		}
		result := rotor.Collect(r, p.opts.RotorResultLimit)
		collected := model.CollectedRotor{
			Name:          r.Name(),
			ResultMarkers: make([]model.RotorResultMarker, 0, len(result.Items)),
			Limit:         result.Limit,
		}
		for _, item := range result.Items {
			collected.ResultMarkers = append(collected.ResultMarkers, p.marker(item))
		}
		out = append(out, collected)
	}
	return out
}

func (p *pass) marker(item source.RotorItem) model.RotorResultMarker {
	target := item.Target
	description, _ := p.compiler.Compile(compileInput(target.Attributes()), nil)
	shape := p.shape(target)
	marker := model.RotorResultMarker{ElementDescription: description, Shape: &shape}
	if input, ok := target.(source.TextInput); ok && item.Range != nil {
		if text, ok := input.TextInRange(*item.Range); ok {
			marker.RangeDescription = text
		}
	}
	return marker
}

func compileInput(attrs source.Attributes) describe.Input {
	return describe.Input{
		Label:         attrs.Label,
		Value:         attrs.Value,
		Hint:          attrs.Hint,
		Traits:        attrs.Traits,
		CustomContent: attrs.CustomContent,
		Language:      attrs.Language,
	}
}
