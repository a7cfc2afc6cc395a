package model

import "fmt"

// CustomAction is a named action exposed by an element.
type CustomAction struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// CustomContent is an extra label/value pair exposed by an element.
type CustomContent struct {
	Label       string `json:"label"`
	Value       string `json:"value,omitempty"`
	IsImportant bool   `json:"isImportant,omitempty"`
}

// Element is an immutable snapshot of one accessible element, captured in
// final reading order.
type Element struct {
	Label                      string            `json:"label,omitempty"`
	Value                      string            `json:"value,omitempty"`
	Hint                       string            `json:"hint,omitempty"`
	Traits                     Traits            `json:"traits"`
	Identifier                 string            `json:"identifier,omitempty"`
	UserInputLabels            []string          `json:"userInputLabels,omitempty"`
	Shape                      Shape             `json:"shape"`
	ActivationPoint            Point             `json:"activationPoint"`
	UsesDefaultActivationPoint bool              `json:"usesDefaultActivationPoint"`
	CustomActions              []CustomAction    `json:"customActions,omitempty"`
	CustomContent              []CustomContent   `json:"customContent,omitempty"`
	CustomRotors               []CollectedRotor  `json:"customRotors,omitempty"`
	Language                   string            `json:"language,omitempty"`
	RespondsToUserInteraction  bool              `json:"respondsToUserInteraction"`
	ContainerContext           *ContainerContext `json:"containerContext,omitempty"`

	// Description and AnnouncedHint are what VoiceOver speaks.
	Description   string `json:"description"`
	AnnouncedHint string `json:"announcedHint,omitempty"`

	TraversalIndex int `json:"traversalIndex"`
}

// RotorLimitKind classifies how many rotor results exist beyond the collected ones.
type RotorLimitKind string

const (
	LimitNone           RotorLimitKind = "none"
	LimitUnderMax       RotorLimitKind = "underMax"
	LimitGreaterThanMax RotorLimitKind = "greaterThanMax"
)

// MaxRotorCount bounds the secondary count of additional rotor results.
const MaxRotorCount = 99

// RotorLimit is the count-limit indicator of a collected rotor.
type RotorLimit struct {
	Kind  RotorLimitKind `json:"kind"`
	Count int            `json:"count,omitempty"`
}

func NoLimit() RotorLimit { return RotorLimit{Kind: LimitNone} }
func UnderMax(n int) RotorLimit { return RotorLimit{Kind: LimitUnderMax, Count: n} }
func GreaterThanMax() RotorLimit { return RotorLimit{Kind: LimitGreaterThanMax} }
func (l RotorLimit) IsNone() bool { return l.Kind == LimitNone || l.Kind == "" }

// Combine merges the limits of two scan directions.
func (l RotorLimit) Combine(o RotorLimit) RotorLimit {
	switch {
	case l.Kind == LimitGreaterThanMax || o.Kind == LimitGreaterThanMax:
		return GreaterThanMax()
	case l.IsNone() && o.IsNone():
		return NoLimit()
	case l.IsNone():
		return o
	case o.IsNone():
		return l
	}
	if sum := l.Count + o.Count; sum <= MaxRotorCount {
		return UnderMax(sum)
	}
	return GreaterThanMax()
}

func (l RotorLimit) String() string {
	switch l.Kind {
	case LimitUnderMax:
		return fmt.Sprintf("%d more", l.Count)
	case LimitGreaterThanMax:
		return fmt.Sprintf("%d+ more", MaxRotorCount)
	}
	return ""
}

// RotorResultMarker is one result of a custom rotor.
type RotorResultMarker struct {
	ElementDescription string `json:"elementDescription"`
	RangeDescription   string `json:"rangeDescription,omitempty"`
	Shape              *Shape `json:"shape,omitempty"`
}

// CollectedRotor is the merged, deduplicated result list of one custom rotor.
type CollectedRotor struct {
	Name          string              `json:"name"`
	ResultMarkers []RotorResultMarker `json:"resultMarkers"`
	Limit         RotorLimit          `json:"limit"`
}

// ParseResult is the output of one parse pass.
type ParseResult struct {
	Elements  []Element   `json:"elements"`
	Hierarchy []Hierarchy `json:"hierarchy"`
}

// TextRange addresses a span of an element's text.
type TextRange struct {
	Location int `json:"location"`
	Length   int `json:"length"`
}
