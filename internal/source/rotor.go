package source

import "github.com/dejo1307/a11ysnap/internal/model"

// Direction is the search direction of a rotor query.
type Direction int

const (
	Next Direction = iota
	Previous
)

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// RotorItem is a rotor result: a target node and an optional text range within it.
// The zero value stands for "no current item".
type RotorItem struct {
	Target Node
	Range  *model.TextRange
}

// Key returns a comparable identity for the item.
func (i RotorItem) Key() RotorItemKey {
	k := RotorItemKey{Target: i.Target}
	if i.Range != nil {
		k.HasRange = true
		k.Range = *i.Range
	}
	return k
}

// RotorItemKey is the (element, range) identity of a RotorItem.
type RotorItemKey struct {
	Target   Node
	HasRange bool
	Range    model.TextRange
}

// Rotor is a named, directional enumeration over a subset of elements.
type Rotor interface {
	Name() string
	// Search returns the result after current in the given direction, or
	// false when there is none.
	Search(current RotorItem, direction Direction) (RotorItem, bool)
}
