// Package rotor collects the results of custom rotors in both directions.
//
// Rotor callbacks come from the host UI and may loop. Collection is bounded by
// a per-direction limit and a repeat detector, so it always terminates.
package rotor

import (
	"slices"

	"github.com/dejo1307/a11ysnap/internal/model"
	"github.com/dejo1307/a11ysnap/internal/source"
)

// DefaultLimit is the per-direction result limit used when none is given.
const DefaultLimit = 10

// loopWindow is how many consecutive repeated results count as a loop.
const loopWindow = 3

// Result is the merged output of a rotor in reading order.
type Result struct {
	Items []source.RotorItem
	Limit model.RotorLimit
}

// Collect scans r forward and backward from no starting item, at most limit
// results per direction, and merges both scans.
func Collect(r source.Rotor, limit int) Result {
	if r == nil {
		return Result{Limit: model.NoLimit()}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	forward := iterate(r, source.Next, limit)
	backward := iterate(r, source.Previous, limit)

	forwardKeys := keySet(forward.Items)
	backwardKeys := keySet(backward.Items)
	switch {
	case containsAll(forwardKeys, backwardKeys):
		return forward
	case containsAll(backwardKeys, forwardKeys):
		return backward
	}

	limitMarker := forward.Limit.Combine(backward.Limit)
	if len(forward.Items) > 0 && len(backward.Items) > 0 &&
		forward.Items[0].Key() == backward.Items[0].Key() {
		items := reversed(backward.Items[1:])
		return Result{Items: append(items, forward.Items...), Limit: limitMarker}
	}

	items := reversed(backward.Items)
	seen := keySet(items)
	for _, item := range forward.Items {
		if _, dup := seen[item.Key()]; dup {
			continue
		}
		seen[item.Key()] = struct{}{}
		items = append(items, item)
	}
	return Result{Items: items, Limit: limitMarker}
}

// iterate asks the rotor for successive results in one direction.
func iterate(r source.Rotor, direction source.Direction, limit int) Result {
	var (
		items   []source.RotorItem
		current source.RotorItem
		seen    = make(map[source.RotorItemKey]struct{})
		repeats []int
	)

	for len(items) < limit {
		next, ok := r.Search(current, direction)
		if !ok || next.Target == nil || next.Key() == current.Key() {
			return Result{Items: items, Limit: model.NoLimit()}
		}

		key := next.Key()
		if _, dup := seen[key]; dup {
			repeats = append(repeats, len(items))
			if len(repeats) > loopWindow {
				repeats = repeats[1:]
			}
			if isLoop(repeats) {
				return Result{Items: items[:repeats[0]], Limit: model.NoLimit()}
			}
		}
		seen[key] = struct{}{}
		items = append(items, next)
		current = next
	}

	return Result{Items: items, Limit: countAdditional(r, direction, current, seen)}
}

// isLoop reports whether the repeat window holds loopWindow consecutive indices.
func isLoop(repeats []int) bool {
	if len(repeats) < loopWindow {
		return false
	}
	for i := 1; i < len(repeats); i++ {
		if repeats[i] != repeats[i-1]+1 {
			return false
		}
	}
	return true
}

// countAdditional counts results past from, up to model.MaxRotorCount.
func countAdditional(r source.Rotor, direction source.Direction, from source.RotorItem, seen map[source.RotorItemKey]struct{}) model.RotorLimit {
	current := from
	counted := make(map[source.RotorItemKey]struct{})
	for n := 0; n < model.MaxRotorCount; n++ {
		next, ok := r.Search(current, direction)
		if !ok || next.Target == nil || next.Key() == current.Key() {
			return model.UnderMax(n)
		}
		key := next.Key()
		if _, dup := seen[key]; dup {
			return model.NoLimit()
		}
		if _, dup := counted[key]; dup {
			return model.NoLimit()
		}
		counted[key] = struct{}{}
		current = next
	}
	return model.GreaterThanMax()
}

func keySet(items []source.RotorItem) map[source.RotorItemKey]struct{} {
	set := make(map[source.RotorItemKey]struct{}, len(items))
	for _, item := range items {
		set[item.Key()] = struct{}{}
	}
	return set
}

func containsAll(set, subset map[source.RotorItemKey]struct{}) bool {
	for key := range subset {
		if _, ok := set[key]; !ok {
			return false
		}
	}
	return true
}

func reversed(items []source.RotorItem) []source.RotorItem {
	out := slices.Clone(items)
	slices.Reverse(out)
	return out
}
