package model

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Traits is a bitset of accessibility traits. Bit positions match UIKit's
// UIAccessibilityTraits, including the private bits VoiceOver reads.
type Traits uint64

const (
	TraitButton                  Traits = 1 << 0
	TraitLink                    Traits = 1 << 1
	TraitImage                   Traits = 1 << 2
	TraitSelected                Traits = 1 << 3
	TraitPlaysSound              Traits = 1 << 4
	TraitKeyboardKey             Traits = 1 << 5
	TraitStaticText              Traits = 1 << 6
	TraitSummaryElement          Traits = 1 << 7
	TraitNotEnabled              Traits = 1 << 8
	TraitUpdatesFrequently       Traits = 1 << 9
	TraitSearchField             Traits = 1 << 10
	TraitStartsMediaSession      Traits = 1 << 11
	TraitAdjustable              Traits = 1 << 12
	TraitAllowsDirectInteraction Traits = 1 << 13
	TraitCausesPageTurn          Traits = 1 << 14
	TraitTabBar                  Traits = 1 << 15
	TraitHeader                  Traits = 1 << 16
	TraitTextEntry               Traits = 1 << 18
	TraitIsEditing               Traits = 1 << 21
	TraitBackButton              Traits = 1 << 27
	TraitTabBarItem              Traits = 1 << 28
	TraitScrollable              Traits = 1 << 47
	TraitSwitchButton            Traits = 1 << 53
)

// traitNames lists the named traits in bit order. The names are part of the
// interchange format and must stay stable.
var traitNames = []struct {
	trait Traits
	name  string
}{
	{TraitButton, "button"},
	{TraitLink, "link"},
	{TraitImage, "image"},
	{TraitSelected, "selected"},
	{TraitPlaysSound, "playsSound"},
	{TraitKeyboardKey, "keyboardKey"},
	{TraitStaticText, "staticText"},
	{TraitSummaryElement, "summaryElement"},
	{TraitNotEnabled, "notEnabled"},
	{TraitUpdatesFrequently, "updatesFrequently"},
	{TraitSearchField, "searchField"},
	{TraitStartsMediaSession, "startsMediaSession"},
	{TraitAdjustable, "adjustable"},
	{TraitAllowsDirectInteraction, "allowsDirectInteraction"},
	{TraitCausesPageTurn, "causesPageTurn"},
	{TraitTabBar, "tabBar"},
	{TraitHeader, "header"},
	{TraitTextEntry, "textEntry"},
	{TraitIsEditing, "isEditing"},
	{TraitBackButton, "backButton"},
	{TraitTabBarItem, "tabBarItem"},
	{TraitScrollable, "scrollable"},
	{TraitSwitchButton, "switchButton"},
}

var knownTraits = func() Traits {
	var all Traits
	for _, tn := range traitNames {
		all |= tn.trait
	}
	return all
}()

// Has reports whether every bit of o is set in t.
func (t Traits) Has(o Traits) bool {
	return t&o == o && o != 0
}

// HasAny reports whether any bit of o is set in t.
func (t Traits) HasAny(o Traits) bool {
	return t&o != 0
}

// Names returns the trait names in bit order. Unknown bits are rendered one
// per bit as "unknown(<raw>)".
func (t Traits) Names() []string {
	names := make([]string, 0, bits.OnesCount64(uint64(t)))
	for _, tn := range traitNames {
		if t&tn.trait != 0 {
			names = append(names, tn.name)
		}
	}
	unknown := uint64(t &^ knownTraits)
	for unknown != 0 {
		bit := unknown & -unknown
		names = append(names, "unknown("+strconv.FormatUint(bit, 10)+")")
		unknown &^= bit
	}
	return names
}

func (t Traits) String() string {
	return strings.Join(t.Names(), ",")
}

// ParseTrait resolves a single trait name, including the "unknown(<raw>)" escape.
func ParseTrait(name string) (Traits, error) {
	for _, tn := range traitNames {
		if tn.name == name {
			return tn.trait, nil
		}
	}
	if raw, ok := strings.CutPrefix(name, "unknown("); ok {
		raw, ok = strings.CutSuffix(raw, ")")
		if ok {
			v, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid unknown trait %q: %w", name, err)
			}
			return Traits(v), nil
		}
	}
	return 0, fmt.Errorf("unknown trait name %q", name)
}

// ParseTraits combines a list of trait names into a bitset.
func ParseTraits(names []string) (Traits, error) {
	var t Traits
	for _, n := range names {
		v, err := ParseTrait(strings.TrimSpace(n))
		if err != nil {
			return 0, err
		}
		t |= v
	}
	return t, nil
}

func (t Traits) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Names())
}

func (t *Traits) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("decoding traits: %w", err)
	}
	v, err := ParseTraits(names)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
