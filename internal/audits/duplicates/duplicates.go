package duplicates

import (
	"context"
	"fmt"
	"strings"

	"github.com/dejo1307/a11ysnap/internal/model"
)

// DuplicateAudit finds distinct elements that VoiceOver announces identically.
type DuplicateAudit struct{}

// New creates a new DuplicateAudit.
func New() *DuplicateAudit {
	return &DuplicateAudit{}
}

func (a *DuplicateAudit) Name() string {
	return "duplicates"
}

// Audit groups elements by description and hint. Only groups with at least
// one interactive element are reported, since repeated static text such as
// column values is usually intended.
func (a *DuplicateAudit) Audit(ctx context.Context, store *model.Store) ([]model.Insight, error) {
	type group struct {
		description string
		elements    []model.Element
		interactive bool
	}

	var order []string
	groups := make(map[string]*group)
	for _, el := range store.All() {
		if strings.TrimSpace(el.Description) == "" {
			continue
		}
		key := el.Description + "\x00" + el.AnnouncedHint
		g, ok := groups[key]
		if !ok {
			g = &group{description: el.Description}
			groups[key] = g
			order = append(order, key)
		}
		g.elements = append(g.elements, el)
		g.interactive = g.interactive || el.RespondsToUserInteraction
	}

	var insights []model.Insight
	for _, key := range order {
		g := groups[key]
		if len(g.elements) < 2 || !g.interactive {
			continue
		}

		evidence := make([]model.Evidence, 0, len(g.elements))
		positions := make([]string, 0, len(g.elements))
		for _, el := range g.elements {
			evidence = append(evidence, model.Evidence{
				TraversalIndex: el.TraversalIndex,
				Identifier:     el.Identifier,
				Description:    el.Description,
				Detail:         fmt.Sprintf("announced at position %d", el.TraversalIndex+1),
			})
			positions = append(positions, fmt.Sprintf("%d", el.TraversalIndex+1))
		}

		insights = append(insights, model.Insight{
			Title:       fmt.Sprintf("Duplicate announcement %q (%d elements)", g.description, len(g.elements)),
			Description: fmt.Sprintf("Elements at positions %s are announced identically, so VoiceOver users cannot tell them apart.", strings.Join(positions, ", ")),
			Confidence:  0.9,
			Evidence:    evidence,
			Actions: []string{
				"Include the distinguishing context in each label (e.g. \"Delete Alice\")",
				"Group repeated controls with their row content",
			},
		})
	}
	return insights, nil
}
