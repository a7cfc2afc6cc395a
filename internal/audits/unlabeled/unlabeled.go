package unlabeled

import (
	"context"
	"fmt"
	"strings"

	"github.com/dejo1307/a11ysnap/internal/model"
)

// interactiveTraits mark elements a user can act on.
const interactiveTraits = model.TraitButton | model.TraitLink | model.TraitAdjustable |
	model.TraitTextEntry | model.TraitSearchField | model.TraitKeyboardKey

// UnlabeledAudit finds elements VoiceOver can only announce by their traits.
type UnlabeledAudit struct{}

// New creates a new UnlabeledAudit.
func New() *UnlabeledAudit {
	return &UnlabeledAudit{}
}

func (a *UnlabeledAudit) Name() string {
	return "unlabeled"
}

// Audit reports interactive elements and images that have no label.
// Interactive elements with a value are still reported: the value alone
// does not say what the control changes.
func (a *UnlabeledAudit) Audit(ctx context.Context, store *model.Store) ([]model.Insight, error) {
	var controls, images []model.Evidence
	for _, el := range store.All() {
		if strings.TrimSpace(el.Label) != "" {
			continue
		}
		switch {
		case el.RespondsToUserInteraction || el.Traits.HasAny(interactiveTraits):
			controls = append(controls, evidence(el, "interactive element has no label"))
		case el.Traits.Has(model.TraitImage):
			images = append(images, evidence(el, "image has no label"))
		}
	}

	var insights []model.Insight
	if len(controls) > 0 {
		insights = append(insights, model.Insight{
			Title:       fmt.Sprintf("Unlabeled controls (%d)", len(controls)),
			Description: "These elements respond to user interaction but have no accessibility label, so VoiceOver announces only their traits or value.",
			Confidence:  1.0,
			Evidence:    controls,
			Actions: []string{
				"Set an accessibility label that names the action or destination",
				"Derive the label from the visible text of the control",
			},
		})
	}
	if len(images) > 0 {
		insights = append(insights, model.Insight{
			Title:       fmt.Sprintf("Unlabeled images (%d)", len(images)),
			Description: "These images are exposed to VoiceOver without a label.",
			Confidence:  0.8, // decorative images should be hidden instead
			Evidence:    images,
			Actions: []string{
				"Describe the image content in its accessibility label",
				"Hide purely decorative images from accessibility",
			},
		})
	}
	return insights, nil
}

func evidence(el model.Element, detail string) model.Evidence {
	return model.Evidence{
		TraversalIndex: el.TraversalIndex,
		Identifier:     el.Identifier,
		Description:    el.Description,
		Detail:         detail,
	}
}
