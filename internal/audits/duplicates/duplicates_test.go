package duplicates

import (
	"context"
	"testing"

	"github.com/dejo1307/a11ysnap/internal/model"
)

func TestAudit(t *testing.T) {
	store := model.NewStore()
	store.Add(
		model.Element{TraversalIndex: 0, Label: "Alice", Description: "Alice."},
		model.Element{TraversalIndex: 1, Label: "Delete", Description: "Delete. Button.", RespondsToUserInteraction: true},
		model.Element{TraversalIndex: 2, Label: "Bob", Description: "Bob."},
		model.Element{TraversalIndex: 3, Label: "Delete", Description: "Delete. Button.", RespondsToUserInteraction: true, Identifier: "delete-bob"},
		model.Element{TraversalIndex: 4, Label: "30", Description: "30."},
		model.Element{TraversalIndex: 5, Label: "30", Description: "30."},
		model.Element{TraversalIndex: 6, Label: "More", Description: "More. Button.", AnnouncedHint: "Shows Alice.", RespondsToUserInteraction: true},
		model.Element{TraversalIndex: 7, Label: "More", Description: "More. Button.", AnnouncedHint: "Shows Bob.", RespondsToUserInteraction: true},
	)

	insights, err := New().Audit(context.Background(), store)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if len(insights) != 1 {
		t.Fatalf("got %d insights, want 1 (static duplicates and distinct hints are fine)", len(insights))
	}

	got := insights[0]
	if got.Title != `Duplicate announcement "Delete. Button." (2 elements)` {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Evidence) != 2 || got.Evidence[0].TraversalIndex != 1 || got.Evidence[1].Identifier != "delete-bob" {
		t.Errorf("evidence = %+v", got.Evidence)
	}
	if got.Description != "Elements at positions 2, 4 are announced identically, so VoiceOver users cannot tell them apart." {
		t.Errorf("description = %q", got.Description)
	}
}

func TestAudit_Empty(t *testing.T) {
	insights, err := New().Audit(context.Background(), model.NewStore())
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if insights != nil {
		t.Errorf("insights = %v, want nil", insights)
	}
}
