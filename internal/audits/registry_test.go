package audits

import (
	"context"
	"testing"

	"github.com/dejo1307/a11ysnap/internal/model"
)

type namedAudit string

func (a namedAudit) Name() string { return string(a) }

func (a namedAudit) Audit(ctx context.Context, store *model.Store) ([]model.Insight, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(namedAudit("unlabeled"))
	r.Register(namedAudit("duplicates"))

	if got := len(r.All()); got != 2 {
		t.Fatalf("All() returned %d audits, want 2", got)
	}
	if a := r.Get("duplicates"); a == nil || a.Name() != "duplicates" {
		t.Errorf("Get(duplicates) = %v", a)
	}
	if a := r.Get("contrast"); a != nil {
		t.Errorf("Get(contrast) = %v, want nil", a)
	}
}
