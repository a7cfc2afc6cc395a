package audits

import (
	"context"

	"github.com/dejo1307/a11ysnap/internal/model"
)

// Audit inspects the parsed elements and reports accessibility problems.
type Audit interface {
	// Name returns the audit identifier (e.g. "unlabeled", "duplicates").
	Name() string
	// Audit analyzes the element store and returns insights.
	Audit(ctx context.Context, store *model.Store) ([]model.Insight, error)
}

// Registry holds registered audits.
type Registry struct {
	audits []Audit
}

// NewRegistry creates a new audit registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an audit to the registry.
func (r *Registry) Register(a Audit) {
	r.audits = append(r.audits, a)
}

// Get returns the audit with the given name, or nil if not found.
func (r *Registry) Get(name string) Audit {
	for _, a := range r.audits {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// All returns all registered audits.
func (r *Registry) All() []Audit {
	return r.audits
}
