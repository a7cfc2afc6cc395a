package loaders

import (
	"context"

	"github.com/dejo1307/a11ysnap/internal/source/fixture"
)

// Loader reads a screen description and emits a declarative node tree.
type Loader interface {
	// Name returns the loader identifier (e.g. "yaml", "tsx").
	Name() string
	// Detect returns true if this loader understands the given source file.
	Detect(path string) (bool, error)
	// Load parses the source file into a fixture tree description.
	Load(ctx context.Context, path string) (*fixture.Spec, error)
}

// Registry holds registered loaders.
type Registry struct {
	loaders []Loader
}

// NewRegistry creates a new loader registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a loader to the registry.
func (r *Registry) Register(l Loader) {
	r.loaders = append(r.loaders, l)
}

// Get returns the loader with the given name, or nil if not found.
func (r *Registry) Get(name string) Loader {
	for _, l := range r.loaders {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// All returns all registered loaders.
func (r *Registry) All() []Loader {
	return r.loaders
}
