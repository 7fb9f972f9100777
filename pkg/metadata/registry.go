package metadata

import (
	"context"
	"sync"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// FieldSource contributes additional field descriptors for an entity
// beyond what the store reports. Integrations register a source at
// startup; contribution order follows registration order.
type FieldSource interface {
	// Contribute returns extra descriptors for the entity, or nil when
	// the source has nothing to add for it.
	Contribute(ctx context.Context, kind models.EntityKind) ([]models.FieldDescriptor, error)
}

// Registry holds the registered field sources. It replaces ad-hoc
// broadcast filtering: contributors are explicit and enumerable.
type Registry struct {
	mu      sync.RWMutex
	sources []FieldSource
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a field source. Call during startup, before lookups.
func (r *Registry) Register(source FieldSource) {
	r.mu.Lock()
	r.sources = append(r.sources, source)
	r.mu.Unlock()
}

// Fields collects contributions from every source, in registration order.
func (r *Registry) Fields(ctx context.Context, kind models.EntityKind) ([]models.FieldDescriptor, error) {
	r.mu.RLock()
	sources := make([]FieldSource, len(r.sources))
	copy(sources, r.sources)
	r.mu.RUnlock()

	var fields []models.FieldDescriptor
	for _, source := range sources {
		contributed, err := source.Contribute(ctx, kind)
		if err != nil {
			return nil, err
		}
		fields = append(fields, contributed...)
	}
	return fields, nil
}

// FieldSourceFunc adapts a function to the FieldSource interface.
type FieldSourceFunc func(ctx context.Context, kind models.EntityKind) ([]models.FieldDescriptor, error)

// Contribute implements FieldSource.
func (f FieldSourceFunc) Contribute(ctx context.Context, kind models.EntityKind) ([]models.FieldDescriptor, error) {
	return f(ctx, kind)
}
