package field

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownType is returned when a tag has no registered field type.
var ErrUnknownType = errors.New("field: unknown field type")

// FieldType is the behaviour set of one pluggable field type. Implementations
// must not mutate persisted state; every method is a value transform over the
// supplied context and the read-only store collaborators.
type FieldType interface {
	Descriptor() *Descriptor
	// IsValid checks submitted values before persistence.
	IsValid(values Value) bool
	// PreValidate normalises a submitted value before IsValid runs.
	PreValidate(value string, fieldID int64) string
	// RenderEdit produces the end-user edit control.
	RenderEdit(ctx context.Context, rc RenderContext) (string, error)
	// RenderAdmin produces the read-only preview on the admin screen.
	RenderAdmin(ctx context.Context, rc RenderContext) (string, error)
	// RenderAdminConfig produces the type-specific configuration block of the
	// add/edit field screen. current is the field being configured.
	RenderAdminConfig(ctx context.Context, current Definition, pending Submission) (string, error)
	// Display formats a stored value for presentation.
	Display(ctx context.Context, raw string, fieldID int64) string
}

// Registry resolves type tags to field types, providing discovery and
// duplication safeguards.
type Registry struct {
	mu    sync.RWMutex
	types map[string]FieldType
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]FieldType),
	}
}

// Register adds a field type under its descriptor tag. Duplicate tags return
// an error so exactly one descriptor exists per tag.
func (r *Registry) Register(ft FieldType) error {
	if ft == nil || ft.Descriptor() == nil {
		return errors.New("field: field type is required")
	}
	tag := ft.Descriptor().Tag()
	if tag == "" {
		return errors.New("field: field type tag is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[tag]; exists {
		return fmt.Errorf("field: field type %q already registered", tag)
	}
	r.types[tag] = ft
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(ft FieldType) {
	if err := r.Register(ft); err != nil {
		panic(err)
	}
}

// Get retrieves a field type by tag.
func (r *Registry) Get(tag string) (FieldType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ft, ok := r.types[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, tag)
	}
	return ft, nil
}

// MustGet panics if the tag is missing.
func (r *Registry) MustGet(tag string) FieldType {
	ft, err := r.Get(tag)
	if err != nil {
		panic(err)
	}
	return ft
}

// Has reports whether a tag is registered.
func (r *Registry) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.types[tag]
	return ok
}

// List returns the registered tags sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Descriptors returns the descriptors of every registered type in tag order.
func (r *Registry) Descriptors() []*Descriptor {
	tags := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, 0, len(tags))
	for _, tag := range tags {
		if ft, ok := r.types[tag]; ok {
			out = append(out, ft.Descriptor())
		}
	}
	return out
}
