package field

import "sync"

// ConstructHook receives a freshly built descriptor for external decoration.
type ConstructHook func(d *Descriptor)

// ValidFilter may override a validation verdict.
type ValidFilter func(valid bool, values Value, d *Descriptor) bool

// DisplayFilter may override the final display string of a field value.
type DisplayFilter func(display string, raw string, fieldID int64, tag string) string

// MarkupFilter may override option markup emitted inside a control (the
// entries of a select, the confirmation checkbox).
type MarkupFilter func(markup string, tag string, fieldID int64, current string) string

// Hooks is an ordered set of extension callbacks. Callbacks run in
// registration order; each receives the previous callback's output. A nil
// *Hooks is valid and behaves as an empty set.
type Hooks struct {
	mu          sync.RWMutex
	onConstruct []ConstructHook
	valid       []ValidFilter
	display     []DisplayFilter
	markup      []MarkupFilter
}

// NewHooks returns an empty hook set.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnConstruct registers a construction hook.
func (h *Hooks) OnConstruct(fn ConstructHook) {
	if h == nil || fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onConstruct = append(h.onConstruct, fn)
}

// FilterValid registers a verdict filter.
func (h *Hooks) FilterValid(fn ValidFilter) {
	if h == nil || fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.valid = append(h.valid, fn)
}

// FilterDisplay registers a display filter.
func (h *Hooks) FilterDisplay(fn DisplayFilter) {
	if h == nil || fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.display = append(h.display, fn)
}

// FilterOptionsMarkup registers an option markup filter.
func (h *Hooks) FilterOptionsMarkup(fn MarkupFilter) {
	if h == nil || fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.markup = append(h.markup, fn)
}

// ApplyDisplay runs the display filters over display.
func (h *Hooks) ApplyDisplay(display, raw string, fieldID int64, tag string) string {
	if h == nil {
		return display
	}
	h.mu.RLock()
	filters := append([]DisplayFilter(nil), h.display...)
	h.mu.RUnlock()
	for _, fn := range filters {
		display = fn(display, raw, fieldID, tag)
	}
	return display
}

// ApplyOptionsMarkup runs the option markup filters over markup.
func (h *Hooks) ApplyOptionsMarkup(markup, tag string, fieldID int64, current string) string {
	if h == nil {
		return markup
	}
	h.mu.RLock()
	filters := append([]MarkupFilter(nil), h.markup...)
	h.mu.RUnlock()
	for _, fn := range filters {
		markup = fn(markup, tag, fieldID, current)
	}
	return markup
}

func (h *Hooks) construct(d *Descriptor) {
	if h == nil {
		return
	}
	h.mu.RLock()
	hooks := append([]ConstructHook(nil), h.onConstruct...)
	h.mu.RUnlock()
	for _, fn := range hooks {
		fn(d)
	}
}

func (h *Hooks) applyValid(valid bool, values Value, d *Descriptor) bool {
	if h == nil {
		return valid
	}
	h.mu.RLock()
	filters := append([]ValidFilter(nil), h.valid...)
	h.mu.RUnlock()
	for _, fn := range filters {
		valid = fn(valid, values, d)
	}
	return valid
}
