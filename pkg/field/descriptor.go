package field

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Category groups field types in admin pickers.
type Category string

const (
	CategorySingle Category = "single-value"
	CategoryMulti  Category = "multi-value"
)

// FormatMode controls how SetFormat treats previously registered patterns.
type FormatMode int

const (
	// FormatReplace discards prior patterns.
	FormatReplace FormatMode = iota
	// FormatAppend adds to the existing list.
	FormatAppend
)

// PatternMode selects how multiple validation patterns combine for a single
// value.
type PatternMode int

const (
	// PatternLastWins reassigns the verdict on every pattern check, so only
	// the last pattern in the list decides. This is the historical behaviour
	// and the default.
	PatternLastWins PatternMode = iota
	// PatternAll requires a value to match every pattern.
	PatternAll
)

func (m PatternMode) String() string {
	switch m {
	case PatternAll:
		return "all"
	default:
		return "last-wins"
	}
}

// ParsePatternMode parses the String form of a PatternMode.
func ParsePatternMode(raw string) (PatternMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "last-wins":
		return PatternLastWins, nil
	case "all":
		return PatternAll, nil
	default:
		return PatternLastWins, fmt.Errorf("field: unknown pattern mode %q", raw)
	}
}

// Descriptor is the static metadata for one field type. It is safe for
// concurrent reads; SetFormat is the only mutation and is intended for
// construction-time wiring.
type Descriptor struct {
	mu sync.RWMutex

	tag                      string
	name                     string
	category                 Category
	acceptsNullValue         bool
	supportsOptions          bool
	supportsMultipleDefaults bool
	patternMode              PatternMode
	patterns                 []*regexp.Regexp
	whitelist                []string
	hooks                    *Hooks

	err error
}

// DescriptorOption configures a descriptor during construction.
type DescriptorOption func(*Descriptor)

// WithName sets the human readable type name.
func WithName(name string) DescriptorOption {
	return func(d *Descriptor) {
		d.name = strings.TrimSpace(name)
	}
}

// WithCategory sets the grouping category. Defaults to CategorySingle.
func WithCategory(category Category) DescriptorOption {
	return func(d *Descriptor) {
		if category != "" {
			d.category = category
		}
	}
}

// AcceptsNullValue marks an empty value list as valid.
func AcceptsNullValue() DescriptorOption {
	return func(d *Descriptor) {
		d.acceptsNullValue = true
	}
}

// SupportsOptions marks the type as carrying auxiliary options.
func SupportsOptions() DescriptorOption {
	return func(d *Descriptor) {
		d.supportsOptions = true
	}
}

// SupportsMultipleDefaults allows more than one option flagged as default.
func SupportsMultipleDefaults() DescriptorOption {
	return func(d *Descriptor) {
		d.supportsMultipleDefaults = true
	}
}

// WithPattern appends a validation pattern (Go regexp syntax).
func WithPattern(pattern string) DescriptorOption {
	return func(d *Descriptor) {
		if err := d.setFormat(pattern, FormatAppend); err != nil && d.err == nil {
			d.err = err
		}
	}
}

// WithPatternMode selects how multiple patterns combine.
func WithPatternMode(mode PatternMode) DescriptorOption {
	return func(d *Descriptor) {
		d.patternMode = mode
	}
}

// WithWhitelist restricts valid values to the supplied set once the pattern
// check succeeded.
func WithWhitelist(values ...string) DescriptorOption {
	return func(d *Descriptor) {
		d.whitelist = append([]string(nil), values...)
	}
}

// WithHooks attaches the extension hooks used for construction notification
// and verdict filtering.
func WithHooks(hooks *Hooks) DescriptorOption {
	return func(d *Descriptor) {
		d.hooks = hooks
	}
}

// NewDescriptor builds a descriptor for tag. Construction hooks run after all
// options are applied and may decorate the instance through SetFormat.
func NewDescriptor(tag string, options ...DescriptorOption) (*Descriptor, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, errors.New("field: descriptor tag is required")
	}

	d := &Descriptor{
		tag:      tag,
		name:     tag,
		category: CategorySingle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	if d.err != nil {
		return nil, fmt.Errorf("field: descriptor %q: %w", tag, d.err)
	}

	d.hooks.construct(d)
	return d, nil
}

// MustDescriptor panics when NewDescriptor fails. Useful for init-time wiring.
func MustDescriptor(tag string, options ...DescriptorOption) *Descriptor {
	d, err := NewDescriptor(tag, options...)
	if err != nil {
		panic(err)
	}
	return d
}

// SetFormat registers a validation pattern. FormatReplace discards the
// existing list first.
func (d *Descriptor) SetFormat(pattern string, mode FormatMode) error {
	if d == nil {
		return errors.New("field: descriptor is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setFormat(pattern, mode)
}

func (d *Descriptor) setFormat(pattern string, mode FormatMode) error {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("field: compile pattern %q: %w", pattern, err)
	}
	if mode == FormatReplace {
		d.patterns = []*regexp.Regexp{compiled}
		return nil
	}
	d.patterns = append(d.patterns, compiled)
	return nil
}

func (d *Descriptor) Tag() string { return d.tag }

func (d *Descriptor) Name() string { return d.name }

func (d *Descriptor) Category() Category { return d.category }

func (d *Descriptor) AcceptsNullValue() bool { return d.acceptsNullValue }

func (d *Descriptor) SupportsOptions() bool { return d.supportsOptions }

func (d *Descriptor) SupportsMultipleDefaults() bool { return d.supportsMultipleDefaults }

func (d *Descriptor) PatternMode() PatternMode { return d.patternMode }

// Hooks returns the hook set attached at construction (may be nil).
func (d *Descriptor) Hooks() *Hooks { return d.hooks }

// Patterns returns the source of every registered pattern in order.
func (d *Descriptor) Patterns() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.patterns))
	for _, p := range d.patterns {
		out = append(out, p.String())
	}
	return out
}

// Whitelist returns a copy of the configured whitelist.
func (d *Descriptor) Whitelist() []string {
	return slices.Clone(d.whitelist)
}

func (d *Descriptor) compiledPatterns() []*regexp.Regexp {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.patterns)
}
