package field

import (
	"slices"
	"strconv"
	"strings"
)

// Option identifiers used for options that have not been persisted.
const (
	// OptionIDPending marks an option drawn from a pending admin submission.
	OptionIDPending int64 = 0
	// OptionIDTransient marks a synthesized placeholder option.
	OptionIDTransient int64 = -1
)

// Option is one auxiliary configuration value attached to a field
// definition. Its Name is type specific: slider bounds are encoded as
// "min_<n>"/"max_<n>", the taxonomy type stores a taxonomy identifier and the
// confirmation type stores URL-encoded label text.
type Option struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	IsDefault bool   `json:"is_default,omitempty" yaml:"is_default,omitempty"`
}

// Persisted reports whether the option carries a storage identifier.
func (o Option) Persisted() bool {
	return o.ID > 0
}

// Definition is a configured profile attribute owned by the host.
type Definition struct {
	ID          int64    `json:"id" yaml:"id"`
	GroupID     int64    `json:"group_id,omitempty" yaml:"group_id,omitempty"`
	Type        string   `json:"type" yaml:"type"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	AutoLink    bool     `json:"autolink,omitempty" yaml:"autolink,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// InputName returns the request parameter name used for the field's value.
func (d Definition) InputName() string {
	return InputName(d.ID)
}

// Clone returns a copy whose option slice is not shared.
func (d Definition) Clone() Definition {
	d.Options = slices.Clone(d.Options)
	return d
}

// InputName formats the request parameter name for a field id.
func InputName(fieldID int64) string {
	return "field_" + strconv.FormatInt(fieldID, 10)
}

// Value is a candidate field value: one element for single-value fields,
// any number for multi-value fields. A nil or empty Value is the null value.
type Value []string

// Single wraps a scalar into a one-element Value.
func Single(value string) Value {
	return Value{value}
}

// Multi builds a Value from the supplied elements.
func Multi(values ...string) Value {
	if len(values) == 0 {
		return Value{}
	}
	return Value(slices.Clone(values))
}

// First returns the first element, or "" for the null value.
func (v Value) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (v Value) String() string {
	return strings.Join(v, ",")
}

// Screen identifies where a control is rendered.
type Screen string

const (
	ScreenEdit  Screen = "edit"
	ScreenAdmin Screen = "admin"
)

// RenderContext carries everything a renderer needs for one control. It is
// built per request and never stored.
type RenderContext struct {
	Field     Definition
	SubjectID int64
	Required  bool
	// Value is the current value; when empty, renderers that need it look it
	// up through the value store.
	Value string
	// Attrs are HTML attribute overrides merged over the defaults.
	Attrs      map[string]string
	Screen     Screen
	Submission Submission
	Errors     []string
}

// IsRequired reports whether the control must be marked required.
func (rc RenderContext) IsRequired() bool {
	return rc.Required || rc.Field.Required
}
