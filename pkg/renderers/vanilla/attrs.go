package vanilla

import (
	"html"
	"regexp"
	"sort"
	"strings"
)

// attrName is the accepted shape of an attribute name after lower-casing.
var attrName = regexp.MustCompile(`^[a-z_:][-a-z0-9_:.]*$`)

// reservedAttrs are context keys callers may pass with attribute overrides
// that must never reach the markup.
var reservedAttrs = map[string]struct{}{
	"user_id": {},
}

// Attrs is an insertion-ordered HTML attribute set. Boolean attributes are
// emitted as name="name".
type Attrs struct {
	order  []string
	values map[string]string
}

// NewAttrs returns an empty set.
func NewAttrs() *Attrs {
	return &Attrs{values: make(map[string]string)}
}

// Set assigns name. A new name is appended; an existing one keeps its
// position. Names that are not valid attribute names are dropped.
func (a *Attrs) Set(name, value string) *Attrs {
	name = strings.ToLower(strings.TrimSpace(name))
	if !attrName.MatchString(name) {
		return a
	}
	if _, ok := a.values[name]; !ok {
		a.order = append(a.order, name)
	}
	a.values[name] = value
	return a
}

// SetIf assigns name only when value is non-empty.
func (a *Attrs) SetIf(name, value string) *Attrs {
	if value == "" {
		return a
	}
	return a.Set(name, value)
}

// Flag sets a boolean attribute.
func (a *Attrs) Flag(name string) *Attrs {
	return a.Set(name, name)
}

// Del removes name.
func (a *Attrs) Del(name string) *Attrs {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := a.values[name]; !ok {
		return a
	}
	delete(a.values, name)
	for i, existing := range a.order {
		if existing == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return a
}

// Get returns the value of name.
func (a *Attrs) Get(name string) (string, bool) {
	value, ok := a.values[strings.ToLower(strings.TrimSpace(name))]
	return value, ok
}

// Merge applies overrides in key order. Reserved keys are dropped.
func (a *Attrs) Merge(overrides map[string]string) *Attrs {
	if len(overrides) == 0 {
		return a
	}
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, reserved := reservedAttrs[strings.ToLower(strings.TrimSpace(key))]; reserved {
			continue
		}
		a.Set(key, overrides[key])
	}
	return a
}

// Required marks the control as required for browsers and assistive tech.
func (a *Attrs) Required() *Attrs {
	return a.Flag("required").Set("aria-required", "true")
}

// String renders the set with a leading space per attribute, values escaped
// for attribute context.
func (a *Attrs) String() string {
	if a == nil || len(a.order) == 0 {
		return ""
	}
	var b strings.Builder
	for _, name := range a.order {
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.values[name]))
		b.WriteByte('"')
	}
	return b.String()
}
