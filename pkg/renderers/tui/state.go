package tui

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Answers keeps collected values by request parameter name in the order
// they were asked.
type Answers struct {
	order  []string
	values map[string]string
}

// NewAnswers returns an empty set.
func NewAnswers() *Answers {
	return &Answers{values: make(map[string]string)}
}

// Set records value under name.
func (a *Answers) Set(name, value string) {
	if _, ok := a.values[name]; !ok {
		a.order = append(a.order, name)
	}
	a.values[name] = value
}

// Get returns the value recorded under name.
func (a *Answers) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	value, ok := a.values[name]
	return value, ok
}

// Names returns the recorded names in order.
func (a *Answers) Names() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.order...)
}

// Values converts the answers to request parameters.
func (a *Answers) Values() url.Values {
	out := url.Values{}
	if a == nil {
		return out
	}
	for _, name := range a.order {
		out.Set(name, a.values[name])
	}
	return out
}

// Encode serializes the answers.
func (a *Answers) Encode(format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(a.Values().Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, name := range a.Names() {
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(a.values[name])
			b.WriteByte('\n')
		}
		return []byte(b.String()), nil
	default:
		values := make(map[string]string, len(a.order))
		for _, name := range a.Names() {
			values[name] = a.values[name]
		}
		return json.Marshal(values)
	}
}
