package field

import (
	"net/url"
	"strconv"
	"strings"
)

// Submission is a read-only view over pending request parameters, used by
// the admin write path and to carry a just-submitted value back into a
// re-rendered control.
type Submission struct {
	values url.Values
}

// NewSubmission wraps values. A nil map yields an empty submission.
func NewSubmission(values url.Values) Submission {
	return Submission{values: values}
}

// Empty reports whether no parameters are present.
func (s Submission) Empty() bool {
	return len(s.values) == 0
}

// Get returns the first value stored under key.
func (s Submission) Get(key string) (string, bool) {
	if s.values == nil {
		return "", false
	}
	values, ok := s.values[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Has reports whether key is present.
func (s Submission) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// OptionKey is "<type>_option[<n>]".
func OptionKey(tag string, n int) string {
	return tag + "_option[" + strconv.Itoa(n) + "]"
}

// OptionID is the DOM id paired with OptionKey: "<type>_option<n>".
func OptionID(tag string, n int) string {
	return tag + "_option" + strconv.Itoa(n)
}

// DefaultOptionKey is "isDefault_<type>_option[<n>]".
func DefaultOptionKey(tag string, n int) string {
	return "isDefault_" + tag + "_option[" + strconv.Itoa(n) + "]"
}

// DefaultIndexKey is "isDefault_<type>_option", the single default index
// submitted by types that allow only one default.
func DefaultIndexKey(tag string) string {
	return "isDefault_" + tag + "_option"
}

// TextKey is "<type>_text".
func TextKey(tag string) string {
	return tag + "_text"
}

// ParseFlag interprets a submitted checkbox value.
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}
