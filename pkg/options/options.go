// Package options resolves the auxiliary configuration a field type needs
// beyond its bare value. The read path decodes persisted options (slider
// bounds, taxonomy name, confirmation label); the write path synthesizes a
// transient option list from a pending admin submission when nothing is
// persisted yet. Synthesized options are never stored by this package.
package options

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-profilefields/pkg/field"
)

const (
	minPrefix = "min_"
	maxPrefix = "max_"
)

// Resolve returns the field's persisted options, or a list synthesized from
// the pending submission when none are persisted.
func Resolve(def field.Definition, desc *field.Descriptor, pending field.Submission, sentinel int64) []field.Option {
	if len(def.Options) > 0 {
		return slices.Clone(def.Options)
	}
	return Synthesize(desc, pending, sentinel)
}

// Synthesize scans "<type>_option[1]", "<type>_option[2]", ... until the
// first missing index and builds one transient option per entry. Default
// flags follow the descriptor: single-default types flag only the option
// whose index equals "isDefault_<type>_option"; other types honour each
// "isDefault_<type>_option[<n>]" independently. An empty scan yields one
// empty placeholder option.
func Synthesize(desc *field.Descriptor, pending field.Submission, sentinel int64) []field.Option {
	if desc == nil {
		return []field.Option{{ID: sentinel}}
	}
	tag := desc.Tag()
	singleDefault := desc.SupportsOptions() && !desc.SupportsMultipleDefaults()

	defaultIndex := -1
	if singleDefault {
		if raw, ok := pending.Get(field.DefaultIndexKey(tag)); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				defaultIndex = n
			}
		}
	}

	var out []field.Option
	for i := 1; ; i++ {
		raw, ok := pending.Get(field.OptionKey(tag, i))
		if !ok {
			break
		}

		isDefault := false
		if singleDefault {
			isDefault = defaultIndex == i
		} else if flag, ok := pending.Get(field.DefaultOptionKey(tag, i)); ok {
			isDefault = field.ParseFlag(flag)
		}

		out = append(out, field.Option{
			ID:        sentinel,
			Name:      SanitizeText(raw),
			IsDefault: isDefault,
		})
	}

	if len(out) == 0 {
		out = append(out, field.Option{ID: sentinel})
	}
	return out
}

// Bounds are the slider limits decoded from options. Values are passed
// through uninterpreted; numeric checks belong to the validator.
type Bounds struct {
	Min    string
	Max    string
	HasMin bool
	HasMax bool
}

// SliderBounds scans options for "min_"/"max_" prefixed names. Later
// occurrences win; a missing prefix leaves the bound unset.
func SliderBounds(opts []field.Option) Bounds {
	var b Bounds
	for _, opt := range opts {
		switch {
		case strings.HasPrefix(opt.Name, minPrefix):
			b.Min = strings.TrimPrefix(opt.Name, minPrefix)
			b.HasMin = true
		case strings.HasPrefix(opt.Name, maxPrefix):
			b.Max = strings.TrimPrefix(opt.Name, maxPrefix)
			b.HasMax = true
		}
	}
	return b
}

// EncodeSliderBounds turns the two admin inputs ("<type>_option[1]" as the
// minimum, "<type>_option[2]" as the maximum) into the two options persisted
// for a slider.
func EncodeSliderBounds(tag string, pending field.Submission, sentinel int64) []field.Option {
	minValue, _ := pending.Get(field.OptionKey(tag, 1))
	maxValue, _ := pending.Get(field.OptionKey(tag, 2))
	return []field.Option{
		{ID: sentinel, Name: minPrefix + SanitizeText(minValue)},
		{ID: sentinel, Name: maxPrefix + SanitizeText(maxValue)},
	}
}

// TaxonomyName returns the taxonomy identifier stored in the first option.
func TaxonomyName(opts []field.Option) string {
	if len(opts) == 0 {
		return ""
	}
	return strings.TrimSpace(opts[0].Name)
}

// ConfirmationLabel concatenates every option name, URL-decoded, into the
// checkbox label. Names that fail to decode are used verbatim.
func ConfirmationLabel(opts []field.Option) string {
	var b strings.Builder
	for _, opt := range opts {
		decoded, err := url.PathUnescape(opt.Name)
		if err != nil {
			decoded = opt.Name
		}
		b.WriteString(decoded)
	}
	return b.String()
}

// EncodeConfirmationLabel stores label text as a single URL-encoded option,
// the inverse of ConfirmationLabel.
func EncodeConfirmationLabel(text string, sentinel int64) []field.Option {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return []field.Option{{ID: sentinel, Name: url.PathEscape(text)}}
}
