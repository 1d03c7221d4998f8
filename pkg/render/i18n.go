package render

import (
	"context"
	"strings"
)

// Message keys for every user-facing string the field types emit.
const (
	MsgDisplayYes   = "profilefields.display.yes"
	MsgDisplayNo    = "profilefields.display.no"
	MsgDisplayEmpty = "profilefields.display.empty"

	MsgSelectPlaceholder = "profilefields.select.placeholder"
	MsgRequired          = "profilefields.required"

	MsgColorLabel = "profilefields.color.label"

	MsgConfirmationText = "profilefields.confirmation.text"

	MsgSliderHelp    = "profilefields.slider.help"
	MsgSliderMin     = "profilefields.slider.min"
	MsgSliderMax     = "profilefields.slider.max"
	MsgSliderOrder   = "profilefields.slider.error.order"
	MsgSliderMissing = "profilefields.slider.error.missing"

	MsgTaxonomyPick = "profilefields.taxonomy.pick"
	MsgTaxonomyNone = "profilefields.taxonomy.none"

	MsgTypeColor        = "profilefields.type.color"
	MsgTypeConfirmation = "profilefields.type.confirmation"
	MsgTypeSlider       = "profilefields.type.slider"
	MsgTypeTaxonomy     = "profilefields.type.taxonomy"
)

// DefaultMessages holds the English text used when no translation exists.
var DefaultMessages = map[string]string{
	MsgDisplayYes:   "yes",
	MsgDisplayNo:    "no",
	MsgDisplayEmpty: "--",

	MsgSelectPlaceholder: "Select...",
	MsgRequired:          "(required)",

	MsgColorLabel: "Color field",

	MsgConfirmationText: "Use this field to write a text that should be displayed beside the checkbox:",

	MsgSliderHelp:    "Write min and max values.",
	MsgSliderMin:     "Minimum:",
	MsgSliderMax:     "Maximum:",
	MsgSliderOrder:   "Min value cannot be bigger than max value.",
	MsgSliderMissing: "You have to fill the two fields.",

	MsgTaxonomyPick: "Select a custom taxonomy:",
	MsgTaxonomyNone: "There is no custom taxonomy. You need to create at least one to use this field.",

	MsgTypeColor:        "Color (HTML5 field)",
	MsgTypeConfirmation: "Checkbox Acceptance",
	MsgTypeSlider:       "Range input (HTML5 field)",
	MsgTypeTaxonomy:     "Custom Taxonomy Selector",
}

// LocalizerOption configures a Localizer.
type LocalizerOption func(*Localizer)

// WithTranslator sets the translator consulted before the English defaults.
func WithTranslator(t Translator) LocalizerOption {
	return func(l *Localizer) {
		l.translator = t
	}
}

// WithMissingTranslationHandler overrides the fallback applied when a key
// has no translation.
func WithMissingTranslationHandler(fn MissingTranslationHandler) LocalizerOption {
	return func(l *Localizer) {
		if fn != nil {
			l.onMissing = fn
		}
	}
}

// WithDefaultLocale sets the locale used when the request context has none.
func WithDefaultLocale(locale string) LocalizerOption {
	return func(l *Localizer) {
		l.locale = strings.TrimSpace(locale)
	}
}

// Localizer resolves message keys for the locale carried by a request
// context. The zero value and a nil *Localizer both yield English defaults.
type Localizer struct {
	translator Translator
	onMissing  MissingTranslationHandler
	locale     string
}

// NewLocalizer builds a Localizer.
func NewLocalizer(opts ...LocalizerOption) *Localizer {
	l := &Localizer{
		onMissing: missingTranslationDefault,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Text translates key for the locale in ctx.
func (l *Localizer) Text(ctx context.Context, key string) string {
	if l == nil {
		return translate("", key, DefaultMessages[key], nil, missingTranslationDefault)
	}
	locale := LocaleFromContext(ctx)
	if locale == "" {
		locale = l.locale
	}
	onMissing := l.onMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(locale, key, DefaultMessages[key], l.translator, onMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
