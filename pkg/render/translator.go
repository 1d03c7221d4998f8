package render

import (
	"errors"
	"fmt"
	"strings"
)

// Translator resolves a message key for a locale. Implementations return an
// error (or an empty string) when the key is unknown.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to render when a key cannot be
// translated. args carries a map with the "default" entry when a fallback is
// known.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// ErrMissingTranslator signals that no translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// ErrMissingMessage signals that a catalog has no entry for a key.
var ErrMissingMessage = errors.New("render: message not found")

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		values, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
			return fallback
		}
	}
	return key
}

// Catalog is a static Translator keyed by locale then message key. Regional
// locales fall back to their base language ("pt-BR" to "pt").
type Catalog map[string]map[string]string

// Translate implements Translator. Arguments, when present, are applied with
// fmt.Sprintf.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		messages, ok := c[candidate]
		if !ok {
			continue
		}
		msg, ok := messages[key]
		if !ok {
			continue
		}
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...), nil
		}
		return msg, nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingMessage, locale, key)
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil
	}
	normalized := strings.ReplaceAll(locale, "_", "-")
	chain := []string{normalized}
	if base, _, ok := strings.Cut(normalized, "-"); ok && base != "" {
		chain = append(chain, base)
	}
	return chain
}
