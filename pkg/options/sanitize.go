package options

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText reduces submitted option text to a single line of plain
// text: markup is stripped, whitespace runs collapse to one space and the
// result is trimmed.
func SanitizeText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(raw)
	// bluemonday emits entity-escaped text; storage keeps the raw characters
	// and escaping happens at render time.
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
