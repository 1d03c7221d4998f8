package field

import (
	"regexp"
	"slices"
)

// CheckOptions tweaks the validation algorithm for field types that override
// parts of it.
type CheckOptions struct {
	// SkipWhitelist ignores the descriptor whitelist for this check.
	SkipWhitelist bool
}

// IsValid reports whether values satisfy the descriptor. An empty list is
// valid only when the descriptor accepts null values. The verdict passes
// through the descriptor's ValidFilter hooks before it is returned.
func (d *Descriptor) IsValid(values Value) bool {
	return d.Validate(values, CheckOptions{})
}

// Validate runs the validation algorithm with explicit options.
func (d *Descriptor) Validate(values Value, opts CheckOptions) bool {
	if d == nil {
		return false
	}

	patterns := d.compiledPatterns()
	validated := false
	if len(values) > 0 && len(patterns) > 0 {
		validated = true
		for _, value := range values {
			if !matchPatterns(value, patterns, d.patternMode) {
				validated = false
				break
			}
		}
	}

	if !validated && len(values) == 0 && d.acceptsNullValue {
		validated = true
	}

	if validated && len(values) > 0 && len(d.whitelist) > 0 && !opts.SkipWhitelist {
		for _, value := range values {
			if !slices.Contains(d.whitelist, value) {
				validated = false
				break
			}
		}
	}

	return d.hooks.applyValid(validated, values, d)
}

func matchPatterns(value string, patterns []*regexp.Regexp, mode PatternMode) bool {
	if mode == PatternAll {
		for _, pattern := range patterns {
			if !pattern.MatchString(value) {
				return false
			}
		}
		return true
	}

	matched := false
	for _, pattern := range patterns {
		matched = pattern.MatchString(value)
	}
	return matched
}
