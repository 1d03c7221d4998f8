package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-profilefields/pkg/field"
)

// ErrorMapping splits a validation payload into messages for the field being
// rendered and messages that belong to no known field.
type ErrorMapping struct {
	Field []string
	Other []string
}

// MergeErrors concatenates and normalises error slices, trimming whitespace
// and removing duplicates while preserving order.
func MergeErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapFieldErrors picks the messages addressed to def out of payload. Keys
// match the request parameter ("field_7"), the bare id ("7") or the field
// name, optionally wrapped as "body.field_7" or "/field_7".
func MapFieldErrors(def field.Definition, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	aliases := make(map[string]struct{}, 3)
	aliases[def.InputName()] = struct{}{}
	aliases[strconv.FormatInt(def.ID, 10)] = struct{}{}
	if name := strings.ToLower(strings.TrimSpace(def.Name)); name != "" {
		aliases[name] = struct{}{}
	}

	for rawKey, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		if _, ok := aliases[errorKey(rawKey)]; ok && def.ID != 0 {
			mapping.Field = append(mapping.Field, normalized...)
			continue
		}
		mapping.Other = append(mapping.Other, normalized...)
	}

	mapping.Field = normalizeMessages(mapping.Field)
	mapping.Other = normalizeMessages(mapping.Other)
	return mapping
}

func errorKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimLeft(key, "#$./")
	for _, wrapper := range []string{"body", "request", "payload", "data"} {
		for _, sep := range []string{".", "/"} {
			key = strings.TrimPrefix(key, wrapper+sep)
		}
	}
	return key
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
