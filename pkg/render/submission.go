package render

import (
	"fmt"
	"strings"
)

// HiddenField represents a hidden input emitted next to a visible control,
// such as the companion value of a checkbox.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}
