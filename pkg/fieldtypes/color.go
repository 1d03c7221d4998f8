package fieldtypes

import (
	"context"
	"regexp"
	"strings"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
)

// ColorPattern accepts six letters or digits.
const ColorPattern = `^[a-zA-Z0-9]{6}$`

var hexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Color is an HTML5 color input. Browsers without native support get a
// script-driven picker through the runtime asset.
type Color struct {
	base
}

var _ field.FieldType = (*Color)(nil)

// NewColor builds the color field type.
func NewColor(opts ...Option) (*Color, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return newColor(cfg)
}

func newColor(cfg *config) (*Color, error) {
	b, err := newBase(TagColor, cfg,
		field.WithName(render.DefaultMessages[render.MsgTypeColor]),
		field.WithCategory(field.CategorySingle),
		field.WithPattern(ColorPattern),
	)
	if err != nil {
		return nil, err
	}
	return &Color{base: b}, nil
}

// PreValidate drops the leading "#" browsers submit for color inputs.
func (c *Color) PreValidate(value string, _ int64) string {
	return strings.TrimPrefix(strings.TrimSpace(value), "#")
}

// RenderEdit renders the labelled color input.
func (c *Color) RenderEdit(ctx context.Context, rc field.RenderContext) (string, error) {
	attrs := c.controlAttrs(rc, "color").
		Set("data-colorpicker-fallback", "true")
	if value := colorInputValue(c.currentValue(ctx, rc)); value != "" {
		attrs.Set("value", value)
	}
	return c.editLabel(ctx, rc) + vanilla.Input(attrs), nil
}

// RenderAdmin renders the preview input with an assistive label.
func (c *Color) RenderAdmin(ctx context.Context, rc field.RenderContext) (string, error) {
	name := rc.Field.InputName()
	attrs := vanilla.NewAttrs().
		Set("type", "color").
		Set("name", name).
		Set("id", name).
		Merge(rc.Attrs)
	return vanilla.ScreenReaderLabel(name, c.text(ctx, render.MsgColorLabel)) + vanilla.Input(attrs), nil
}

// Display returns the value, linked to a search for it when the field has
// auto-linking enabled.
func (c *Color) Display(ctx context.Context, raw string, fieldID int64) string {
	display := vanilla.Text(raw)
	if raw != "" {
		if def, ok := c.definition(ctx, fieldID); ok && def.AutoLink {
			display = vanilla.Link(c.cfg.searchURL(fieldID, raw), raw)
		}
	}
	return c.finishDisplay(display, raw, fieldID)
}

// colorInputValue formats a stored value for <input type="color">, which
// only accepts "#rrggbb".
func colorInputValue(value string) string {
	value = strings.TrimSpace(value)
	if hexColor.MatchString(value) {
		return "#" + strings.ToLower(value)
	}
	return value
}
