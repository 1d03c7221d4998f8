package fieldtypes

import (
	"context"
	"strings"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/options"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
)

// Confirmation values.
const (
	ConfirmationAccepted = "1"
	ConfirmationDeclined = "0"
)

const checkboxPrefix = "check_acc_"

// Confirmation is a single acceptance checkbox whose label is the field's
// option text. The edit control pairs the checkbox with a hidden input so an
// unchecked box still submits ConfirmationDeclined.
type Confirmation struct {
	base
}

var (
	_ field.FieldType = (*Confirmation)(nil)
	_ OptionEncoder   = (*Confirmation)(nil)
)

// NewConfirmation builds the confirmation field type.
func NewConfirmation(opts ...Option) (*Confirmation, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return newConfirmation(cfg)
}

func newConfirmation(cfg *config) (*Confirmation, error) {
	b, err := newBase(TagConfirmation, cfg,
		field.WithName(render.DefaultMessages[render.MsgTypeConfirmation]),
		field.WithCategory(field.CategorySingle),
		field.AcceptsNullValue(),
		field.SupportsOptions(),
		field.WithPattern(`^.+$`),
	)
	if err != nil {
		return nil, err
	}
	return &Confirmation{base: b}, nil
}

// PreValidate turns an absent checkbox into ConfirmationDeclined.
func (c *Confirmation) PreValidate(value string, _ int64) string {
	if value == "" {
		return ConfirmationDeclined
	}
	return value
}

// RenderEdit renders the labelled checkbox followed by its hidden companion.
func (c *Confirmation) RenderEdit(ctx context.Context, rc field.RenderContext) (string, error) {
	name := rc.Field.InputName()
	checkboxName := checkboxPrefix + name
	current := c.currentValue(ctx, rc)
	accepted := current == ConfirmationAccepted

	attrs := vanilla.NewAttrs().
		Set("type", "checkbox").
		Set("name", checkboxName).
		Set("id", checkboxName).
		Set("value", ConfirmationAccepted).
		Set("data-companion", name)
	if accepted {
		attrs.Flag("checked")
	}
	attrs.Merge(rc.Attrs)
	if rc.IsRequired() {
		attrs.Required()
	}

	checkbox := c.desc.Hooks().ApplyOptionsMarkup(vanilla.Input(attrs), c.desc.Tag(), rc.Field.ID, current)

	hidden := ConfirmationDeclined
	if accepted {
		hidden = ConfirmationAccepted
	}

	var b strings.Builder
	b.WriteString(vanilla.Errors(rc.Errors))
	b.WriteString(vanilla.WrapLabel(checkboxName, checkbox, c.label(rc.Field)))
	b.WriteString(vanilla.Hidden(render.Hidden(name, hidden)))
	return b.String(), nil
}

// RenderAdmin renders a preview of the labelled checkbox.
func (c *Confirmation) RenderAdmin(_ context.Context, rc field.RenderContext) (string, error) {
	name := rc.Field.InputName()
	attrs := vanilla.NewAttrs().
		Set("type", "checkbox").
		Set("name", name).
		Set("id", name).
		Set("value", ConfirmationAccepted).
		Merge(rc.Attrs)
	checkbox := c.desc.Hooks().ApplyOptionsMarkup(vanilla.Input(attrs), c.desc.Tag(), rc.Field.ID, rc.Value)
	return vanilla.WrapLabel(name, checkbox, c.label(rc.Field)), nil
}

// RenderAdminConfig renders the label textarea. The options it would
// persist are carried along as hidden inputs.
func (c *Confirmation) RenderAdminConfig(ctx context.Context, current field.Definition, pending field.Submission) (string, error) {
	tag := c.desc.Tag()
	opts, _ := c.configOptions(current, pending, field.OptionIDPending)

	text, ok := pending.Get(field.TextKey(tag))
	if !ok {
		text = options.ConfirmationLabel(opts)
	}

	hidden := make([]map[string]any, 0, len(opts))
	for i, opt := range opts {
		if opt.Name == "" {
			continue
		}
		hidden = append(hidden, map[string]any{
			"name":  field.OptionKey(tag, i+1),
			"id":    field.OptionID(tag, i+1),
			"value": opt.Name,
		})
	}

	return c.renderConfig(vanilla.PartialConfirmationConfig, vanilla.TemplateConfirmationConfig, map[string]any{
		"tag":       tag,
		"style":     c.configStyle(current),
		"heading":   c.text(ctx, render.MsgConfirmationText),
		"text_name": field.TextKey(tag),
		"text":      text,
		"options":   hidden,
	})
}

// EncodeOptions stores the submitted label text as one option.
func (c *Confirmation) EncodeOptions(pending field.Submission) []field.Option {
	text, _ := pending.Get(field.TextKey(c.desc.Tag()))
	return options.EncodeConfirmationLabel(text, field.OptionIDPending)
}

// Display renders the localized yes or no token.
func (c *Confirmation) Display(ctx context.Context, raw string, fieldID int64) string {
	key := render.MsgDisplayNo
	if raw == ConfirmationAccepted {
		key = render.MsgDisplayYes
	}
	return c.finishDisplay(vanilla.Text(c.text(ctx, key)), raw, fieldID)
}

func (c *Confirmation) label(def field.Definition) string {
	if label := options.ConfirmationLabel(def.Options); label != "" {
		return label
	}
	return def.Name
}
