// Package fieldtypes provides the color, confirmation, slider and taxonomy
// profile field types. Each type pairs a descriptor with its renderers,
// display formatter and option handling, and is registered by tag.
package fieldtypes

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/options"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
	"github.com/goliatone/go-profilefields/pkg/store"
)

// Registered tags.
const (
	TagColor        = "color"
	TagConfirmation = "confirmation"
	TagSlider       = "slider"
	TagTaxonomy     = "taxonomy"
)

const configBoxMargin = "margin-top: 15px;"

// OptionEncoder is implemented by types that persist options: it turns a
// pending admin submission into the options to store.
type OptionEncoder interface {
	EncodeOptions(pending field.Submission) []field.Option
}

type base struct {
	desc *field.Descriptor
	cfg  *config
}

func newBase(tag string, cfg *config, opts ...field.DescriptorOption) (base, error) {
	opts = append(opts, field.WithHooks(cfg.hooks), field.WithPatternMode(cfg.patternMode))
	desc, err := field.NewDescriptor(tag, opts...)
	if err != nil {
		return base{}, err
	}
	return base{desc: desc, cfg: cfg}, nil
}

func (b base) Descriptor() *field.Descriptor {
	return b.desc
}

func (b base) IsValid(values field.Value) bool {
	return b.desc.IsValid(values)
}

func (b base) PreValidate(value string, _ int64) string {
	return value
}

func (b base) RenderAdminConfig(context.Context, field.Definition, field.Submission) (string, error) {
	return "", nil
}

// Display passes raw through, escaped for text context.
func (b base) Display(_ context.Context, raw string, fieldID int64) string {
	return b.finishDisplay(vanilla.Text(raw), raw, fieldID)
}

func (b base) finishDisplay(display, raw string, fieldID int64) string {
	return b.desc.Hooks().ApplyDisplay(display, raw, fieldID, b.desc.Tag())
}

func (b base) text(ctx context.Context, key string) string {
	return b.cfg.localizer.Text(ctx, key)
}

// currentValue resolves the value shown in a control: a non-empty pending
// submission wins, then the context value, then the value store.
func (b base) currentValue(ctx context.Context, rc field.RenderContext) string {
	if submitted, ok := rc.Submission.Get(rc.Field.InputName()); ok && submitted != "" {
		return submitted
	}
	if rc.Value != "" {
		return rc.Value
	}
	if b.cfg.values == nil || rc.SubjectID == 0 || rc.Field.ID == 0 {
		return ""
	}
	value, err := b.cfg.values.Value(ctx, rc.Field.ID, rc.SubjectID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			b.cfg.logger.Warn("profile field value lookup failed",
				zap.String("type", b.desc.Tag()),
				zap.Int64("field_id", rc.Field.ID),
				zap.Int64("subject_id", rc.SubjectID),
				zap.Error(err),
			)
		}
		return ""
	}
	return value
}

// definition resolves a field for display formatting.
func (b base) definition(ctx context.Context, fieldID int64) (field.Definition, bool) {
	if fieldID == 0 || b.cfg.fields == nil {
		return field.Definition{}, false
	}
	def, err := b.cfg.fields.Field(ctx, fieldID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			b.cfg.logger.Warn("profile field lookup failed",
				zap.String("type", b.desc.Tag()),
				zap.Int64("field_id", fieldID),
				zap.Error(err),
			)
		}
		return field.Definition{}, false
	}
	return def, true
}

// controlAttrs builds the default attributes of the primary control.
func (b base) controlAttrs(rc field.RenderContext, inputType string) *vanilla.Attrs {
	name := rc.Field.InputName()
	attrs := vanilla.NewAttrs().
		SetIf("type", inputType).
		Set("name", name).
		Set("id", name)
	attrs.Merge(rc.Attrs)
	if rc.IsRequired() {
		attrs.Required()
	}
	return attrs
}

// editLabel renders the visible label and any field errors.
func (b base) editLabel(ctx context.Context, rc field.RenderContext) string {
	required := ""
	if rc.IsRequired() {
		required = b.text(ctx, render.MsgRequired)
	}
	return vanilla.Label(rc.Field.InputName(), rc.Field.Name, required) + vanilla.Errors(rc.Errors)
}

// configOptions resolves the options shown in an admin configuration block.
// Persisted options only count when current is a field of this type.
func (b base) configOptions(current field.Definition, pending field.Submission, sentinel int64) ([]field.Option, bool) {
	if current.Type == b.desc.Tag() && len(current.Options) > 0 {
		return options.Resolve(current, b.desc, pending, sentinel), true
	}
	return options.Synthesize(b.desc, pending, sentinel), false
}

func (b base) configStyle(current field.Definition) string {
	if current.Type != b.desc.Tag() {
		return "display: none; " + configBoxMargin
	}
	return configBoxMargin
}

func (b base) renderConfig(partialKey, templateName string, data map[string]any) (string, error) {
	out, err := b.cfg.renderer.RenderTemplate(partialKey, templateName, data)
	if err != nil {
		b.cfg.logger.Error("profile field config render failed",
			zap.String("type", b.desc.Tag()),
			zap.String("template", templateName),
			zap.Error(err),
		)
		return "", err
	}
	return out, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
