package fieldtypes

import (
	"context"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/options"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
)

// SliderPattern accepts unsigned integers and decimals.
const SliderPattern = `^\d+\.?\d*$`

// Slider is an HTML5 range input bounded by the field's min_/max_ options.
type Slider struct {
	base
}

var (
	_ field.FieldType = (*Slider)(nil)
	_ OptionEncoder   = (*Slider)(nil)
)

// NewSlider builds the slider field type.
func NewSlider(opts ...Option) (*Slider, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return newSlider(cfg)
}

func newSlider(cfg *config) (*Slider, error) {
	b, err := newBase(TagSlider, cfg,
		field.WithName(render.DefaultMessages[render.MsgTypeSlider]),
		field.WithCategory(field.CategorySingle),
		field.AcceptsNullValue(),
		field.SupportsOptions(),
		field.WithPattern(SliderPattern),
	)
	if err != nil {
		return nil, err
	}
	return &Slider{base: b}, nil
}

// IsValid checks the pattern only; bounds are options, not a whitelist.
func (s *Slider) IsValid(values field.Value) bool {
	return s.desc.Validate(values, field.CheckOptions{SkipWhitelist: true})
}

// RenderEdit renders the range input and its live value placeholder.
func (s *Slider) RenderEdit(ctx context.Context, rc field.RenderContext) (string, error) {
	name := rc.Field.InputName()
	outputID := "output-" + name

	attrs := s.rangeAttrs(rc.Field).
		Set("data-output", outputID)
	if value := s.currentValue(ctx, rc); value != "" {
		attrs.Set("value", value)
	}
	attrs.Merge(rc.Attrs)
	if rc.IsRequired() {
		attrs.Required()
	}
	return s.editLabel(ctx, rc) + vanilla.Input(attrs) + vanilla.Output(outputID), nil
}

// RenderAdmin renders a preview range input.
func (s *Slider) RenderAdmin(_ context.Context, rc field.RenderContext) (string, error) {
	attrs := s.rangeAttrs(rc.Field).
		Set("class", string(vanilla.ClassSlider)).
		Merge(rc.Attrs)
	return vanilla.Input(attrs), nil
}

// RenderAdminConfig renders the minimum and maximum inputs.
func (s *Slider) RenderAdminConfig(ctx context.Context, current field.Definition, pending field.Submission) (string, error) {
	tag := s.desc.Tag()
	opts, persisted := s.configOptions(current, pending, field.OptionIDTransient)

	var minValue, maxValue string
	if persisted {
		bounds := options.SliderBounds(opts)
		minValue, maxValue = bounds.Min, bounds.Max
	} else {
		if len(opts) > 0 {
			minValue = opts[0].Name
		}
		if len(opts) > 1 {
			maxValue = opts[1].Name
		}
	}

	return s.renderConfig(vanilla.PartialSliderConfig, vanilla.TemplateSliderConfig, map[string]any{
		"tag":           tag,
		"style":         s.configStyle(current),
		"heading":       s.text(ctx, render.MsgSliderHelp),
		"error_order":   s.text(ctx, render.MsgSliderOrder),
		"error_missing": s.text(ctx, render.MsgSliderMissing),
		"min": map[string]any{
			"id":    field.OptionID(tag, 1),
			"name":  field.OptionKey(tag, 1),
			"label": s.text(ctx, render.MsgSliderMin),
			"value": minValue,
		},
		"max": map[string]any{
			"id":    field.OptionID(tag, 2),
			"name":  field.OptionKey(tag, 2),
			"label": s.text(ctx, render.MsgSliderMax),
			"value": maxValue,
		},
	})
}

// EncodeOptions turns the two admin inputs into min_ and max_ options.
func (s *Slider) EncodeOptions(pending field.Submission) []field.Option {
	return options.EncodeSliderBounds(s.desc.Tag(), pending, field.OptionIDTransient)
}

func (s *Slider) rangeAttrs(def field.Definition) *vanilla.Attrs {
	name := def.InputName()
	bounds := options.SliderBounds(def.Options)
	return vanilla.NewAttrs().
		Set("type", "range").
		Set("name", name).
		Set("id", name).
		SetIf("min", bounds.Min).
		SetIf("max", bounds.Max)
}
