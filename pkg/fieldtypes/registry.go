package fieldtypes

import (
	"context"
	"fmt"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/render"
)

// All builds the four field types over one shared configuration.
func All(opts ...Option) ([]field.FieldType, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	color, err := newColor(cfg)
	if err != nil {
		return nil, err
	}
	confirmation, err := newConfirmation(cfg)
	if err != nil {
		return nil, err
	}
	slider, err := newSlider(cfg)
	if err != nil {
		return nil, err
	}
	taxonomy, err := newTaxonomy(cfg)
	if err != nil {
		return nil, err
	}
	return []field.FieldType{color, confirmation, slider, taxonomy}, nil
}

// RegisterDefaults registers color, confirmation, slider and taxonomy.
func RegisterDefaults(reg *field.Registry, opts ...Option) error {
	if reg == nil {
		return fmt.Errorf("fieldtypes: registry is nil")
	}
	types, err := All(opts...)
	if err != nil {
		return err
	}
	for _, ft := range types {
		if err := reg.Register(ft); err != nil {
			return fmt.Errorf("fieldtypes: register %s: %w", ft.Descriptor().Tag(), err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding the default field types.
func NewRegistry(opts ...Option) (*field.Registry, error) {
	reg := field.NewRegistry()
	if err := RegisterDefaults(reg, opts...); err != nil {
		return nil, err
	}
	return reg, nil
}

var typeNameKeys = map[string]string{
	TagColor:        render.MsgTypeColor,
	TagConfirmation: render.MsgTypeConfirmation,
	TagSlider:       render.MsgTypeSlider,
	TagTaxonomy:     render.MsgTypeTaxonomy,
}

// TypeName returns the localized display name of a registered tag, falling
// back to the descriptor name for tags this package does not own.
func TypeName(ctx context.Context, l *render.Localizer, ft field.FieldType) string {
	if ft == nil || ft.Descriptor() == nil {
		return ""
	}
	desc := ft.Descriptor()
	if key, ok := typeNameKeys[desc.Tag()]; ok {
		return l.Text(ctx, key)
	}
	return desc.Name()
}
