// Package profilefields exposes the extended profile field types behind a
// small top-level API so callers can register, render and display them
// without importing each sub-package.
package profilefields

import (
	"context"
	"errors"
	"io/fs"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/fieldtypes"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
)

// FieldType aliases field.FieldType for callers registering custom types.
type FieldType = field.FieldType

// Definition aliases field.Definition.
type Definition = field.Definition

// RenderContext aliases field.RenderContext.
type RenderContext = field.RenderContext

// Registry aliases field.Registry.
type Registry = field.Registry

// Option configures the built-in field types.
type Option = fieldtypes.Option

// Tags of the built-in field types.
const (
	TagColor        = fieldtypes.TagColor
	TagConfirmation = fieldtypes.TagConfirmation
	TagSlider       = fieldtypes.TagSlider
	TagTaxonomy     = fieldtypes.TagTaxonomy
)

// NewRegistry returns a registry holding the color, confirmation, slider and
// taxonomy field types sharing one configuration.
func NewRegistry(options ...Option) (*Registry, error) {
	return fieldtypes.NewRegistry(options...)
}

// RenderEdit renders the end-user control of rc.Field with its registered type.
func RenderEdit(ctx context.Context, reg *Registry, rc RenderContext) (string, error) {
	ft, err := lookup(reg, rc.Field.Type)
	if err != nil {
		return "", err
	}
	return ft.RenderEdit(ctx, rc)
}

// RenderAdmin renders the admin preview of rc.Field.
func RenderAdmin(ctx context.Context, reg *Registry, rc RenderContext) (string, error) {
	ft, err := lookup(reg, rc.Field.Type)
	if err != nil {
		return "", err
	}
	return ft.RenderAdmin(ctx, rc)
}

// Display formats raw, the stored value of def, for presentation.
func Display(ctx context.Context, reg *Registry, def Definition, raw string) (string, error) {
	ft, err := lookup(reg, def.Type)
	if err != nil {
		return "", err
	}
	return ft.Display(ctx, raw, def.ID), nil
}

// Validate pre-validates a single submitted value and reports whether the
// normalized result is acceptable. A value that is empty after
// pre-validation is checked as the null value.
func Validate(reg *Registry, def Definition, raw string) (string, bool, error) {
	ft, err := lookup(reg, def.Type)
	if err != nil {
		return "", false, err
	}
	value := ft.PreValidate(raw, def.ID)
	values := field.Single(value)
	if value == "" {
		values = field.Value{}
	}
	return value, ft.IsValid(values), nil
}

// EmbeddedTemplates exposes the built-in admin configuration templates so
// callers can reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// RuntimeAssetsFS exposes the stylesheet and script the edit controls rely on.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(profilefields.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

func lookup(reg *Registry, tag string) (FieldType, error) {
	if reg == nil {
		return nil, errors.New("profilefields: registry is required")
	}
	return reg.Get(tag)
}
