package profilefields

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/fieldtypes"
	"github.com/goliatone/go-profilefields/pkg/testsupport"
)

func TestNewRegistry_RegistersBuiltins(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	for _, tag := range []string{TagColor, TagConfirmation, TagSlider, TagTaxonomy} {
		if !reg.Has(tag) {
			t.Fatalf("expected %q to be registered", tag)
		}
	}
}

func TestValidateAndDisplay(t *testing.T) {
	_, s := testsupport.Registry(t)
	reg, err := NewRegistry(fieldtypes.WithStore(s))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	ctx := testsupport.Context()

	color := testsupport.Field(t, s, testsupport.ColorFieldID)
	value, ok, err := Validate(reg, color, " #A0B1C2 ")
	if err != nil || !ok || value != "A0B1C2" {
		t.Fatalf("validate: %q %t %v", value, ok, err)
	}

	terms := testsupport.Field(t, s, testsupport.TaxonomyFieldID)
	got, err := Display(ctx, reg, terms, "10")
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	if got != "Blues" {
		t.Fatalf("display: %q", got)
	}

	markup, err := RenderEdit(ctx, reg, RenderContext{Field: testsupport.Field(t, s, testsupport.SliderFieldID), Value: "40"})
	if err != nil {
		t.Fatalf("render edit: %v", err)
	}
	if !strings.Contains(markup, `type="range"`) {
		t.Fatalf("expected range input:\n%s", markup)
	}

	if _, err := RenderAdmin(ctx, reg, RenderContext{Field: Definition{ID: 9, Type: "geo"}}); !errors.Is(err, field.ErrUnknownType) {
		t.Fatalf("expected unknown type, got %v", err)
	}
	if _, err := Display(ctx, nil, terms, "10"); err == nil {
		t.Fatalf("expected nil registry to fail")
	}
}

func TestValidate_EmptyValue(t *testing.T) {
	_, s := testsupport.Registry(t)
	reg, err := NewRegistry(fieldtypes.WithStore(s))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	cases := []struct {
		id    int64
		raw   string
		value string
		valid bool
	}{
		{testsupport.SliderFieldID, "", "", true},
		{testsupport.TaxonomyFieldID, "", "", false},
		{testsupport.ColorFieldID, " # ", "", false},
		{testsupport.ConfirmationFieldID, "", "0", true},
	}
	for _, tc := range cases {
		def := testsupport.Field(t, s, tc.id)
		value, ok, err := Validate(reg, def, tc.raw)
		if err != nil {
			t.Fatalf("%s: validate: %v", def.Type, err)
		}
		if value != tc.value || ok != tc.valid {
			t.Fatalf("%s: want %q/%t, got %q/%t", def.Type, tc.value, tc.valid, value, ok)
		}
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.ReadFile(RuntimeAssetsFS(), "profilefields.js"); err != nil {
		t.Fatalf("expected runtime script: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/admin/slider.tmpl"); err != nil {
		t.Fatalf("expected slider template: %v", err)
	}
}
