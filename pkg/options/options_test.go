package options_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/options"
)

func TestSliderBounds(t *testing.T) {
	cases := []struct {
		name string
		opts []field.Option
		want options.Bounds
	}{
		{
			name: "both bounds",
			opts: []field.Option{{Name: "min_0"}, {Name: "max_10"}},
			want: options.Bounds{Min: "0", Max: "10", HasMin: true, HasMax: true},
		},
		{
			name: "later occurrence wins",
			opts: []field.Option{{Name: "min_0"}, {Name: "min_5"}},
			want: options.Bounds{Min: "5", HasMin: true},
		},
		{
			name: "unrelated names ignored",
			opts: []field.Option{{Name: "minimum"}, {Name: "max_abc"}},
			want: options.Bounds{Max: "abc", HasMax: true},
		},
		{
			name: "no options",
			want: options.Bounds{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, options.SliderBounds(tc.opts)); diff != "" {
				t.Fatalf("bounds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSynthesize_StopsAtFirstGap(t *testing.T) {
	desc := field.MustDescriptor("taxonomy", field.SupportsOptions())
	sub := field.NewSubmission(url.Values{
		"taxonomy_option[1]":        {"genre"},
		"taxonomy_option[2]":        {"  <b>mood</b>  "},
		"taxonomy_option[4]":        {"ignored"},
		"isDefault_taxonomy_option": {"2"},
	})

	got := options.Synthesize(desc, sub, field.OptionIDTransient)
	want := []field.Option{
		{ID: -1, Name: "genre"},
		{ID: -1, Name: "mood", IsDefault: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("synthesized options mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_MultipleDefaults(t *testing.T) {
	desc := field.MustDescriptor("tags", field.SupportsOptions(), field.SupportsMultipleDefaults())
	sub := field.NewSubmission(url.Values{
		"tags_option[1]":           {"a"},
		"tags_option[2]":           {"b"},
		"tags_option[3]":           {"c"},
		"isDefault_tags_option[1]": {"1"},
		"isDefault_tags_option[3]": {"on"},
		"isDefault_tags_option":    {"2"},
	})

	got := options.Synthesize(desc, sub, field.OptionIDPending)
	want := []field.Option{
		{Name: "a", IsDefault: true},
		{Name: "b"},
		{Name: "c", IsDefault: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("synthesized options mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_EmptyYieldsPlaceholder(t *testing.T) {
	desc := field.MustDescriptor("slider")
	got := options.Synthesize(desc, field.NewSubmission(nil), field.OptionIDTransient)
	if diff := cmp.Diff([]field.Option{{ID: -1}}, got); diff != "" {
		t.Fatalf("placeholder mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_PrefersPersisted(t *testing.T) {
	desc := field.MustDescriptor("slider")
	def := field.Definition{ID: 3, Type: "slider", Options: []field.Option{{ID: 9, Name: "min_1"}}}
	sub := field.NewSubmission(url.Values{"slider_option[1]": {"min_7"}})

	got := options.Resolve(def, desc, sub, field.OptionIDTransient)
	if diff := cmp.Diff(def.Options, got); diff != "" {
		t.Fatalf("persisted options mismatch (-want +got):\n%s", diff)
	}

	got[0].Name = "mutated"
	if def.Options[0].Name != "min_1" {
		t.Fatalf("resolve must not share the persisted slice")
	}

	def.Options = nil
	got = options.Resolve(def, desc, sub, field.OptionIDTransient)
	if diff := cmp.Diff([]field.Option{{ID: -1, Name: "min_7"}}, got); diff != "" {
		t.Fatalf("synthesized options mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeSliderBounds(t *testing.T) {
	sub := field.NewSubmission(url.Values{
		"slider_option[1]": {"0"},
		"slider_option[2]": {"100"},
	})
	got := options.EncodeSliderBounds("slider", sub, field.OptionIDPending)
	if diff := cmp.Diff(options.Bounds{Min: "0", Max: "100", HasMin: true, HasMax: true}, options.SliderBounds(got)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfirmationLabel(t *testing.T) {
	encoded := options.EncodeConfirmationLabel("I accept the terms & conditions", field.OptionIDPending)
	if len(encoded) != 1 {
		t.Fatalf("expected one option, got %d", len(encoded))
	}
	if got := options.ConfirmationLabel(encoded); got != "I accept the terms & conditions" {
		t.Fatalf("decoded label %q", got)
	}

	got := options.ConfirmationLabel([]field.Option{{Name: "I%20agree"}, {Name: " 100%"}})
	if got != "I agree 100%" {
		t.Fatalf("expected undecodable names to pass through, got %q", got)
	}

	if options.EncodeConfirmationLabel("   ", 0) != nil {
		t.Fatalf("expected blank label to encode to nothing")
	}
}

func TestTaxonomyName(t *testing.T) {
	if got := options.TaxonomyName(nil); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
	if got := options.TaxonomyName([]field.Option{{Name: " genre "}, {Name: "mood"}}); got != "genre" {
		t.Fatalf("expected first option, got %q", got)
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"":                               "",
		"  plain  ":                      "plain",
		"<script>alert(1)</script>safe":  "safe",
		"a\n\tb":                         "a b",
		"Tom &amp; Jerry":                "Tom & Jerry",
		"<em>emphasis</em> kept as text": "emphasis kept as text",
	}
	for in, want := range cases {
		if got := options.SanitizeText(in); got != want {
			t.Fatalf("SanitizeText(%q) = %q, want %q", in, got, want)
		}
	}
}
