package field_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profilefields/pkg/field"
)

func TestDescriptor_IsValidSinglePattern(t *testing.T) {
	desc := field.MustDescriptor("color", field.WithPattern(`^[a-zA-Z0-9]{6}$`))

	cases := []struct {
		name   string
		values field.Value
		want   bool
	}{
		{name: "six hex characters", values: field.Single("1a2b3c"), want: true},
		{name: "five characters", values: field.Single("1a2b3"), want: false},
		{name: "empty string", values: field.Single(""), want: false},
		{name: "every element matches", values: field.Multi("aaaaaa", "bbbbbb"), want: true},
		{name: "one element fails", values: field.Multi("aaaaaa", "bad"), want: false},
		{name: "first element fails", values: field.Multi("bad", "bbbbbb"), want: false},
		{name: "null value without null acceptance", values: field.Multi(), want: false},
		{name: "nil value without null acceptance", values: nil, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := desc.IsValid(tc.values); got != tc.want {
				t.Fatalf("IsValid(%q) = %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}

func TestDescriptor_IsValidAcceptsNull(t *testing.T) {
	desc := field.MustDescriptor("slider", field.AcceptsNullValue(), field.WithPattern(`^\d+\.?\d*$`))

	if !desc.IsValid(nil) {
		t.Fatalf("expected nil value to be valid when null is accepted")
	}
	if !desc.IsValid(field.Multi()) {
		t.Fatalf("expected empty list to be valid when null is accepted")
	}
	if desc.IsValid(field.Single("")) {
		t.Fatalf("expected empty string element to be checked against the pattern")
	}
	if !desc.IsValid(field.Single("4.5")) {
		t.Fatalf("expected decimal to match")
	}
}

func TestDescriptor_SetFormatVariants(t *testing.T) {
	desc := field.MustDescriptor("color", field.WithPattern(`^[a-zA-Z0-9]{6}$`))
	if !desc.IsValid(field.Single("1a2b3c")) || desc.IsValid(field.Single("1a2b3")) {
		t.Fatalf("unexpected verdicts for the six character pattern")
	}

	if err := desc.SetFormat(`^.+$`, field.FormatReplace); err != nil {
		t.Fatalf("set format: %v", err)
	}
	if !desc.IsValid(field.Single("1a2b3c")) || !desc.IsValid(field.Single("1a2b3")) {
		t.Fatalf("expected both values to pass once any non-empty value is accepted")
	}
	if diff := cmp.Diff([]string{`^.+$`}, desc.Patterns()); diff != "" {
		t.Fatalf("replace should discard prior patterns (-want +got):\n%s", diff)
	}
}

func TestDescriptor_MultiplePatternModes(t *testing.T) {
	digits := `^\d+$`
	short := `^.{1,3}$`

	lastWins := field.MustDescriptor("last", field.WithPattern(digits), field.WithPattern(short))
	if !lastWins.IsValid(field.Single("abc")) {
		t.Fatalf("last-wins mode should only consult the last pattern")
	}
	if lastWins.IsValid(field.Single("12345")) {
		t.Fatalf("last-wins mode should reject values failing the last pattern")
	}

	all := field.MustDescriptor("all",
		field.WithPattern(digits),
		field.WithPattern(short),
		field.WithPatternMode(field.PatternAll),
	)
	if all.IsValid(field.Single("abc")) {
		t.Fatalf("conjunctive mode should reject values failing any pattern")
	}
	if !all.IsValid(field.Single("123")) {
		t.Fatalf("conjunctive mode should accept values matching every pattern")
	}
}

func TestDescriptor_SetFormatAppend(t *testing.T) {
	desc := field.MustDescriptor("x", field.WithPattern(`^a`))
	if err := desc.SetFormat(`b$`, field.FormatAppend); err != nil {
		t.Fatalf("append: %v", err)
	}
	if diff := cmp.Diff([]string{`^a`, `b$`}, desc.Patterns()); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}
	if err := desc.SetFormat(`(`, field.FormatAppend); err == nil {
		t.Fatalf("expected invalid pattern to fail")
	}
}

func TestDescriptor_Whitelist(t *testing.T) {
	desc := field.MustDescriptor("choice", field.WithPattern(`^.+$`), field.WithWhitelist("1"))

	if !desc.IsValid(field.Single("1")) {
		t.Fatalf("expected whitelisted value to pass")
	}
	if desc.IsValid(field.Single("0")) {
		t.Fatalf("expected non-whitelisted value to fail")
	}
	if !desc.Validate(field.Single("0"), field.CheckOptions{SkipWhitelist: true}) {
		t.Fatalf("expected whitelist to be skipped on request")
	}
}

func TestDescriptor_ValidFilterOverridesVerdict(t *testing.T) {
	hooks := field.NewHooks()
	var seen []string
	hooks.FilterValid(func(valid bool, values field.Value, d *field.Descriptor) bool {
		seen = append(seen, d.Tag()+":"+values.First())
		return !valid
	})

	desc := field.MustDescriptor("color", field.WithPattern(`^[a-z]+$`), field.WithHooks(hooks))
	if desc.IsValid(field.Single("abc")) {
		t.Fatalf("expected filter to flip a valid verdict")
	}
	if !desc.IsValid(field.Single("123")) {
		t.Fatalf("expected filter to flip an invalid verdict")
	}
	if diff := cmp.Diff([]string{"color:abc", "color:123"}, seen); diff != "" {
		t.Fatalf("filter calls mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDescriptor_RunsConstructHooks(t *testing.T) {
	hooks := field.NewHooks()
	hooks.OnConstruct(func(d *field.Descriptor) {
		_ = d.SetFormat(`^x$`, field.FormatAppend)
	})

	desc, err := field.NewDescriptor("decorated", field.WithPattern(`^.+$`), field.WithHooks(hooks))
	if err != nil {
		t.Fatalf("new descriptor: %v", err)
	}
	if diff := cmp.Diff([]string{`^.+$`, `^x$`}, desc.Patterns()); diff != "" {
		t.Fatalf("construct hook not applied (-want +got):\n%s", diff)
	}
	if desc.Hooks() != hooks {
		t.Fatalf("expected hooks to be retained")
	}
}

func TestNewDescriptor_Errors(t *testing.T) {
	if _, err := field.NewDescriptor("  "); err == nil {
		t.Fatalf("expected empty tag to fail")
	}
	if _, err := field.NewDescriptor("bad", field.WithPattern(`[`)); err == nil {
		t.Fatalf("expected invalid pattern to fail construction")
	}
}

func TestParsePatternMode(t *testing.T) {
	for raw, want := range map[string]field.PatternMode{
		"":          field.PatternLastWins,
		"last-wins": field.PatternLastWins,
		" ALL ":     field.PatternAll,
	} {
		got, err := field.ParsePatternMode(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %s got %s", raw, want, got)
		}
	}
	if _, err := field.ParsePatternMode("any"); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}
