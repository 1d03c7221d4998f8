package fieldtypes_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/fieldtypes"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/store"
	"github.com/goliatone/go-profilefields/pkg/store/memory"
	"github.com/goliatone/go-profilefields/pkg/testsupport"
)

func TestRegisterDefaults(t *testing.T) {
	reg, _ := testsupport.Registry(t)

	var tags []string
	for _, desc := range reg.Descriptors() {
		tags = append(tags, desc.Tag())
	}
	want := []string{"color", "confirmation", "slider", "taxonomy"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("registered tags mismatch (-want +got):\n%s", diff)
	}

	if err := fieldtypes.RegisterDefaults(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := fieldtypes.RegisterDefaults(nil); err == nil {
		t.Fatalf("expected nil registry to fail")
	}
}

func TestTypeName_Localized(t *testing.T) {
	reg, _ := testsupport.Registry(t)
	localizer := render.NewLocalizer(render.WithTranslator(render.Catalog{
		"es": {render.MsgTypeSlider: "Control deslizante"},
	}))

	ctx := render.WithLocale(context.Background(), "es")
	if got := fieldtypes.TypeName(ctx, localizer, reg.MustGet("slider")); got != "Control deslizante" {
		t.Fatalf("slider name: %q", got)
	}
	if got := fieldtypes.TypeName(ctx, localizer, reg.MustGet("color")); got != "Color (HTML5 field)" {
		t.Fatalf("color name: %q", got)
	}
}

func TestColor_IsValidPatternVariants(t *testing.T) {
	color, err := fieldtypes.NewColor()
	if err != nil {
		t.Fatalf("new color: %v", err)
	}
	if !color.IsValid(field.Single("1a2b3c")) {
		t.Fatalf("expected six characters to validate")
	}
	if color.IsValid(field.Single("1a2b3")) {
		t.Fatalf("expected five characters to fail")
	}

	if err := color.Descriptor().SetFormat(`^.+$`, field.FormatAppend); err != nil {
		t.Fatalf("set format: %v", err)
	}
	if !color.IsValid(field.Single("1a2b3c")) || !color.IsValid(field.Single("1a2b3")) {
		t.Fatalf("expected the last pattern to decide")
	}

	strict, err := fieldtypes.NewColor(fieldtypes.WithPatternMode(field.PatternAll))
	if err != nil {
		t.Fatalf("new color: %v", err)
	}
	if err := strict.Descriptor().SetFormat(`^.+$`, field.FormatAppend); err != nil {
		t.Fatalf("set format: %v", err)
	}
	if strict.IsValid(field.Single("1a2b3")) {
		t.Fatalf("expected every pattern to apply")
	}
}

func TestColor_PreValidateStripsHash(t *testing.T) {
	reg, _ := testsupport.Registry(t)
	color := reg.MustGet("color")

	got := color.PreValidate(" #FF8800 ", testsupport.ColorFieldID)
	if got != "FF8800" {
		t.Fatalf("prevalidate: %q", got)
	}
	if !color.IsValid(field.Single(got)) {
		t.Fatalf("expected normalised value to validate")
	}
}

func TestColor_RenderEdit(t *testing.T) {
	reg, s := testsupport.Registry(t)
	def := testsupport.Field(t, s, testsupport.ColorFieldID)

	out, err := reg.MustGet("color").RenderEdit(testsupport.Context(), field.RenderContext{
		Field:     def,
		SubjectID: testsupport.SubjectID,
		Screen:    field.ScreenEdit,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<label for="field_1">Favourite colour</label>` +
		`<input type="color" name="field_1" id="field_1" data-colorpicker-fallback="true" value="#ff8800">`
	if out != want {
		t.Fatalf("markup mismatch\nwant: %s\n got: %s", want, out)
	}
}

func TestColor_RenderEditPrefersSubmission(t *testing.T) {
	reg, s := testsupport.Registry(t)
	def := testsupport.Field(t, s, testsupport.ColorFieldID)

	out, err := reg.MustGet("color").RenderEdit(testsupport.Context(), field.RenderContext{
		Field:      def,
		SubjectID:  testsupport.SubjectID,
		Value:      "000000",
		Submission: field.NewSubmission(url.Values{"field_1": {"00ff00"}}),
		Errors:     []string{"Invalid colour"},
		Attrs:      map[string]string{"class": "wide", "user_id": "100"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`value="#00ff00"`, `class="wide"`, `<p>Invalid colour</p>`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
	if strings.Contains(out, "user_id") {
		t.Fatalf("reserved attribute leaked: %s", out)
	}
}

func TestColor_DisplayAutolink(t *testing.T) {
	reg, s := testsupport.Registry(t)
	color := reg.MustGet("color")
	ctx := testsupport.Context()

	got := color.Display(ctx, "ff8800", testsupport.ColorFieldID)
	if got != `<a href="/search?field=1&amp;q=ff8800" rel="nofollow">ff8800</a>` {
		t.Fatalf("autolink display: %s", got)
	}

	def := testsupport.Field(t, s, testsupport.ColorFieldID)
	def.AutoLink = false
	if err := s.PutField(def); err != nil {
		t.Fatalf("put field: %v", err)
	}
	if got := color.Display(ctx, "ff8800", testsupport.ColorFieldID); got != "ff8800" {
		t.Fatalf("plain display: %s", got)
	}
	if got := color.Display(ctx, "<b>", 0); got != "&lt;b&gt;" {
		t.Fatalf("escaped display: %s", got)
	}
}

func TestColor_DisplayCustomSearchURL(t *testing.T) {
	reg, _ := testsupport.Registry(t, fieldtypes.WithSearchURL(func(fieldID int64, value string) string {
		return "/members?colour=" + value
	}))
	got := reg.MustGet("color").Display(testsupport.Context(), "abcdef", testsupport.ColorFieldID)
	if got != `<a href="/members?colour=abcdef" rel="nofollow">abcdef</a>` {
		t.Fatalf("display: %s", got)
	}
}

func TestConfirmation_PreValidateAndIsValid(t *testing.T) {
	reg, _ := testsupport.Registry(t)
	confirmation := reg.MustGet("confirmation")

	got := confirmation.PreValidate("", testsupport.ConfirmationFieldID)
	if got != fieldtypes.ConfirmationDeclined {
		t.Fatalf("prevalidate empty: %q", got)
	}
	if !confirmation.IsValid(field.Single(got)) {
		t.Fatalf("expected declined sentinel to validate")
	}
	if got := confirmation.PreValidate("1", testsupport.ConfirmationFieldID); got != "1" {
		t.Fatalf("prevalidate checked: %q", got)
	}
	if !confirmation.IsValid(field.Value{}) {
		t.Fatalf("expected null value to validate")
	}
}

func TestConfirmation_Display(t *testing.T) {
	reg, _ := testsupport.Registry(t)
	confirmation := reg.MustGet("confirmation")
	ctx := testsupport.Context()

	cases := map[string]string{
		"1":   "yes",
		"0":   "no",
		"":    "no",
		"yes": "no",
	}
	for raw, want := range cases {
		if got := confirmation.Display(ctx, raw, testsupport.ConfirmationFieldID); got != want {
			t.Fatalf("display %q: want %q got %q", raw, want, got)
		}
	}
}

func TestConfirmation_RenderEdit(t *testing.T) {
	reg, s := testsupport.Registry(t)
	def := testsupport.Field(t, s, testsupport.ConfirmationFieldID)

	out, err := reg.MustGet("confirmation").RenderEdit(testsupport.Context(), field.RenderContext{
		Field:     def,
		SubjectID: testsupport.SubjectID,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<label for="check_acc_field_2">` +
		`<input type="checkbox" name="check_acc_field_2" id="check_acc_field_2" value="1" data-companion="field_2" checked="checked" required="required" aria-required="true">` +
		` I accept the terms</label>` +
		`<input type="hidden" name="field_2" id="field_2" value="1">`
	if out != want {
		t.Fatalf("markup mismatch\nwant: %s\n got: %s", want, out)
	}
}

func TestConfirmation_RenderEditUnchecked(t *testing.T) {
	reg, s := testsupport.Registry(t)
	def := testsupport.Field(t, s, testsupport.ConfirmationFieldID)

	out, err := reg.MustGet("confirmation").RenderEdit(testsupport.Context(), field.RenderContext{
		Field:     def,
		SubjectID: 999,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "checked") {
		t.Fatalf("expected unchecked box: %s", out)
	}
	if !strings.HasSuffix(out, `<input type="hidden" name="field_2" id="field_2" value="0">`) {
		t.Fatalf("expected declined companion: %s", out)
	}
}

func TestConfirmation_RenderAdminConfig(t *testing.T) {
	reg, s := testsupport.Registry(t)
	def := testsupport.Field(t, s, testsupport.ConfirmationFieldID)
	confirmation := reg.MustGet("confirmation")

	out, err := confirmation.RenderAdminConfig(testsupport.Context(), def, field.Submission{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`id="confirmation"`,
		`style="margin-top: 15px;"`,
		`name="confirmation_text"`,
		`>I accept the terms</textarea>`,
		`name="confirmation_option[1]" id="confirmation_option1" value="I%20accept%20the%20terms"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	pending := field.NewSubmission(url.Values{"confirmation_text": {"I <3 rules"}})
	out, err = confirmation.RenderAdminConfig(testsupport.Context(), field.Definition{Type: "color"}, pending)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `>I &lt;3 rules</textarea>`) || !strings.Contains(out, `display: none;`) {
		t.Fatalf("pending text not rendered:\n%s", out)
	}
}

func TestSlider_RenderEdit(t *testing.T) {
	reg, s := testsupport.Registry(t)
	def := testsupport.Field(t, s, testsupport.SliderFieldID)

	out, err := reg.MustGet("slider").RenderEdit(testsupport.Context(), field.RenderContext{
		Field:     def,
		SubjectID: testsupport.SubjectID,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<label for="field_3">Age</label>` +
		`<input type="range" name="field_3" id="field_3" min="18" max="99" data-output="output-field_3" value="42">` +
		`<span id="output-field_3" class="profilefields-output"></span>`
	if out != want {
		t.Fatalf("markup mismatch\nwant: %s\n got: %s", want, out)
	}
}

func TestSlider_IsValidIgnoresBounds(t *testing.T) {
	reg, _ := testsupport.Registry(t)
	slider := reg.MustGet("slider")

	for _, value := range []string{"0", "150", "4.5"} {
		if !slider.IsValid(field.Single(value)) {
			t.Fatalf("expected %q to validate", value)
		}
	}
	for _, value := range []string{"-1", "ten", ""} {
		if slider.IsValid(field.Single(value)) {
			t.Fatalf("expected %q to fail", value)
		}
	}
}

func TestSlider_RenderAdminConfig(t *testing.T) {
	reg, s := testsupport.Registry(t)
	slider := reg.MustGet("slider")
	ctx := testsupport.Context()

	out, err := slider.RenderAdminConfig(ctx, testsupport.Field(t, s, testsupport.SliderFieldID), field.Submission{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`name="slider_option[1]" id="slider_option1" value="18"`,
		`name="slider_option[2]" id="slider_option2" value="99"`,
		`data-error-order="Min value cannot be bigger than max value."`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	pending := field.NewSubmission(url.Values{
		"slider_option[1]": {"5"},
		"slider_option[2]": {"10"},
	})
	out, err = slider.RenderAdminConfig(ctx, testsupport.Field(t, s, testsupport.ColorFieldID), pending)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`value="5"`, `value="10"`, `style="display: none; margin-top: 15px;"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEncodeOptions(t *testing.T) {
	reg, _ := testsupport.Registry(t)
	pending := field.NewSubmission(url.Values{
		"slider_option[1]":       {"1"},
		"slider_option[2]":       {"5"},
		"confirmation_text":      {"I agree"},
		"taxonomy_option[1]":     {"genre"},
		"isDefault_color_option": {"1"},
	})

	cases := map[string][]field.Option{
		"slider":       {{ID: field.OptionIDTransient, Name: "min_1"}, {ID: field.OptionIDTransient, Name: "max_5"}},
		"confirmation": {{ID: field.OptionIDPending, Name: "I%20agree"}},
		"taxonomy":     {{ID: field.OptionIDTransient, Name: "genre"}},
	}
	for tag, want := range cases {
		encoder, ok := reg.MustGet(tag).(fieldtypes.OptionEncoder)
		if !ok {
			t.Fatalf("%s does not encode options", tag)
		}
		if diff := cmp.Diff(want, encoder.EncodeOptions(pending)); diff != "" {
			t.Fatalf("%s options mismatch (-want +got):\n%s", tag, diff)
		}
	}

	if _, ok := reg.MustGet("color").(fieldtypes.OptionEncoder); ok {
		t.Fatalf("color should not persist options")
	}
}

func TestTaxonomy_Display(t *testing.T) {
	reg, _ := testsupport.Registry(t)
	taxonomy := reg.MustGet("taxonomy")
	ctx := testsupport.Context()

	cases := []struct {
		name    string
		raw     string
		fieldID int64
		want    string
	}{
		{name: "term of configured taxonomy", raw: "11", fieldID: testsupport.TaxonomyFieldID, want: "Jazz"},
		{name: "term of another taxonomy", raw: "20", fieldID: testsupport.TaxonomyFieldID, want: "--"},
		{name: "missing term", raw: "999", fieldID: testsupport.TaxonomyFieldID, want: "--"},
		{name: "not an id", raw: "jazz", fieldID: testsupport.TaxonomyFieldID, want: "--"},
		{name: "empty value", raw: "", fieldID: testsupport.TaxonomyFieldID, want: "--"},
		{name: "empty field id", raw: "11", fieldID: 0, want: "--"},
		{name: "unknown field", raw: "11", fieldID: 404, want: "--"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := taxonomy.Display(ctx, tc.raw, tc.fieldID); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestTaxonomy_RenderEdit(t *testing.T) {
	reg, s := testsupport.Registry(t)
	def := testsupport.Field(t, s, testsupport.TaxonomyFieldID)

	out, err := reg.MustGet("taxonomy").RenderEdit(testsupport.Context(), field.RenderContext{
		Field:     def,
		SubjectID: testsupport.SubjectID,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<label for="field_4">Music</label>` +
		`<select name="field_4" id="field_4">` +
		`<option value="">Select...</option>` +
		`<option value="10">Blues</option>` +
		`<option value="11" selected="selected">Jazz</option>` +
		`</select>`
	if out != want {
		t.Fatalf("markup mismatch\nwant: %s\n got: %s", want, out)
	}
}

func TestTaxonomy_RenderAdminConfig(t *testing.T) {
	reg, s := testsupport.Registry(t)
	def := testsupport.Field(t, s, testsupport.TaxonomyFieldID)

	out, err := reg.MustGet("taxonomy").RenderAdminConfig(testsupport.Context(), def, field.Submission{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<option value="genre" selected="selected">Genres</option>`) {
		t.Fatalf("expected stored taxonomy to be selected:\n%s", out)
	}
	for _, hidden := range []string{`value="category"`, `value="internal"`} {
		if strings.Contains(out, hidden) {
			t.Fatalf("unexpected taxonomy %s in output:\n%s", hidden, out)
		}
	}

	empty, err := fieldtypes.NewTaxonomy(fieldtypes.WithStore(memory.New()))
	if err != nil {
		t.Fatalf("new taxonomy: %v", err)
	}
	out, err = empty.RenderAdminConfig(testsupport.Context(), field.Definition{}, field.Submission{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "There is no custom taxonomy.") || strings.Contains(out, "<select") {
		t.Fatalf("expected explanatory message:\n%s", out)
	}
}

func TestHooks_DisplayAndMarkupFilters(t *testing.T) {
	hooks := field.NewHooks()
	hooks.FilterDisplay(func(display, raw string, fieldID int64, tag string) string {
		return tag + ":" + display
	})
	hooks.FilterOptionsMarkup(func(markup, tag string, fieldID int64, current string) string {
		if tag != "taxonomy" {
			return markup
		}
		return markup + `<option value="other">Other</option>`
	})

	var constructed []string
	hooks.OnConstruct(func(d *field.Descriptor) {
		constructed = append(constructed, d.Tag())
	})

	reg, s := testsupport.Registry(t, fieldtypes.WithHooks(hooks))
	ctx := testsupport.Context()

	if diff := cmp.Diff([]string{"color", "confirmation", "slider", "taxonomy"}, constructed); diff != "" {
		t.Fatalf("construct hooks mismatch (-want +got):\n%s", diff)
	}
	if got := reg.MustGet("slider").Display(ctx, "42", testsupport.SliderFieldID); got != "slider:42" {
		t.Fatalf("slider display: %q", got)
	}
	if got := reg.MustGet("confirmation").Display(ctx, "1", testsupport.ConfirmationFieldID); got != "confirmation:yes" {
		t.Fatalf("confirmation display: %q", got)
	}

	out, err := reg.MustGet("taxonomy").RenderAdmin(ctx, field.RenderContext{Field: testsupport.Field(t, s, testsupport.TaxonomyFieldID)})
	if err != nil {
		t.Fatalf("render admin: %v", err)
	}
	if !strings.HasSuffix(out, `<option value="other">Other</option></select>`) {
		t.Fatalf("markup filter not applied: %s", out)
	}
}

type failingValues struct{}

func (failingValues) Value(context.Context, int64, int64) (string, error) {
	return "", errors.New("connection reset")
}

func TestCurrentValue_StoreFailureFallsBackToEmpty(t *testing.T) {
	s := testsupport.Store(t)
	slider, err := fieldtypes.NewSlider(
		fieldtypes.WithFieldStore(s),
		fieldtypes.WithValueStore(failingValues{}),
	)
	if err != nil {
		t.Fatalf("new slider: %v", err)
	}
	out, err := slider.RenderEdit(testsupport.Context(), field.RenderContext{
		Field:     testsupport.Field(t, s, testsupport.SliderFieldID),
		SubjectID: testsupport.SubjectID,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "value=") {
		t.Fatalf("expected no value on lookup failure: %s", out)
	}
}

var _ store.ValueStore = failingValues{}
