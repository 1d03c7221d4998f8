package vanilla

import (
	"html"
	"strings"

	"github.com/goliatone/go-profilefields/pkg/render"
)

// SelectOption is one entry of a select list.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// Text escapes s for text context.
func Text(s string) string {
	return html.EscapeString(s)
}

// Input renders a void input element.
func Input(attrs *Attrs) string {
	return "<input" + attrs.String() + ">"
}

// Label renders a label for forID. requiredText is appended inside a marker
// span when non-empty.
func Label(forID, text, requiredText string) string {
	var b strings.Builder
	b.WriteString(`<label for="`)
	b.WriteString(html.EscapeString(forID))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(text))
	if requiredText != "" {
		b.WriteString(` <span class="`)
		b.WriteString(string(ClassRequired))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(requiredText))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</label>`)
	return b.String()
}

// ScreenReaderLabel renders a label only exposed to assistive tech.
func ScreenReaderLabel(forID, text string) string {
	return `<label for="` + html.EscapeString(forID) + `" class="` + string(ClassScreenReader) + `">` +
		html.EscapeString(text) + `</label>`
}

// WrapLabel renders a label enclosing inner markup followed by text.
func WrapLabel(forID, inner, text string) string {
	var b strings.Builder
	b.WriteString(`<label for="`)
	b.WriteString(html.EscapeString(forID))
	b.WriteString(`">`)
	b.WriteString(inner)
	if text != "" {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(text))
	}
	b.WriteString(`</label>`)
	return b.String()
}

// Options renders option entries.
func Options(opts []SelectOption) string {
	var b strings.Builder
	for _, opt := range opts {
		b.WriteString(`<option value="`)
		b.WriteString(html.EscapeString(opt.Value))
		b.WriteByte('"')
		if opt.Selected {
			b.WriteString(` selected="selected"`)
		}
		b.WriteByte('>')
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString(`</option>`)
	}
	return b.String()
}

// Select renders a select element around pre-rendered option markup.
func Select(attrs *Attrs, optionsMarkup string) string {
	return "<select" + attrs.String() + ">" + optionsMarkup + "</select>"
}

// Hidden renders hidden inputs in the order given.
func Hidden(fields ...render.HiddenField) string {
	var b strings.Builder
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		b.WriteString(Input(NewAttrs().
			Set("type", "hidden").
			Set("name", field.Name).
			Set("id", field.Name).
			Set("value", field.Value)))
	}
	return b.String()
}

// Output renders an empty live-value placeholder.
func Output(id string) string {
	return `<span id="` + html.EscapeString(id) + `" class="` + string(ClassOutput) + `"></span>`
}

// Link renders an anchor with escaped href and text.
func Link(href, text string) string {
	return `<a href="` + html.EscapeString(href) + `" rel="nofollow">` + html.EscapeString(text) + `</a>`
}

// Errors renders field-level messages, or nothing when there are none.
func Errors(messages []string) string {
	messages = render.MergeErrors(messages)
	if len(messages) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="`)
	b.WriteString(string(ClassErrors))
	b.WriteString(`" role="alert">`)
	for _, msg := range messages {
		b.WriteString(`<p>`)
		b.WriteString(html.EscapeString(msg))
		b.WriteString(`</p>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
