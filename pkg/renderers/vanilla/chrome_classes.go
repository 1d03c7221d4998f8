package vanilla

// ChromeClass is a typed identifier for semantic CSS classes emitted around
// field controls.
type ChromeClass string

const (
	ClassErrors       ChromeClass = "profilefields-errors"
	ClassRequired     ChromeClass = "profilefields-required"
	ClassOutput       ChromeClass = "profilefields-output"
	ClassScreenReader ChromeClass = "screen-reader-text"
	ClassSlider       ChromeClass = "profilefields-slider"
	ClassOptionsBox   ChromeClass = "postbox bp-options-box"
)
