package normalize

import (
	"html"
	"strings"
)

// Email returns a normalized form of an email address suitable for
// storage and comparisons. Normalization currently trims surrounding
// whitespace and lower-cases the address.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// ID strips whitespace and any double quotes around an identifier. The
// frontend sends ids that went through JSON.stringify, so `"abc"` and `abc`
// must resolve to the same document.
func ID(id string) string {
	return strings.TrimSpace(strings.ReplaceAll(id, `"`, ""))
}

// Text trims free-form user input and escapes HTML so it is safe to render.
func Text(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
