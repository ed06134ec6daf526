package latex

import "strings"

// EscapeText escapes the LaTeX specials # % & $ _ that are not already
// preceded by a backslash, so escaping twice changes nothing.
func EscapeText(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + 8)

	var prev rune
	for _, r := range text {
		switch r {
		case '#', '%', '&', '$', '_':
			if prev != '\\' {
				result.WriteRune('\\')
			}
		}
		result.WriteRune(r)
		prev = r
	}

	return result.String()
}
