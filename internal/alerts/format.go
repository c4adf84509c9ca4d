package alerts

import (
	"strings"
	"unicode"
)

// truncate shortens s to max characters, appending an ellipsis. Report types
// use different limits (150 or 200) so the limit is a parameter.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// plural returns "s" when n is not one.
func plural(n int) string {
	if n != 1 {
		return "s"
	}
	return ""
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func rule(n int) string {
	return strings.Repeat("=", n)
}
