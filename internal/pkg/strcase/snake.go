// Package strcase converts Go identifiers into the snake_case keys used in
// API error payloads.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts s to lower snake_case, keeping initialisms together:
// "SubscriptionToken" → "subscription_token", "BaseURL" → "base_url",
// "HTTPServer" → "http_server".
func ToLowerSnake(s string) string {
	return strings.Join(words(s), "_")
}

func words(s string) []string {
	runes := []rune(s)
	out := make([]string, 0, 4)
	start := 0

	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		lowerToUpper := (unicode.IsLower(prev) || unicode.IsDigit(prev)) && unicode.IsUpper(cur)
		acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1])

		if lowerToUpper || acronymEnd {
			out = append(out, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}

	if start < len(runes) {
		out = append(out, strings.ToLower(string(runes[start:])))
	}

	return out
}
