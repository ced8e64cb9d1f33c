package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps free-text input at
// maxLen bytes. A non-positive maxLen leaves the length alone.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
