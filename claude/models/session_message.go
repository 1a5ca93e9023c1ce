package models

import "strings"

// filterSystemTags removes system-injected XML tags from text.
// Returns empty string if text is only system tags.
func filterSystemTags(text string) string {
	if strings.HasPrefix(text, "<ide_") ||
		strings.HasPrefix(text, "<system-reminder>") {
		return ""
	}
	return strings.TrimSpace(text)
}
