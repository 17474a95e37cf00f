package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// SanitizeRich keeps safe formatting markup in longer text such as descriptions and bios.
func SanitizeRich(input string) string {
	return strings.TrimSpace(richPolicy.Sanitize(input))
}

// SanitizePlain strips all markup from short labels such as titles and categories.
func SanitizePlain(input string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(input)))
}
