package categories

import (
	"regexp"
	"strings"
)

var (
	descriptionPattern = regexp.MustCompile(`^[a-zA-Z0-9áéíóúÁÉÍÓÚñÑ\s]+$`)
	slugStrip          = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	slugCollapse       = regexp.MustCompile(`[\s-]+`)
)

// generateSlug lowercases name and joins words with hyphens.
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func isValidDescription(description string) bool {
	return descriptionPattern.MatchString(description)
}
