package content

import (
	"html"
	"regexp"
	"strings"
)

// Shared text utilities used by both the validator and the document converter.

var (
	tagRe      = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe    = regexp.MustCompile(`\s+`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
	slugRe     = regexp.MustCompile(`[^a-z0-9]+`)
)

// StripTags removes all HTML tags and decodes character entities, leaving
// plain text. Tags are replaced by a space so adjacent words do not merge.
func StripTags(s string) string {
	stripped := tagRe.ReplaceAllString(s, " ")
	decoded := html.UnescapeString(stripped)
	// &nbsp; decodes to U+00A0, which whitespace handling would otherwise miss.
	return strings.ReplaceAll(decoded, "\u00a0", " ")
}

// NormalizeSpace collapses whitespace runs into single spaces and trims the
// result.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// CountWords counts whitespace-separated words in plain text.
func CountWords(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return len(strings.Fields(s))
}

// SplitSentences splits plain text on terminal punctuation. Empty fragments
// are dropped.
func SplitSentences(s string) []string {
	parts := sentenceRe.Split(s, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// Truncate shortens s to at most max runes for use in diagnostic messages.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// Slugify converts a title into a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(NormalizeSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
