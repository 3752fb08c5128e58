package document

import (
	"html"
	"regexp"
	"strings"
)

var (
	spanRe = regexp.MustCompile(`(?is)<(?:strong|b)(?:\s[^>]*)?>(.*?)</\s*(?:strong|b)\s*>` +
		`|<a\s[^>]*?href\s*=\s*(?:"([^"]*)"|'([^']*)')[^>]*>(.*?)</\s*a\s*>`)
	brRe         = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	inlineTagRe  = regexp.MustCompile(`(?s)<[^>]*>`)
	horizSpaceRe = regexp.MustCompile(`[^\S\n]+`)
)

// parseInline scans a block's inner HTML for bold spans and anchors, emitting
// plain text for everything between them. Nodes whose decoded text is empty
// are dropped. A non-empty block that parses to zero nodes falls back to one
// plain text node so content is never silently lost.
func parseInline(raw string) []Inline {
	var nodes []Inline

	matches := spanRe.FindAllStringSubmatchIndex(raw, -1)
	pos := 0
	for _, m := range matches {
		if gap := raw[pos:m[0]]; gap != "" {
			if value, ok := inlineText(gap, false); ok {
				nodes = append(nodes, Text{Value: value})
			}
		}

		switch {
		case m[2] >= 0: // strong/b
			if value, ok := inlineText(raw[m[2]:m[3]], true); ok {
				nodes = append(nodes, Bold{Value: value})
			}
		default: // anchor
			url := ""
			if m[4] >= 0 {
				url = raw[m[4]:m[5]]
			} else if m[6] >= 0 {
				url = raw[m[6]:m[7]]
			}
			if value, ok := inlineText(raw[m[8]:m[9]], true); ok {
				nodes = append(nodes, Link{URL: strings.TrimSpace(url), Text: value})
			}
		}
		pos = m[1]
	}

	if gap := raw[pos:]; gap != "" {
		if value, ok := inlineText(gap, false); ok {
			nodes = append(nodes, Text{Value: value})
		}
	}

	if len(nodes) == 0 {
		if value, ok := inlineText(raw, true); ok {
			nodes = append(nodes, Text{Value: value})
		}
	}

	return nodes
}

// inlineText normalizes a raw HTML fragment into node text: <br> becomes a
// newline, remaining tags are stripped, entities are decoded, and horizontal
// whitespace runs collapse to single spaces. The boolean is false when the
// result is empty after trimming, which callers treat as "drop this node".
// Trimming of the surviving text itself is only applied when trim is set, so
// plain text runs keep their separating spaces.
func inlineText(raw string, trim bool) (string, bool) {
	s := brRe.ReplaceAllString(raw, "\n")
	s = inlineTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = horizSpaceRe.ReplaceAllString(s, " ")

	if strings.TrimSpace(s) == "" {
		return "", false
	}
	if trim {
		s = strings.TrimSpace(s)
	}
	return s, true
}
