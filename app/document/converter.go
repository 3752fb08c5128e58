package document

import (
	"log/slog"
	"regexp"
	"strings"
)

// FallbackMessage is the body of the single paragraph returned when
// conversion cannot proceed at all. Losing a generated draft outright is
// worse than publishing a placeholder the operator will notice.
const FallbackMessage = "Automatic formatting of this draft failed and the content needs manual review."

var (
	fenceRe   = regexp.MustCompile("(?m)^```[a-zA-Z]*[ \t]*$|```")
	doctypeRe = regexp.MustCompile(`(?is)<!DOCTYPE[^>]*>`)
	headRe    = regexp.MustCompile(`(?is)<head(?:\s[^>]*)?>.*?</head\s*>`)
	wrapperRe = regexp.MustCompile(`(?is)</?\s*(?:html|body)(?:\s[^>]*)?>`)
	openRe    = regexp.MustCompile(`(?is)<(h[1-6]|p|ul|ol|blockquote)(?:\s[^>]*)?>`)
	liRe      = regexp.MustCompile(`(?is)<li(?:\s[^>]*)?>(.*?)</\s*li\s*>`)

	closeRes = buildCloseRes()
)

func buildCloseRes() map[string]*regexp.Regexp {
	tags := []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "ol", "blockquote"}
	out := make(map[string]*regexp.Regexp, len(tags))
	for _, tag := range tags {
		out[tag] = regexp.MustCompile(`(?i)</\s*` + tag + `\s*>`)
	}
	return out
}

// Converter turns LLM-generated HTML into the block document the publishing
// system accepts. It is a best-effort scanner, not an HTML parser: blocks
// that cannot be matched are dropped with a log line and every other
// degradation path ends in a bounded fallback, never a crash.
type Converter struct{}

func NewConverter() *Converter {
	return &Converter{}
}

// Run converts an HTML string into an ordered block sequence. It never
// panics and never returns an empty document; the worst case is the single
// fallback paragraph.
func (c *Converter) Run(input string) (blocks []Block) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Document conversion failed, returning fallback document", "panic", r)
			blocks = fallbackDocument()
		}
	}()

	cleaned := preClean(input)
	blocks = c.scanBlocks(cleaned)

	if len(blocks) == 0 {
		slog.Warn("No convertible blocks found, returning fallback document", "input_length", len(input))
		blocks = fallbackDocument()
	}
	return blocks
}

// preClean strips document wrappers and code fences the generator sometimes
// emits around the HTML. Textual best effort, not a parse.
func preClean(s string) string {
	s = fenceRe.ReplaceAllString(s, "")
	s = doctypeRe.ReplaceAllString(s, "")
	s = headRe.ReplaceAllString(s, "")
	s = wrapperRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// scanBlocks walks the cleaned HTML for top-level block elements in document
// order. An open tag with no matching close tag is skipped; the scan resumes
// right after it so sibling blocks still convert.
func (c *Converter) scanBlocks(s string) []Block {
	var blocks []Block
	h1Dropped := false

	pos := 0
	for pos < len(s) {
		loc := openRe.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		openStart := pos + loc[0]
		openEnd := pos + loc[1]
		tag := strings.ToLower(s[pos+loc[2] : pos+loc[3]])

		closeLoc := closeRes[tag].FindStringIndex(s[openEnd:])
		if closeLoc == nil {
			slog.Debug("Unclosed block skipped", "tag", tag, "offset", openStart)
			pos = openEnd
			continue
		}
		inner := s[openEnd : openEnd+closeLoc[0]]
		pos = openEnd + closeLoc[1]

		if tag == "h1" && !h1Dropped {
			// The destination supplies the post title itself; the first H1
			// would duplicate it.
			h1Dropped = true
			continue
		}

		if block, ok := c.convertBlock(tag, inner); ok {
			blocks = append(blocks, block)
		}
	}

	return blocks
}

// convertBlock builds a single block node. A failure inside one block drops
// just that block.
func (c *Converter) convertBlock(tag, inner string) (block Block, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Block conversion failed, block skipped", "tag", tag, "panic", r)
			block, ok = nil, false
		}
	}()

	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		inline := parseInline(inner)
		if len(inline) == 0 {
			return nil, false
		}
		return Heading{Level: int(tag[1] - '0'), Inline: inline}, true

	case "p":
		inline := parseInline(inner)
		if len(inline) == 0 {
			return nil, false
		}
		return Paragraph{Inline: inline}, true

	case "ul", "ol":
		var items [][]Inline
		for _, m := range liRe.FindAllStringSubmatch(inner, -1) {
			if item := parseInline(m[1]); len(item) > 0 {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return nil, false
		}
		return List{Ordered: tag == "ol", Items: items}, true

	case "blockquote":
		value, textOK := inlineText(inner, true)
		if !textOK {
			return nil, false
		}
		return Quote{Inline: []Inline{Text{Value: value}}}, true
	}

	return nil, false
}

func fallbackDocument() []Block {
	return []Block{
		Paragraph{Inline: []Inline{Text{Value: FallbackMessage}}},
	}
}
