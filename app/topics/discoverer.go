package topics

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stopwords are skipped when deriving the target keyword from a topic title.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"how": true, "in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "what": true,
	"when": true, "where": true, "why": true, "will": true, "with": true,
	"you": true, "your": true,
}

type Discoverer struct {
	gofeedParser *gofeed.Parser
	titleCaser   cases.Caser
}

func NewDiscoverer() *Discoverer {
	return &Discoverer{
		gofeedParser: gofeed.NewParser(),
		titleCaser:   cases.Title(language.English),
	}
}

// Run parses feed data from a source and returns topic candidates, newest
// first as the feed orders them, capped at maxItems.
func (d *Discoverer) Run(data []byte, maxItems int) ([]Candidate, error) {
	feed, err := d.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	candidates := make([]Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if maxItems > 0 && len(candidates) >= maxItems {
			break
		}

		candidate := d.normalizeItem(item)
		if candidate.Title == "" || candidate.Link == "" {
			continue
		}
		candidate.ContentHash = d.generateContentHash(candidate)
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func (d *Discoverer) normalizeItem(item *gofeed.Item) Candidate {
	title := strings.TrimSpace(item.Title)

	return Candidate{
		Title:   d.normalizeTitle(title),
		Link:    strings.TrimSpace(item.Link),
		Keyword: d.deriveKeyword(title),
		Summary: strings.TrimSpace(item.Description),
	}
}

// normalizeTitle applies title case to shouting or all-lowercase feed titles
// and leaves mixed-case titles alone.
func (d *Discoverer) normalizeTitle(title string) string {
	if title == strings.ToUpper(title) || title == strings.ToLower(title) {
		return d.titleCaser.String(strings.ToLower(title))
	}
	return title
}

// deriveKeyword picks the first three non-stopword terms of the title.
func (d *Discoverer) deriveKeyword(title string) string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.Trim(word, ".,:;!?\"'()[]")
		if word == "" || stopwords[word] {
			continue
		}
		terms = append(terms, word)
		if len(terms) == 3 {
			break
		}
	}
	return strings.Join(terms, " ")
}

func (d *Discoverer) generateContentHash(candidate Candidate) string {
	content := fmt.Sprintf("%s|%s",
		candidate.Title,
		candidate.Link)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
