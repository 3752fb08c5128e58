package content

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Validator runs the publish gate over a generated post. All checks run to
// completion so the caller sees every violation at once; only the image and
// link reachability checks touch the network, and those degrade to result
// entries instead of failing the run.
type Validator struct {
	policy     Policy
	httpClient *http.Client
	userAgent  string
}

var (
	passiveRe    = regexp.MustCompile(`(?i)\b(?:is|are|was|were|been|being)\s+\w+ed\b`)
	recentYearRe *regexp.Regexp

	// Self-referential phrases the generator keeps slipping in.
	bannedPhrases = []string{"this article", "this post", "this piece", "this blog"}

	// "this article" is fine when the sentence is citing someone else's work.
	citationMarkers = []string{"according to", "study", "research", "published in"}

	firstPersonMarkers = []string{
		"i've", "i'd", "i'm", "i believe", "i recommend", "i find",
		"in my experience", "my clients", "my team",
	}

	genericTitleTerms = []string{"guide", "tips", "overview", "things to know"}

	genericHeadings = []string{"introduction", "conclusion", "overview", "background", "summary"}
)

func init() {
	year := time.Now().Year()
	recentYearRe = regexp.MustCompile(fmt.Sprintf(`\b(%d|%d|%d)\b`, year, year-1, year-2))
}

func NewValidator(policy Policy, httpClient *http.Client, userAgent string) *Validator {
	return &Validator{
		policy:     policy,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Run validates a post and its optional featured image. The result is
// deterministic for identical inputs apart from the network reachability
// checks.
func (v *Validator) Run(ctx context.Context, post PostContent, image *ImageDescriptor) ValidationResult {
	res := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(post.HTML))
	if err != nil {
		slog.Warn("HTML body is not parseable, structural checks skipped", "error", err)
		res.addError("body HTML could not be parsed: %v", err)
		doc = nil
	}

	text := NormalizeSpace(StripTags(post.HTML))
	res.Metrics = v.collectMetrics(doc, text)

	v.checkTitle(&res, post.Title)
	v.checkStructure(&res, doc, post, text)
	v.checkVoice(&res, text)
	v.checkRegional(&res, text)
	v.checkSEO(&res, post, text)
	v.checkImage(ctx, &res, image)
	v.checkLinks(ctx, &res, doc)
	v.checkConclusion(&res, doc)

	res.Valid = len(res.Errors) == 0
	return res
}

func (v *Validator) collectMetrics(doc *goquery.Document, text string) ContentMetrics {
	metrics := ContentMetrics{
		WordCount:             CountWords(text),
		FirstPersonUsageCount: countOccurrences(text, firstPersonMarkers),
		RegionalMentionCount:  countOccurrences(text, v.policy.Regions),
	}

	if doc != nil {
		metrics.ParagraphCount = doc.Find("p").Length()
		metrics.HeadingCount = doc.Find("h1, h2, h3, h4, h5, h6").Length()
		metrics.LinkCount = len(externalLinks(doc))
	}

	return metrics
}

func (v *Validator) checkTitle(res *ValidationResult, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		res.addError("title is empty")
		return
	}

	if length := len([]rune(title)); length > v.policy.TitleMaxLength {
		res.addError("title is %d characters, maximum is %d", length, v.policy.TitleMaxLength)
	} else if length < v.policy.TitleMinLength {
		res.addWarning("title is %d characters, below the %d character SEO minimum", length, v.policy.TitleMinLength)
	}

	if strings.HasSuffix(title, "...") || strings.HasSuffix(title, "…") {
		res.addError("title ends with an ellipsis, generation was likely truncated")
	}

	if isGenericTitle(title) {
		res.addWarning("title looks generic: %q", title)
	}
}

// isGenericTitle flags filler titles like "A Guide" that carry no number or
// proper noun to distinguish them.
func isGenericTitle(title string) bool {
	lower := strings.ToLower(title)
	generic := false
	for _, term := range genericTitleTerms {
		if strings.Contains(lower, term) {
			generic = true
			break
		}
	}
	if !generic {
		return false
	}

	if strings.ContainsAny(title, "0123456789") {
		return false
	}

	words := strings.Fields(title)
	for i, word := range words {
		if i == 0 {
			continue
		}
		trimmed := strings.TrimLeft(word, "\"'(")
		if trimmed == "" {
			continue
		}
		first := rune(trimmed[0])
		lowerWord := strings.ToLower(trimmed)
		if first >= 'A' && first <= 'Z' && !isCommonTitleWord(lowerWord) {
			return false
		}
	}
	return true
}

func isCommonTitleWord(w string) bool {
	common := []string{
		"a", "an", "the", "and", "or", "for", "to", "of", "in", "on", "with",
		"guide", "tips", "overview", "complete", "ultimate", "best", "how", "what", "why", "your",
	}
	w = strings.Trim(w, ".,:;!?")
	for _, c := range common {
		if w == c {
			return true
		}
	}
	return false
}

func (v *Validator) checkStructure(res *ValidationResult, doc *goquery.Document, post PostContent, text string) {
	if strings.TrimSpace(post.HTML) == "" {
		res.addError("post body is empty")
		return
	}

	wordCount := res.Metrics.WordCount
	if wordCount < v.policy.MinWords {
		res.addError("word count %d is below the %d minimum", wordCount, v.policy.MinWords)
	} else if wordCount > v.policy.MaxWords {
		res.addError("word count %d exceeds the %d maximum", wordCount, v.policy.MaxWords)
	}

	longSentences := 0
	for _, sentence := range SplitSentences(text) {
		if CountWords(sentence) > v.policy.MaxSentenceWords {
			longSentences++
		}
	}
	if longSentences > v.policy.LongSentenceLimit {
		res.addWarning("%d sentences exceed %d words, consider breaking them up", longSentences, v.policy.MaxSentenceWords)
	}

	if doc == nil {
		return
	}

	if res.Metrics.ParagraphCount < v.policy.MinParagraphs {
		res.addWarning("only %d paragraphs, expected at least %d", res.Metrics.ParagraphCount, v.policy.MinParagraphs)
	}

	if h1Count := doc.Find("h1").Length(); h1Count > 1 {
		res.addWarning("%d H1 headings found, the destination keeps only the first", h1Count)
	}

	if h2Count := doc.Find("h2").Length(); h2Count < v.policy.MinH2Count {
		res.addWarning("only %d H2 headings, expected at least %d", h2Count, v.policy.MinH2Count)
	}

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		heading := NormalizeSpace(s.Text())
		lower := strings.ToLower(heading)
		for _, generic := range genericHeadings {
			if lower == generic {
				res.addWarning("heading %q is too generic", heading)
				break
			}
		}
	})

	if doc.Find("ul, ol").Length() == 0 {
		res.addWarning("no lists found, bullet points improve scannability")
	}

	if doc.Find("strong, b").Length() == 0 {
		res.addWarning("no bold emphasis found")
	}

	if post.TemplateType.RequiresFAQ() && !hasFAQSection(doc) {
		res.addError("template %q requires an H2 \"Frequently Asked Questions\" section", post.TemplateType)
	}
}

func hasFAQSection(doc *goquery.Document) bool {
	found := false
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(strings.ToLower(NormalizeSpace(s.Text())), "frequently asked questions") {
			found = true
		}
	})
	return found
}

func (v *Validator) checkVoice(res *ValidationResult, text string) {
	banned := append([]string{}, bannedPhrases...)
	banned = append(banned, v.policy.BannedPhrases...)

	for _, sentence := range SplitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, phrase := range banned {
			if !strings.Contains(lower, strings.ToLower(phrase)) {
				continue
			}
			if phrase == "this article" && containsAny(lower, citationMarkers) {
				continue
			}
			res.addError("banned phrase %q in: %q", phrase, Truncate(sentence, 80))
			break
		}
	}

	if passiveCount := len(passiveRe.FindAllString(text, -1)); passiveCount > v.policy.PassiveVoiceLimit {
		res.addWarning("%d passive voice constructions found, limit is %d", passiveCount, v.policy.PassiveVoiceLimit)
	}

	if v.policy.MinFirstPerson > 0 && res.Metrics.FirstPersonUsageCount < v.policy.MinFirstPerson {
		res.addError("only %d first-person markers, persona voice requires at least %d",
			res.Metrics.FirstPersonUsageCount, v.policy.MinFirstPerson)
	}
}

func (v *Validator) checkRegional(res *ValidationResult, text string) {
	if v.policy.RequireRegional && len(v.policy.Regions) > 0 {
		switch mentions := res.Metrics.RegionalMentionCount; mentions {
		case 0:
			res.addError("no mentions of configured regions %v", v.policy.Regions)
		case 1:
			res.addWarning("only one regional mention, local framing is thin")
		}
	}

	if !recentYearRe.MatchString(text) {
		res.addWarning("no recent year mentioned, examples and statistics may read as stale")
	}
}

func (v *Validator) checkSEO(res *ValidationResult, post PostContent, text string) {
	metaTitle := strings.TrimSpace(post.MetaTitle)
	if metaTitle == "" {
		res.addError("meta title is missing")
	} else if length := len([]rune(metaTitle)); length > v.policy.MetaTitleMaxLength {
		res.addError("meta title is %d characters, maximum is %d", length, v.policy.MetaTitleMaxLength)
	}

	metaDesc := strings.TrimSpace(post.MetaDescription)
	if metaDesc == "" {
		res.addError("meta description is missing")
	} else {
		switch length := len([]rune(metaDesc)); {
		case length > v.policy.MetaDescMaxLength:
			res.addError("meta description is %d characters, maximum is %d", length, v.policy.MetaDescMaxLength)
		case length < v.policy.MetaDescMinLength:
			res.addWarning("meta description is %d characters, below the %d character target", length, v.policy.MetaDescMinLength)
		}
	}

	keyword := strings.TrimSpace(post.Keyword)
	if keyword == "" || res.Metrics.WordCount == 0 {
		return
	}

	occurrences := strings.Count(strings.ToLower(text), strings.ToLower(keyword))
	density := float64(occurrences) / float64(res.Metrics.WordCount) * 100
	if density < v.policy.KeywordDensityMin {
		res.addWarning("keyword %q density %.2f%% is below the %.1f%% target", keyword, density, v.policy.KeywordDensityMin)
	} else if density > v.policy.KeywordDensityMax {
		res.addWarning("keyword %q density %.2f%% looks over-optimized (limit %.1f%%)", keyword, density, v.policy.KeywordDensityMax)
	}
}

func (v *Validator) checkImage(ctx context.Context, res *ValidationResult, image *ImageDescriptor) {
	if image == nil || image.URL == "" {
		res.addWarning("no featured image")
		return
	}

	status, contentType, err := v.headRequest(ctx, image.URL)
	if err != nil {
		res.addError("featured image is unreachable: %v", err)
	} else if status != http.StatusOK {
		res.addError("featured image URL returned HTTP %d", status)
	} else if !strings.HasPrefix(contentType, "image/") {
		res.addError("featured image URL returned content type %q, expected an image", contentType)
	}

	altLength := len([]rune(strings.TrimSpace(image.AltText)))
	if altLength < v.policy.AltTextMinLength || altLength > v.policy.AltTextMaxLength {
		res.addWarning("image alt text is %d characters, expected between %d and %d",
			altLength, v.policy.AltTextMinLength, v.policy.AltTextMaxLength)
	}
}

func (v *Validator) checkLinks(ctx context.Context, res *ValidationResult, doc *goquery.Document) {
	if doc == nil {
		return
	}

	links := externalLinks(doc)
	if len(links) < v.policy.MinLinks {
		res.addWarning("only %d external links, expected at least %d citations", len(links), v.policy.MinLinks)
	}

	sample := links
	if len(sample) > v.policy.LinkCheckLimit {
		sample = sample[:v.policy.LinkCheckLimit]
	}
	for _, link := range sample {
		status, _, err := v.headRequest(ctx, link)
		if err != nil {
			res.addWarning("link %s is unreachable: %v", link, err)
		} else if status >= http.StatusBadRequest {
			res.addWarning("link %s returned HTTP %d", link, status)
		}
	}
}

// checkConclusion enforces the trailing-block rules: the closing paragraph
// must stand alone, without a heading directly above it, links, or bold
// markup inside it.
func (v *Validator) checkConclusion(res *ValidationResult, doc *goquery.Document) {
	if doc == nil {
		return
	}

	last := doc.Find("p").Last()
	if last.Length() == 0 {
		return
	}

	if prev := last.Prev(); prev.Length() > 0 {
		if name := goquery.NodeName(prev); len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
			res.addError("conclusion paragraph directly follows a %s heading, conclusions must stand alone", name)
		}
	}

	if last.Find("a").Length() > 0 {
		res.addError("conclusion paragraph contains a link")
	}

	if last.Find("strong, b").Length() > 0 {
		res.addError("conclusion paragraph contains bold markup")
	}

	words := CountWords(NormalizeSpace(last.Text()))
	if words < v.policy.ConclusionMinWords || words > v.policy.ConclusionMaxWords {
		res.addWarning("conclusion paragraph is %d words, expected between %d and %d",
			words, v.policy.ConclusionMinWords, v.policy.ConclusionMaxWords)
	}
}

// headRequest probes a URL with a short timeout. Only the status code and
// content type are consumed.
func (v *Validator) headRequest(ctx context.Context, url string) (int, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, v.policy.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	return resp.StatusCode, resp.Header.Get("Content-Type"), nil
}

func externalLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			links = append(links, href)
		}
	})
	return links
}

func countOccurrences(text string, terms []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		count += strings.Count(lower, strings.ToLower(term))
	}
	return count
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
