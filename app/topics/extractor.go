package topics

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/MinPika/ignition-automation/app/content"
)

// summaryMaxLength caps stored topic summaries.
const summaryMaxLength = 500

type SummaryExtractor struct{}

func NewSummaryExtractor() *SummaryExtractor {
	return &SummaryExtractor{}
}

// Run extracts the readable article body from a fetched source page and
// reduces it to a plain-text summary used as background for the topic.
func (e *SummaryExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	if article.Content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	summary := content.NormalizeSpace(content.StripTags(article.Content))
	if summary == "" {
		return "", fmt.Errorf("extracted content is empty after cleanup")
	}
	summary = content.Truncate(summary, summaryMaxLength)

	slog.Debug("Summary extracted successfully",
		"title", article.Title,
		"summary_length", len(summary))

	return summary, nil
}
