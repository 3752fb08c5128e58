package topics

import (
	"strings"
	"testing"
)

func TestSummaryExtractorRun(t *testing.T) {
	extractor := NewSummaryExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Test Article</title>
	</head>
	<body>
		<header>
			<h1>Site Header</h1>
			<nav>Navigation</nav>
		</header>
		<main>
			<article>
				<h1>Main Article Title</h1>
				<p>This is the main content of the article. It contains several paragraphs of meaningful text that should be extracted by the readability algorithm.</p>
				<p>This is another paragraph with more content. The readability algorithm should identify this as the main content area and extract it properly.</p>
				<p>Here is some more substantial content to ensure we meet the character threshold. This paragraph adds more context and information that would be valuable to readers.</p>
			</article>
		</main>
		<aside>
			<div>Advertisement</div>
		</aside>
		<footer>
			<p>Copyright 2024</p>
		</footer>
	</body>
	</html>
	`

	summary, err := extractor.Run([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if summary == "" {
		t.Fatal("Expected non-empty summary")
	}

	if !strings.Contains(summary, "main content of the article") {
		t.Error("Expected summary to contain main article text")
	}

	// Summary is plain text
	if strings.Contains(summary, "<p>") || strings.Contains(summary, "<div>") {
		t.Error("Expected summary to have no HTML tags")
	}

	if strings.Contains(summary, "Advertisement") {
		t.Error("Expected summary to exclude sidebar content")
	}
}

func TestSummaryExtractorTruncation(t *testing.T) {
	extractor := NewSummaryExtractor()

	var paragraphs []string
	for i := 0; i < 20; i++ {
		paragraphs = append(paragraphs, `<p>This paragraph contains substantial content that should be extracted by the readability algorithm. The content is meaningful and provides value to readers interested in the topic.</p>`)
	}

	htmlContent := `<html><body><main><article><h1>Long Article</h1>` +
		strings.Join(paragraphs, "\n") + `</article></main></body></html>`

	summary, err := extractor.Run([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Expected no error for long article, got: %v", err)
	}

	if len([]rune(summary)) > summaryMaxLength+3 {
		t.Errorf("Expected summary capped near %d chars, got %d", summaryMaxLength, len([]rune(summary)))
	}
	if !strings.HasSuffix(summary, "...") {
		t.Error("Expected truncated summary to end with ellipsis")
	}
}

func TestSummaryExtractorEmptyData(t *testing.T) {
	extractor := NewSummaryExtractor()

	summary, err := extractor.Run([]byte{})
	if err == nil {
		t.Error("Expected error for empty data")
	}
	if summary != "" {
		t.Error("Expected empty summary for empty data")
	}

	expectedError := "HTML data is empty"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}
}

func TestSummaryExtractorNilData(t *testing.T) {
	extractor := NewSummaryExtractor()

	summary, err := extractor.Run(nil)
	if err == nil {
		t.Error("Expected error for nil data")
	}
	if summary != "" {
		t.Error("Expected empty summary for nil data")
	}
}
