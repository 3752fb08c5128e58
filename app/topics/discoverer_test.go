package topics

import (
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Marketing News</title>
	<link>https://news.example.com</link>
	<description>Industry updates</description>
	<item>
		<title>How to Improve Landing Page Conversion Rates</title>
		<link>https://news.example.com/landing-pages</link>
		<description>Practical tips for better conversion.</description>
	</item>
	<item>
		<title>EMAIL AUTOMATION TRENDS</title>
		<link>https://news.example.com/email-trends</link>
		<description>Where email automation is heading.</description>
	</item>
	<item>
		<title></title>
		<link>https://news.example.com/untitled</link>
	</item>
</channel>
</rss>`

func TestDiscovererRun(t *testing.T) {
	discoverer := NewDiscoverer()

	candidates, err := discoverer.Run([]byte(sampleFeed), 0)
	if err != nil {
		t.Fatal(err)
	}

	// Item without a title is dropped
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Title != "How to Improve Landing Page Conversion Rates" {
		t.Errorf("Expected original title preserved, got '%s'", first.Title)
	}
	if first.Link != "https://news.example.com/landing-pages" {
		t.Errorf("Expected item link, got '%s'", first.Link)
	}
	if first.Summary != "Practical tips for better conversion." {
		t.Errorf("Expected item description as summary, got '%s'", first.Summary)
	}
	if first.ContentHash == "" {
		t.Error("Expected non-empty content hash")
	}
	if len(first.ContentHash) != 64 {
		t.Errorf("Expected SHA-256 hex hash, got %d chars", len(first.ContentHash))
	}
}

func TestDiscovererRunMaxItems(t *testing.T) {
	discoverer := NewDiscoverer()

	candidates, err := discoverer.Run([]byte(sampleFeed), 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(candidates) != 1 {
		t.Errorf("Expected 1 candidate with maxItems=1, got %d", len(candidates))
	}
}

func TestDiscovererRunInvalidFeed(t *testing.T) {
	discoverer := NewDiscoverer()

	_, err := discoverer.Run([]byte("not a feed"), 0)
	if err == nil {
		t.Error("Expected error for invalid feed data")
	}
}

func TestDiscovererNormalizeTitle(t *testing.T) {
	discoverer := NewDiscoverer()

	// Shouting titles get title-cased
	normalized := discoverer.normalizeTitle("EMAIL AUTOMATION TRENDS")
	if normalized != "Email Automation Trends" {
		t.Errorf("Expected 'Email Automation Trends', got '%s'", normalized)
	}

	// All-lowercase titles get title-cased
	normalized = discoverer.normalizeTitle("email automation trends")
	if normalized != "Email Automation Trends" {
		t.Errorf("Expected 'Email Automation Trends', got '%s'", normalized)
	}

	// Mixed-case titles are left alone
	original := "How to Improve SEO for SaaS"
	if got := discoverer.normalizeTitle(original); got != original {
		t.Errorf("Expected mixed-case title unchanged, got '%s'", got)
	}
}

func TestDiscovererDeriveKeyword(t *testing.T) {
	discoverer := NewDiscoverer()

	tests := []struct {
		title    string
		expected string
	}{
		{"How to Improve Landing Page Conversion Rates", "improve landing page"},
		{"The Best CRM Tools", "best crm tools"},
		{"Why Your Email Campaigns Fail", "email campaigns fail"},
		{"SEO", "seo"},
		{"", ""},
	}

	for _, test := range tests {
		keyword := discoverer.deriveKeyword(test.title)
		if keyword != test.expected {
			t.Errorf("Title '%s': expected keyword '%s', got '%s'", test.title, test.expected, keyword)
		}
	}
}

func TestDiscovererContentHashStability(t *testing.T) {
	discoverer := NewDiscoverer()

	candidate := Candidate{
		Title: "Email Automation Trends",
		Link:  "https://news.example.com/email-trends",
	}

	hash1 := discoverer.generateContentHash(candidate)
	hash2 := discoverer.generateContentHash(candidate)
	if hash1 != hash2 {
		t.Error("Expected content hash to be deterministic")
	}

	// Summary changes must not change the hash
	candidate.Summary = "updated description"
	if discoverer.generateContentHash(candidate) != hash1 {
		t.Error("Expected hash to depend on title and link only")
	}

	// Link changes must change the hash
	candidate.Link = "https://news.example.com/other"
	if discoverer.generateContentHash(candidate) == hash1 {
		t.Error("Expected different hash for different link")
	}

	if !strings.EqualFold(hash1, strings.ToLower(hash1)) {
		t.Error("Expected lowercase hex hash")
	}
}
