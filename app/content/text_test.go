package content

import (
	"reflect"
	"strings"
	"testing"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>Hello</p>", " Hello "},
		{"plain text", "plain text"},
		{"<p>Hello <strong>world</strong></p>", " Hello  world  "},
		{"a&amp;b", "a&b"},
		{"a&nbsp;b", "a b"},
		{"<div\nclass=\"x\">multi</div>", " multi "},
	}

	for _, test := range tests {
		result := StripTags(test.input)
		if result != test.expected {
			t.Errorf("StripTags(%q): expected %q, got %q", test.input, test.expected, result)
		}
	}
}

func TestStripTagsSeparatesAdjacentWords(t *testing.T) {
	// Tags become spaces so words from neighboring blocks do not merge
	result := NormalizeSpace(StripTags("<p>first</p><p>second</p>"))
	if result != "first second" {
		t.Errorf("Expected 'first second', got %q", result)
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  hello   world  ", "hello world"},
		{"a\n\tb", "a b"},
		{"", ""},
		{"   ", ""},
		{"one", "one"},
	}

	for _, test := range tests {
		result := NormalizeSpace(test.input)
		if result != test.expected {
			t.Errorf("NormalizeSpace(%q): expected %q, got %q", test.input, test.expected, result)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{"  spaced   out  words ", 3},
	}

	for _, test := range tests {
		result := CountWords(test.input)
		if result != test.expected {
			t.Errorf("CountWords(%q): expected %d, got %d", test.input, test.expected, result)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	result := SplitSentences("First sentence. Second one! Third? ")
	expected := []string{"First sentence", "Second one", "Third"}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}

	// Runs of terminal punctuation count once
	result = SplitSentences("Wait... really?!")
	expected = []string{"Wait", "really"}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}

	if got := SplitSentences(""); len(got) != 0 {
		t.Errorf("Expected no sentences for empty input, got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}

	got := Truncate("a very long sentence that keeps going", 10)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
	if len([]rune(got)) > 13 {
		t.Errorf("Expected at most 13 runes, got %d", len([]rune(got)))
	}

	// Exact boundary is not truncated
	if got := Truncate("exactly10c", 10); got != "exactly10c" {
		t.Errorf("Expected boundary string unchanged, got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  Seven Tips & Tricks!  ", "seven-tips-tricks"},
		{"Already-Slugged", "already-slugged"},
		{"CAPS AND 123 numbers", "caps-and-123-numbers"},
		{"---", ""},
	}

	for _, test := range tests {
		result := Slugify(test.input)
		if result != test.expected {
			t.Errorf("Slugify(%q): expected %q, got %q", test.input, test.expected, result)
		}
	}
}
