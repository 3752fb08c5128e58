package document

import (
	"reflect"
	"testing"
)

func TestParseInlinePlainText(t *testing.T) {
	nodes := parseInline("Just plain text.")
	expected := []Inline{Text{Value: "Just plain text."}}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}
}

func TestParseInlineGapsKeepSpacing(t *testing.T) {
	nodes := parseInline("before <strong>bold</strong> after")

	expected := []Inline{
		Text{Value: "before "},
		Bold{Value: "bold"},
		Text{Value: " after"},
	}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}
}

func TestParseInlineNoSpaceAdjacency(t *testing.T) {
	// A word butting directly against markup still becomes its own node
	nodes := parseInline("word<strong>x</strong>")

	expected := []Inline{
		Text{Value: "word"},
		Bold{Value: "x"},
	}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}

	nodes = parseInline(`tap<a href="https://example.com">here</a>now`)
	expected = []Inline{
		Text{Value: "tap"},
		Link{URL: "https://example.com", Text: "here"},
		Text{Value: "now"},
	}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}
}

func TestParseInlineBoldTrimmed(t *testing.T) {
	nodes := parseInline("<strong>  padded  </strong>")
	expected := []Inline{Bold{Value: "padded"}}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}

	// <b> is treated the same as <strong>
	nodes = parseInline("<b>short</b>")
	expected = []Inline{Bold{Value: "short"}}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}
}

func TestParseInlineLinks(t *testing.T) {
	nodes := parseInline(`See <a href="https://example.com/guide" target="_blank">the guide</a>.`)

	expected := []Inline{
		Text{Value: "See "},
		Link{URL: "https://example.com/guide", Text: "the guide"},
		Text{Value: "."},
	}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}
}

func TestParseInlineLinkSingleQuotes(t *testing.T) {
	nodes := parseInline(`<a href='https://example.com'>home</a>`)

	expected := []Inline{Link{URL: "https://example.com", Text: "home"}}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}
}

func TestParseInlineEmptySpansDropped(t *testing.T) {
	nodes := parseInline("text <strong>   </strong> more")

	expected := []Inline{
		Text{Value: "text "},
		Text{Value: " more"},
	}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}
}

func TestParseInlineFallbackSingleNode(t *testing.T) {
	// Unknown inline markup still yields one text node with tags stripped
	nodes := parseInline("<em>emphasis</em> and <code>snippet</code>")

	expected := []Inline{Text{Value: "emphasis and snippet"}}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %v, got %v", expected, nodes)
	}
}

func TestParseInlineEmpty(t *testing.T) {
	if nodes := parseInline(""); len(nodes) != 0 {
		t.Errorf("Expected no nodes for empty input, got %v", nodes)
	}
	if nodes := parseInline("   \t "); len(nodes) != 0 {
		t.Errorf("Expected no nodes for whitespace input, got %v", nodes)
	}
}

func TestInlineText(t *testing.T) {
	tests := []struct {
		input    string
		trim     bool
		expected string
		ok       bool
	}{
		{"plain", true, "plain", true},
		{"  padded  ", true, "padded", true},
		{"  padded  ", false, " padded ", true},
		{"a<br>b", true, "a\nb", true},
		{"a<br />b", true, "a\nb", true},
		{"a <span>b</span> c", true, "a b c", true},
		{"a&amp;b", true, "a&b", true},
		{"a&nbsp;b", true, "a b", true},
		{"a \t  b", true, "a b", true},
		{"", true, "", false},
		{"   ", true, "", false},
		{"<span></span>", true, "", false},
	}

	for _, test := range tests {
		result, ok := inlineText(test.input, test.trim)
		if result != test.expected || ok != test.ok {
			t.Errorf("inlineText(%q, %v): expected (%q, %v), got (%q, %v)",
				test.input, test.trim, test.expected, test.ok, result, ok)
		}
	}
}

func TestInlineTextPreservesNewlines(t *testing.T) {
	// Horizontal whitespace collapses but newlines from <br> survive
	result, ok := inlineText("line one<br>  line   two", true)
	if !ok {
		t.Fatal("Expected ok result")
	}
	if result != "line one\n line two" {
		t.Errorf("Expected newline preserved, got %q", result)
	}
}
