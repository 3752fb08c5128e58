package cms

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/MinPika/ignition-automation/app/document"
)

func TestSerializeHeading(t *testing.T) {
	blocks := []document.Block{
		document.Heading{Level: 2, Inline: []document.Inline{document.Text{Value: "Section"}}},
	}

	nodes := Serialize(blocks)

	expected := []Node{
		{
			Type:     "heading",
			Tag:      "h2",
			Children: []Node{{Type: "text", Text: "Section"}},
		},
	}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %+v, got %+v", expected, nodes)
	}
}

func TestSerializeParagraphWithInline(t *testing.T) {
	blocks := []document.Block{
		document.Paragraph{Inline: []document.Inline{
			document.Text{Value: "Read "},
			document.Bold{Value: "this"},
			document.Text{Value: " and "},
			document.Link{URL: "https://example.com", Text: "that"},
		}},
	}

	nodes := Serialize(blocks)

	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}
	node := nodes[0]
	if node.Type != "paragraph" {
		t.Errorf("Expected paragraph type, got %q", node.Type)
	}
	if len(node.Children) != 4 {
		t.Fatalf("Expected 4 children, got %d", len(node.Children))
	}
	if node.Children[1].Format != "bold" || node.Children[1].Text != "this" {
		t.Errorf("Expected bold text child, got %+v", node.Children[1])
	}
	if node.Children[3].Type != "link" || node.Children[3].URL != "https://example.com" {
		t.Errorf("Expected link child, got %+v", node.Children[3])
	}
}

func TestSerializeLists(t *testing.T) {
	blocks := []document.Block{
		document.List{Ordered: false, Items: [][]document.Inline{
			{document.Text{Value: "first"}},
			{document.Text{Value: "second"}},
		}},
		document.List{Ordered: true, Items: [][]document.Inline{
			{document.Text{Value: "step"}},
		}},
	}

	nodes := Serialize(blocks)

	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Type != "list" || nodes[0].ListType != "unordered" {
		t.Errorf("Expected unordered list, got %+v", nodes[0])
	}
	if len(nodes[0].Children) != 2 || nodes[0].Children[0].Type != "listitem" {
		t.Errorf("Expected listitem children, got %+v", nodes[0].Children)
	}
	if nodes[1].ListType != "ordered" {
		t.Errorf("Expected ordered list, got %+v", nodes[1])
	}
}

func TestSerializeQuote(t *testing.T) {
	blocks := []document.Block{
		document.Quote{Inline: []document.Inline{document.Text{Value: "Keep it simple."}}},
	}

	nodes := Serialize(blocks)

	expected := []Node{
		{
			Type:     "quote",
			Children: []Node{{Type: "text", Text: "Keep it simple."}},
		},
	}
	if !reflect.DeepEqual(nodes, expected) {
		t.Errorf("Expected %+v, got %+v", expected, nodes)
	}
}

func TestSerializeEmpty(t *testing.T) {
	nodes := Serialize(nil)
	if len(nodes) != 0 {
		t.Errorf("Expected empty result, got %+v", nodes)
	}
}

func TestSerializeJSONOmitsEmptyFields(t *testing.T) {
	nodes := Serialize([]document.Block{
		document.Paragraph{Inline: []document.Inline{document.Text{Value: "plain"}}},
	})

	data, err := json.Marshal(nodes)
	if err != nil {
		t.Fatal(err)
	}

	raw := string(data)
	for _, field := range []string{"tag", "listType", "format", "url", "children\":null"} {
		if strings.Contains(raw, field) {
			t.Errorf("Expected %q omitted from JSON, got %s", field, raw)
		}
	}
	if !strings.Contains(raw, `"type":"paragraph"`) {
		t.Errorf("Expected paragraph type in JSON, got %s", raw)
	}
}
