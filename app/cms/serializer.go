package cms

import (
	"fmt"

	"github.com/MinPika/ignition-automation/app/document"
)

// Node is one element of the CMS document schema: block nodes carry a type
// plus tag/listType, inline children carry text/format/url.
type Node struct {
	Type     string `json:"type"`
	Tag      string `json:"tag,omitempty"`
	ListType string `json:"listType,omitempty"`
	Format   string `json:"format,omitempty"`
	Text     string `json:"text,omitempty"`
	URL      string `json:"url,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Serialize maps the abstract block tree onto the CMS wire schema. The
// mapping is mechanical; all content decisions were made by the converter.
func Serialize(blocks []document.Block) []Node {
	nodes := make([]Node, 0, len(blocks))
	for _, block := range blocks {
		switch b := block.(type) {
		case document.Heading:
			nodes = append(nodes, Node{
				Type:     "heading",
				Tag:      fmt.Sprintf("h%d", b.Level),
				Children: serializeInline(b.Inline),
			})
		case document.Paragraph:
			nodes = append(nodes, Node{
				Type:     "paragraph",
				Children: serializeInline(b.Inline),
			})
		case document.List:
			listType := "unordered"
			if b.Ordered {
				listType = "ordered"
			}
			items := make([]Node, 0, len(b.Items))
			for _, item := range b.Items {
				items = append(items, Node{
					Type:     "listitem",
					Children: serializeInline(item),
				})
			}
			nodes = append(nodes, Node{
				Type:     "list",
				ListType: listType,
				Children: items,
			})
		case document.Quote:
			nodes = append(nodes, Node{
				Type:     "quote",
				Children: serializeInline(b.Inline),
			})
		}
	}
	return nodes
}

func serializeInline(inline []document.Inline) []Node {
	nodes := make([]Node, 0, len(inline))
	for _, node := range inline {
		switch n := node.(type) {
		case document.Text:
			nodes = append(nodes, Node{Type: "text", Text: n.Value})
		case document.Bold:
			nodes = append(nodes, Node{Type: "text", Format: "bold", Text: n.Value})
		case document.Link:
			nodes = append(nodes, Node{Type: "link", URL: n.URL, Text: n.Text})
		}
	}
	return nodes
}
