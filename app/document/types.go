package document

// Block is a top-level structural unit of a converted document. The concrete
// types form a closed set: Heading, Paragraph, List, Quote.
type Block interface {
	blockNode()
}

// Inline is a run of text inside a block: plain, bold, or a hyperlink.
type Inline interface {
	inlineNode()
}

type Heading struct {
	Level  int
	Inline []Inline
}

type Paragraph struct {
	Inline []Inline
}

type List struct {
	Ordered bool
	Items   [][]Inline
}

// Quote carries blockquote content flattened to plain text; inline formatting
// inside quotes is not preserved.
type Quote struct {
	Inline []Inline
}

func (Heading) blockNode()   {}
func (Paragraph) blockNode() {}
func (List) blockNode()      {}
func (Quote) blockNode()     {}

type Text struct {
	Value string
}

type Bold struct {
	Value string
}

type Link struct {
	URL  string
	Text string
}

func (Text) inlineNode() {}
func (Bold) inlineNode() {}
func (Link) inlineNode() {}

// PlainText concatenates the visible text of an inline sequence.
func PlainText(nodes []Inline) string {
	var out string
	for _, node := range nodes {
		switch n := node.(type) {
		case Text:
			out += n.Value
		case Bold:
			out += n.Value
		case Link:
			out += n.Text
		}
	}
	return out
}
