package topics

// Candidate is a publishable topic found in an external feed, before it is
// checked against the topics table for prior use.
type Candidate struct {
	Title       string
	Link        string
	Keyword     string
	Summary     string
	ContentHash string
}
