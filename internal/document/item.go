package document

// Item is one element of a parsed document, either a Content or a Snippet.
// The set of implementations is closed; consumers switch on the concrete type.
type Item interface {
	isItem()
}

// Content is a block of text that is not measured. It is copied to the
// generated script unchanged.
type Content struct {
	Text string
}

// Snippet is a named fragment of code that becomes one benchmark.
type Snippet struct {
	Name string
	Code string
}

func (Content) isItem() {}
func (Snippet) isItem() {}

// Snippets returns the snippets of items in document order.
func Snippets(items []Item) []Snippet {
	var snippets []Snippet
	for _, item := range items {
		if s, ok := item.(Snippet); ok {
			snippets = append(snippets, s)
		}
	}
	return snippets
}
