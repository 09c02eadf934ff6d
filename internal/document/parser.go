package document

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// nameTrim are the characters stripped from both ends of a declaration value.
const nameTrim = "{} \n\r"

// Parse tokenizes doc and folds the tokens into items. The whole document
// either parses or fails with a *ParseError.
func Parse(doc string) ([]Item, error) {
	tokens, err := Tokenize(doc)
	if err != nil {
		return nil, err
	}
	return Fold(tokens), nil
}

// Fold builds the item list from tokens.
//
// A declaration with a name pushes a snippet that becomes active; one without
// a name pushes an empty Content, which deactivates the previous snippet. A
// content token is appended to the active snippet's code, or pushed as a new
// Content when the top of the stack is not a snippet. Content is trimmed of
// surrounding whitespace in both cases.
func Fold(tokens []Token) []Item {
	var f folder
	for _, tok := range tokens {
		switch tok.Kind {
		case KindDeclaration:
			name := strings.Trim(tok.Value, nameTrim)
			if name == "" {
				f.push(Content{})
				continue
			}
			f.push(Snippet{Name: name})
			f.code = &strings.Builder{}
		case KindContent:
			text := strings.TrimSpace(tok.Value)
			if f.code != nil {
				f.code.WriteString(text)
				continue
			}
			f.push(Content{Text: text})
		}
	}
	f.flush()
	return f.stack
}

// folder is the parse stack. code is non-nil while the top of the stack is a
// snippet still accumulating code.
type folder struct {
	stack []Item
	code  *strings.Builder
}

func (f *folder) push(item Item) {
	f.flush()
	f.stack = append(f.stack, item)
}

func (f *folder) flush() {
	if f.code == nil {
		return
	}
	top := len(f.stack) - 1
	snippet := f.stack[top].(Snippet)
	snippet.Code = f.code.String()
	f.stack[top] = snippet
	f.code = nil
}

// Filter drops the snippets whose name does not fuzzy-match pattern
// (case-insensitive, characters in order). Content is always kept. An empty
// pattern keeps every item.
func Filter(items []Item, pattern string) []Item {
	if pattern == "" {
		return items
	}
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case Content:
			kept = append(kept, it)
		case Snippet:
			if fuzzy.MatchFold(pattern, it.Name) {
				kept = append(kept, it)
			}
		default:
			panic("document: unknown item type")
		}
	}
	return kept
}
