package document

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// TokenKind distinguishes the two token classes of a document.
type TokenKind int

const (
	// KindDeclaration introduces a named snippet.
	KindDeclaration TokenKind = iota + 1
	// KindContent is any run of lines that is not a declaration.
	KindContent
)

func (k TokenKind) String() string {
	switch k {
	case KindDeclaration:
		return "Declaration"
	case KindContent:
		return "Content"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a recognized span of the document. For declarations Value holds
// the raw declaration value (empty when the declaration has none); for
// content it holds the lines verbatim, newlines included.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   lexer.Position
}

// ParseError reports a document that could not be tokenized. No partial
// result accompanies it.
type ParseError struct {
	Pos lexer.Position
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed parsing document at %d:%d: %v", e.Pos.Line, e.Pos.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errInvalidUTF8 = errors.New("invalid UTF-8 encoding")

// documentLexer recognizes whole lines. A line that starts with "//jsbm"
// (blanks allowed around "//") switches to the Decl state, where the rest of
// the line is the declaration value.
var documentLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "DeclStart", Pattern: `[ \t]*//[ \t]*jsbm\b[ \t]*`, Action: lexer.Push("Decl")},
		{Name: "Line", Pattern: `[^\n]*\n|[^\n]+`},
	},
	"Decl": {
		{Name: "Value", Pattern: `[^\n]+`},
		{Name: "DeclEnd", Pattern: `\n`, Action: lexer.Pop()},
	},
})

// parseTree is the top-level node of a document.
type parseTree struct {
	Nodes []*node `parser:"@@*"`
}

type node struct {
	Declaration *declaration `parser:"  @@"`
	Content     *content     `parser:"| @@"`
}

type declaration struct {
	Pos    lexer.Position
	Marker string  `parser:"@DeclStart"`
	Value  *string `parser:"@Value? DeclEnd?"`
}

type content struct {
	Pos   lexer.Position
	Lines []string `parser:"@Line+"`
}

var documentParser = participle.MustBuild[parseTree](
	participle.Lexer(documentLexer),
)

// Tokenize splits doc into declaration and content tokens in document order.
func Tokenize(doc string) ([]Token, error) {
	if !utf8.ValidString(doc) {
		return nil, &ParseError{Pos: invalidUTF8Position(doc), Err: errInvalidUTF8}
	}

	tree, err := documentParser.ParseString("", doc)
	if err != nil {
		perr := &ParseError{Err: err}
		var pe participle.Error
		if errors.As(err, &pe) {
			perr.Pos = pe.Position()
			perr.Err = errors.New(pe.Message())
		}
		return nil, perr
	}

	tokens := make([]Token, 0, len(tree.Nodes))
	for _, n := range tree.Nodes {
		switch {
		case n.Declaration != nil:
			var value string
			if n.Declaration.Value != nil {
				value = *n.Declaration.Value
			}
			tokens = append(tokens, Token{Kind: KindDeclaration, Value: value, Pos: n.Declaration.Pos})
		case n.Content != nil:
			tokens = append(tokens, Token{Kind: KindContent, Value: strings.Join(n.Content.Lines, ""), Pos: n.Content.Pos})
		}
	}
	return tokens, nil
}

// invalidUTF8Position locates the first byte that is not valid UTF-8.
func invalidUTF8Position(doc string) lexer.Position {
	pos := lexer.Position{Line: 1, Column: 1}
	for i := 0; i < len(doc); {
		r, size := utf8.DecodeRuneInString(doc[i:])
		if r == utf8.RuneError && size <= 1 {
			pos.Offset = i
			return pos
		}
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
		i += size
	}
	pos.Offset = len(doc)
	return pos
}
