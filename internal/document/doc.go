// Package document turns an annotated source document into an ordered list of
// items: plain content blocks and named code snippets.
//
// A snippet is introduced by a declaration line and collects every content
// line that follows it until the next declaration:
//
//	const data = [3, 1, 2];
//	//jsbm sort {
//	[...data].sort();
//	//jsbm }
//
// The declaration value is trimmed of braces and blanks, so "sort {" names the
// snippet "sort" and "}" trims to an empty name. An empty declaration closes
// the active snippet; content after it is kept as a separate block.
//
// Parsing happens in two steps. Tokenize splits the text into declaration and
// content tokens with a participle lexer and grammar, failing as a whole on
// malformed input. Fold then applies the stack rule that builds the item list.
package document
