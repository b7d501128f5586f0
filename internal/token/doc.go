// Package token defines lexical token kinds for C and C++ sources.
// Invariants:
//   - Token.Text is a slice of the file content (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace, newlines and comments are ordinary tokens, so the spans of a
//     full token stream tile the input with no gaps or overlaps.
//   - A preprocessor line (with its backslash continuations) is one Directive token.
//   - Keywords are only recognised in their exact spelling; contextual words such as
//     `override` and `final` stay identifiers.
package token
