package lexer

import (
	"iter"

	"apiscan/internal/source"
	"apiscan/internal/token"
)

// Lexer produces the full token stream of one C/C++ file, trivia included.
// The stream is lazy: bytes are scanned only when Next is called.
type Lexer struct {
	file      *source.File
	cursor    Cursor
	opts      Options
	look      *token.Token // 1 элементный буфер для токена
	lineStart bool         // only whitespace seen since the last newline
}

func New(file *source.File, opts Options) *Lexer {
	if file == nil {
		panic("lexer: nil file")
	}
	return &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		lineStart: true,
	}
}

// Reset rewinds the lexer to the beginning of the file.
// Diagnostics are reported again when the stream is re-read.
func (lx *Lexer) Reset() {
	lx.cursor.Off = 0
	lx.look = nil
	lx.lineStart = true
}

// All returns the token sequence from offset 0 up to and including EOF.
// Every call restarts the stream.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		lx.Reset()
		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// Tokenize lexes the whole file into a slice ending with EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	tokens := make([]token.Token, 0, len(file.Content)/3+1)
	for tok := range lx.All() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Next returns the next token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		tok = lx.emit(token.Newline, start)

	case isSpace(ch) || lx.isLineSplice():
		tok = lx.scanWhitespace()

	case ch == '#' && lx.lineStart:
		tok = lx.scanDirective()

	case ch == '/' && (lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*'):
		tok = lx.scanComment()

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case isDec(ch) || lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanQuoted(lx.cursor.Mark(), '"')

	case ch == '\'':
		tok = lx.scanQuoted(lx.cursor.Mark(), '\'')

	default:
		tok = lx.scanOperatorOrPunct()
	}

	switch tok.Kind {
	case token.Newline:
		lx.lineStart = true
	case token.Whitespace:
	default:
		lx.lineStart = false
	}
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		switch {
		case isSpace(lx.cursor.Peek()):
			lx.cursor.Bump()
		case lx.isLineSplice():
			lx.cursor.Bump()
			lx.cursor.Bump()
		default:
			return lx.emit(token.Whitespace, start)
		}
	}
	return lx.emit(token.Whitespace, start)
}

// isLineSplice reports a backslash immediately followed by a newline.
func (lx *Lexer) isLineSplice() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '\\' && b1 == '\n'
}
