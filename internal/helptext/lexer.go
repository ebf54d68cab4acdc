package helptext

import (
	"strings"
	"unicode/utf8"
)

const (
	markerOpen  = '‹'
	markerClose = '›'
)

// Lexer tokenizes a raw localized help template.
type Lexer struct {
	src    string
	offset int
}

// NewLexer creates a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Lex tokenizes src in one pass.
func Lex(src string) []Item {
	l := NewLexer(src)
	var items []Item
	for {
		it := l.Next()
		if it.Tok == EOF {
			return items
		}
		items = append(items, it)
	}
}

// Next returns the next token. Adjacent literal text is merged into a
// single TEXT item.
func (l *Lexer) Next() Item {
	if l.offset >= len(l.src) {
		return Item{Tok: EOF}
	}
	if it, ok := l.special(); ok {
		return it
	}
	start := l.offset
	for l.offset < len(l.src) {
		save := l.offset
		if _, ok := l.special(); ok {
			l.offset = save
			break
		}
		_, w := utf8.DecodeRuneInString(l.src[l.offset:])
		l.offset += w
	}
	text := l.src[start:l.offset]
	return Item{Tok: TEXT, Lit: text, Src: text}
}

// special recognizes markers, tags and newlines at the current offset. On a
// match it advances past the token; otherwise the offset is unchanged.
func (l *Lexer) special() (Item, bool) {
	rest := l.src[l.offset:]
	r, w := utf8.DecodeRuneInString(rest)
	switch {
	case r == '\n':
		l.offset += w
		return Item{Tok: NEWLINE, Src: "\n"}, true
	case r == '\r' && strings.HasPrefix(rest, "\r\n"):
		l.offset += 2
		return Item{Tok: NEWLINE, Src: "\r\n"}, true
	case r == markerOpen:
		end := strings.IndexRune(rest[w:], markerClose)
		if end < 0 {
			return Item{}, false
		}
		body := rest[w : w+end]
		src := rest[:w+end+utf8.RuneLen(markerClose)]
		l.offset += len(src)
		return markerItem(body, src), true
	case r == '<':
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return Item{}, false
		}
		src := rest[:end+1]
		tok, ok := tagToken(src)
		if !ok {
			return Item{}, false
		}
		l.offset += len(src)
		return Item{Tok: tok, Src: src}, true
	}
	return Item{}, false
}

func markerItem(body, src string) Item {
	switch body {
	case "cost":
		return Item{Tok: COST, Src: src}
	case "b":
		// Some string tables use ‹b› in place of <b>.
		return Item{Tok: BOLD, Src: src}
	case "i":
		return Item{Tok: ITALIC, Src: src}
	case "/i":
		return Item{Tok: ENDITAL, Src: src}
	case "br":
		return Item{Tok: BREAK, Src: src}
	}
	if name, ok := statName(body); ok {
		return Item{Tok: STAT, Lit: name, Src: src}
	}
	return Item{Tok: MARKER, Src: src}
}

func tagToken(src string) (Token, bool) {
	tag := strings.ToLower(strings.ReplaceAll(src, " ", ""))
	switch tag {
	case "<b>", "</b>":
		return BOLD, true
	case "<i>":
		return ITALIC, true
	case "</i>":
		return ENDITAL, true
	case "<br>", "<br/>":
		return BREAK, true
	}
	return ILLEGAL, false
}
