package helptext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ziadkadry99/techtree/internal/catalogue"
)

// Shape names the structural layout a template was split into.
type Shape string

const (
	// ShapeRaw means no structural pattern matched; the text is kept as-is.
	ShapeRaw Shape = "raw"
	// ShapeTech is heading / description / stats.
	ShapeTech Shape = "tech"
	// ShapeFlavor is heading / description / flavor / stats.
	ShapeFlavor Shape = "flavor"
	// ShapeBreak is heading / description / stats split on a line break.
	ShapeBreak Shape = "break"
)

// Document is a help template split into display zones.
type Document struct {
	Shape   Shape
	Heading []Item
	Desc    []Item
	Flavor  []Item
	// Tail holds everything after the last structural boundary; for
	// ShapeBreak it is the stats placeholder content.
	Tail []Item
	// All is the normalized token stream the zones were cut from.
	All []Item
}

// Normalize drops line-break markers: every newline, and every <br> that
// directly follows a whitespace character (which goes with it). A <br> glued
// to text is kept as a section boundary.
func Normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	afterNewline := false
	for _, it := range items {
		switch it.Tok {
		case NEWLINE:
			afterNewline = true
			continue
		case BREAK:
			if afterNewline {
				afterNewline = false
				continue
			}
			if n := len(out); n > 0 && out[n-1].Tok == TEXT && endsWithSpace(out[n-1].Lit) {
				_, w := utf8.DecodeLastRuneInString(out[n-1].Lit)
				out[n-1] = textItem(out[n-1].Lit[:len(out[n-1].Lit)-w])
				if out[n-1].Lit == "" {
					out = out[:n-1]
				}
				continue
			}
		}
		afterNewline = false
		if it.Tok == TEXT && len(out) > 0 && out[len(out)-1].Tok == TEXT {
			out[len(out)-1] = textItem(out[len(out)-1].Lit + it.Lit)
			continue
		}
		out = append(out, it)
	}
	return out
}

// markEmphasis turns a bold-wrapped italic run (<b><i>...</b></i>, the
// "required for" line on buildings) into inline emphasis so it is not taken
// for the flavor boundary.
func markEmphasis(items []Item) []Item {
	out := append([]Item(nil), items...)
	for i := 0; i+1 < len(out); i++ {
		if out[i].Tok != BOLD || out[i+1].Tok != ITALIC {
			continue
		}
		for j := i + 2; j+1 < len(out); j++ {
			if out[j].Tok == BOLD && out[j+1].Tok == ENDITAL {
				out[i+1].Tok = EMPH
				// Reorder to </em></b> so the tags nest.
				out[j], out[j+1] = Item{Tok: ENDEMPH, Src: out[j+1].Src}, out[j]
				i = j + 1
				break
			}
		}
	}
	return out
}

// Parse splits a normalized token stream according to the entity kind.
func Parse(items []Item, kind catalogue.Kind) Document {
	items = Normalize(items)
	doc := Document{Shape: ShapeRaw, All: items}

	switch kind {
	case catalogue.KindTechnology:
		// The description may be empty; the stats block is still emitted.
		head, rest, ok := splitParenHeading(items)
		if !ok {
			return doc
		}
		doc.Shape, doc.Heading, doc.Desc = ShapeTech, head, rest
	case catalogue.KindUnit, catalogue.KindUniqueUnit:
		return splitFlavor(doc, items)
	case catalogue.KindBuilding:
		items = markEmphasis(items)
		doc.All = items
		if indexOf(items, ITALIC, 0) >= 0 {
			return splitFlavor(doc, items)
		}
		head, rest, ok := splitCostHeading(items)
		if !ok {
			return doc
		}
		br := indexOf(rest, BREAK, 0)
		if br < 0 {
			return doc
		}
		doc.Shape, doc.Heading, doc.Desc, doc.Tail = ShapeBreak, head, rest[:br], rest[br+1:]
	}
	return doc
}

// splitFlavor cuts heading / description / <i>flavor</i> / tail. With
// several italic runs the flavor is the last one: the description extends
// up to the last <i> that is followed by a non-empty run, and the flavor up
// to the last </i> after it.
func splitFlavor(doc Document, items []Item) Document {
	head, rest, ok := splitCostHeading(items)
	if !ok {
		return doc
	}
	for open := lastIndexOf(rest, ITALIC, len(rest)); open > 0; open = lastIndexOf(rest, ITALIC, open) {
		end := lastIndexOf(rest, ENDITAL, len(rest))
		if end <= open {
			continue
		}
		flavor := trimLeadingSpace(rest[open+1 : end])
		if len(flavor) == 0 {
			continue
		}
		doc.Shape = ShapeFlavor
		doc.Heading = head
		doc.Desc = rest[:open]
		doc.Flavor = flavor
		doc.Tail = rest[end+1:]
		return doc
	}
	return doc
}

// splitCostHeading finds the first "(‹cost›)" preceded by at least one
// character and splits right after its closing parenthesis.
func splitCostHeading(items []Item) (head, rest []Item, ok bool) {
	for i := 1; i+1 < len(items); i++ {
		if items[i].Tok != COST {
			continue
		}
		before, after := items[i-1], items[i+1]
		if before.Tok != TEXT || after.Tok != TEXT {
			continue
		}
		if !strings.HasSuffix(before.Lit, "(") || !strings.HasPrefix(after.Lit, ")") {
			continue
		}
		if i-1 == 0 && before.Lit == "(" {
			continue
		}
		head = append(append([]Item(nil), items[:i+1]...), textItem(")"))
		rest = appendText(nil, after.Lit[1:])
		rest = append(rest, items[i+2:]...)
		return head, rest, true
	}
	return nil, nil, false
}

// splitParenHeading finds the first "(...)" group with a non-empty body that
// is preceded by at least one character, and splits after its ")". Non-text
// tokens count as one character.
func splitParenHeading(items []Item) (head, rest []Item, ok bool) {
	pos, open := 0, -1
	for i, it := range items {
		if it.Tok != TEXT {
			pos++
			continue
		}
		for j, r := range it.Lit {
			if open < 0 {
				if r == '(' && pos > 0 {
					open = pos
				}
			} else if r == ')' && pos >= open+2 {
				cut := j + 1
				head = append(append([]Item(nil), items[:i]...), textItem(it.Lit[:cut]))
				rest = appendText(nil, it.Lit[cut:])
				rest = append(rest, items[i+1:]...)
				return head, rest, true
			}
			pos++
		}
	}
	return nil, nil, false
}

func indexOf(items []Item, tok Token, from int) int {
	for i := from; i < len(items); i++ {
		if items[i].Tok == tok {
			return i
		}
	}
	return -1
}

// lastIndexOf returns the last index of tok before position before, or -1.
func lastIndexOf(items []Item, tok Token, before int) int {
	for i := before - 1; i >= 0; i-- {
		if items[i].Tok == tok {
			return i
		}
	}
	return -1
}

func trimLeadingSpace(items []Item) []Item {
	for len(items) > 0 && items[0].Tok == TEXT {
		trimmed := strings.TrimLeftFunc(items[0].Lit, unicode.IsSpace)
		if trimmed != "" {
			return append([]Item{textItem(trimmed)}, items[1:]...)
		}
		items = items[1:]
	}
	return items
}

func appendText(items []Item, s string) []Item {
	if s == "" {
		return items
	}
	return append(items, textItem(s))
}

func textItem(s string) Item {
	return Item{Tok: TEXT, Lit: s, Src: s}
}

func endsWithSpace(s string) bool {
	return strings.TrimRightFunc(s, unicode.IsSpace) != s
}
