package helptext

import "strings"

// Token represents a lexical token of a raw help template.
type Token int

const (
	ILLEGAL Token = iota
	EOF

	TEXT    // literal text
	COST    // ‹cost›
	STAT    // ‹hp›, ‹attack›, ... (Lit holds the canonical stat name)
	MARKER  // any other ‹...› marker, kept verbatim
	BOLD    // <b> or </b>, toggles
	ITALIC  // <i>
	ENDITAL // </i>
	EMPH    // <i> turned into inline emphasis
	ENDEMPH // </i> turned into inline emphasis
	BREAK   // <br>
	NEWLINE // \n
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	TEXT:    "TEXT",
	COST:    "COST",
	STAT:    "STAT",
	MARKER:  "MARKER",
	BOLD:    "BOLD",
	ITALIC:  "ITALIC",
	ENDITAL: "ENDITAL",
	EMPH:    "EMPH",
	ENDEMPH: "ENDEMPH",
	BREAK:   "BREAK",
	NEWLINE: "NEWLINE",
}

func (t Token) String() string {
	if int(t) < len(tokens) {
		return tokens[t]
	}
	return "Token(?)"
}

// Stat names recognized inside ‹...› markers.
const (
	StatHP          = "hp"
	StatAttack      = "attack"
	StatArmor       = "armor"
	StatPierceArmor = "piercearmor"
	StatGarrison    = "garrison"
	StatRange       = "range"
)

// statMarkers maps marker bodies to canonical stat names. Armor markers are
// matched case-insensitively; the rest are exact.
func statName(body string) (string, bool) {
	switch body {
	case StatHP, StatAttack, StatGarrison, StatRange:
		return body, true
	}
	switch strings.ToLower(body) {
	case StatArmor:
		return StatArmor, true
	case StatPierceArmor:
		return StatPierceArmor, true
	}
	return "", false
}

// Item is one lexed token with its literal source text.
type Item struct {
	Tok Token
	// Lit is the text for TEXT, the stat name for STAT, and the original
	// source for every other token.
	Lit string
	Src string
}
