package pattern

import "regexp"

// placeholderRe matches the bracketed placeholder syntax :[name]. The name
// "_" is the anonymous marker.
var placeholderRe = regexp.MustCompile(`:\[([A-Za-z_][A-Za-z0-9_]*)\]`)

// TokenKind discriminates literal text from placeholders.
type TokenKind int

const (
	TokenLiteral TokenKind = iota
	TokenPlaceholder
)

// Token is a single piece of a parsed pattern.
type Token struct {
	Kind TokenKind
	Text string // literal text, for TokenLiteral
	Name string // placeholder name, "_" for anonymous
}

// Anonymous reports whether the token is the anonymous placeholder :[_].
func (t Token) Anonymous() bool {
	return t.Kind == TokenPlaceholder && t.Name == "_"
}

// Parsed is a tokenized pattern.
type Parsed struct {
	Tokens []Token
	// Names lists the distinct named placeholders in order of first
	// appearance. The anonymous marker is never included.
	Names []string
}

// Parse tokenizes a pattern string into literal and placeholder tokens.
// Duplicate names are legal: they appear once in Names but keep every
// token occurrence.
func Parse(pattern string) *Parsed {
	p := &Parsed{}
	seen := make(map[string]bool)

	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(pattern, -1) {
		if loc[0] > last {
			p.Tokens = append(p.Tokens, Token{Kind: TokenLiteral, Text: pattern[last:loc[0]]})
		}
		name := pattern[loc[2]:loc[3]]
		p.Tokens = append(p.Tokens, Token{Kind: TokenPlaceholder, Name: name})
		if name != "_" && !seen[name] {
			seen[name] = true
			p.Names = append(p.Names, name)
		}
		last = loc[1]
	}
	if last < len(pattern) {
		p.Tokens = append(p.Tokens, Token{Kind: TokenLiteral, Text: pattern[last:]})
	}

	return p
}
