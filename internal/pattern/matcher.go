package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher is a compiled pattern ready for scanning source text.
//
// Matching is purely textual: named placeholders compile to non-greedy
// "any characters" capture groups and do not balance brackets. Against
// deeply nested text the shortest viable match wins, which can split a
// nested expression. Callers that need syntax-aware matching should not
// use this package.
type Matcher struct {
	parsed *Parsed
	re     *regexp.Regexp
	groups []string // capture group index-1 -> placeholder name
}

// Match is one located occurrence of a pattern in source text.
type Match struct {
	Start    int               `json:"start"`
	End      int               `json:"end"`
	Text     string            `json:"text"`
	Captures map[string]string `json:"captures"`
}

// Compile builds a scanning matcher from a parsed pattern. Literal tokens
// are escaped for literal matching; each named placeholder becomes a
// capturing non-greedy group, each anonymous placeholder a non-capturing
// one.
func Compile(p *Parsed) (*Matcher, error) {
	var sb strings.Builder
	sb.WriteString("(?s)")

	var groups []string
	for _, tok := range p.Tokens {
		switch {
		case tok.Kind == TokenLiteral:
			sb.WriteString(regexp.QuoteMeta(tok.Text))
		case tok.Anonymous():
			sb.WriteString("(?:.*?)")
		default:
			sb.WriteString("(.*?)")
			groups = append(groups, tok.Name)
		}
	}

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("malformed pattern: %w", err)
	}

	return &Matcher{parsed: p, re: re, groups: groups}, nil
}

// CompileString parses and compiles a pattern string in one step.
func CompileString(pattern string) (*Matcher, error) {
	return Compile(Parse(pattern))
}

// Names returns the named placeholders of the underlying pattern in order
// of first appearance.
func (m *Matcher) Names() []string {
	return m.parsed.Names
}

// FindAll locates every non-overlapping occurrence of the pattern in text.
// When the same name appears more than once in the pattern, the first
// occurrence's text is the captured value.
func (m *Matcher) FindAll(text string) []Match {
	var matches []Match
	for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
		match := Match{
			Start:    loc[0],
			End:      loc[1],
			Text:     text[loc[0]:loc[1]],
			Captures: make(map[string]string, len(m.groups)),
		}
		for i, name := range m.groups {
			start, end := loc[2+2*i], loc[3+2*i]
			if start < 0 {
				continue
			}
			if _, ok := match.Captures[name]; !ok {
				match.Captures[name] = text[start:end]
			}
		}
		matches = append(matches, match)
	}
	return matches
}

// Position converts a byte offset in text into a 1-based line and column.
func Position(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	prefix := text[:offset]
	line = 1 + strings.Count(prefix, "\n")
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		col = offset - idx
	} else {
		col = offset + 1
	}
	return line, col
}
