package params

import (
	"fmt"
	"strings"
)

// Token grammar: a one-character name is written "-n", a longer name "--name". Each
// flag is followed by its value tokens up to the next flag. A nested Set value is
// written between "{" and "}" tokens so the parser needs no knowledge of which names
// are nested. Value tokens that would otherwise read as a flag or a brace, or that
// start with a backslash, are escaped with a leading backslash.
const (
	openToken   = "{"
	closeToken  = "}"
	escapeToken = `\`
)

// Flag returns the flag token for name.
func Flag(name string) string {
	if len([]rune(name)) == 1 {
		return "-" + name
	}
	return "--" + name
}

// flagName returns the parameter name when tok is a flag token. Numeric tokens such
// as "-5" or "-0.25" are values, not flags.
func flagName(tok string) (string, bool) {
	if !strings.HasPrefix(tok, "-") {
		return "", false
	}
	name := strings.TrimPrefix(tok[1:], "-")
	if !ValidName(name) {
		return "", false
	}
	return name, true
}

func escape(v string) string {
	if _, ok := flagName(v); ok || v == openToken || v == closeToken || strings.HasPrefix(v, escapeToken) {
		return escapeToken + v
	}
	return v
}

func unescape(tok string) string {
	return strings.TrimPrefix(tok, escapeToken)
}

// Tokens flattens the Set into option tokens. An empty Set yields an empty slice.
func (s *Set) Tokens() []string {
	tokens := []string{}
	for _, e := range s.entriesOrNil() {
		tokens = append(tokens, Flag(e.name))
		for _, v := range e.values {
			if sub, ok := v.(*Set); ok {
				tokens = append(tokens, openToken)
				tokens = append(tokens, sub.Tokens()...)
				tokens = append(tokens, closeToken)
				continue
			}
			tokens = append(tokens, escape(formatValue(v)))
		}
	}
	return tokens
}

// String joins Tokens with spaces.
func (s *Set) String() string {
	return strings.Join(s.Tokens(), " ")
}

// Parse rebuilds a Set from option tokens. Repeated flags append their values. All
// primitive values come back as strings; SetParam converts them on propagation.
func Parse(tokens []string) (*Set, error) {
	p := &parser{tokens: tokens}
	set, err := p.parseSet(false)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ParseString splits line on whitespace and parses the resulting tokens.
func ParseString(line string) (*Set, error) {
	return Parse(strings.Fields(line))
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) parseSet(nested bool) (*Set, error) {
	set := New()
	current := ""
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch {
		case tok == closeToken:
			if !nested {
				return nil, fmt.Errorf("unexpected %q at token %d", tok, p.pos)
			}
			p.pos++
			return set, nil
		case tok == openToken:
			if current == "" {
				return nil, fmt.Errorf("nested set at token %d has no parameter name", p.pos)
			}
			p.pos++
			child, err := p.parseSet(true)
			if err != nil {
				return nil, err
			}
			set.Add(current, child)
		default:
			if name, ok := flagName(tok); ok {
				current = name
				set.Add(name)
				p.pos++
				continue
			}
			if current == "" {
				return nil, fmt.Errorf("value %q at token %d precedes any parameter name", tok, p.pos)
			}
			set.Add(current, unescape(tok))
			p.pos++
		}
	}
	if nested {
		return nil, fmt.Errorf("unterminated nested set: missing %q", closeToken)
	}
	return set, nil
}
