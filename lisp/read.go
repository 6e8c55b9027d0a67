package lisp

import (
	lisptype "github.com/ian-bird/charme/lisp_type"
)

// splits source text into tokens. Parens are always their own token,
// spaces and newlines separate atoms, and every other character
// (tabs and carriage returns included) is part of an atom.
func Tokenize(s string) []string {
	tokens := make([]string, 0)
	current := make([]rune, 0)
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}
	for _, c := range s {
		switch c {
		case ' ', '\n':
			flush()
		case '(', ')':
			flush()
			tokens = append(tokens, string(c))
		default:
			current = append(current, c)
		}
	}
	flush()
	return tokens
}

// tokenCursor hands out tokens front to back. The parser threads one
// cursor through every level of nesting.
type tokenCursor struct {
	tokens []string
	pos    int
}

func (c *tokenCursor) next() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok, true
}

// reads tokens until the end of the current list.
// inner is true when called for a nested list, in which case
// a close paren ends it and running out of tokens is an error
func parseTokens(c *tokenCursor, inner bool, source string) ([]lisptype.Expression, error) {
	result := make([]lisptype.Expression, 0)
	for {
		tok, ok := c.next()
		if !ok {
			break
		}
		switch tok {
		case "(":
			items, err := parseTokens(c, true, source)
			if err != nil {
				return nil, err
			}
			result = append(result, lisptype.NewList(items...))
		case ")":
			if inner {
				return result, nil
			}
			return nil, &lisptype.ParseError{Msg: "unmatched close paren", Source: source}
		default:
			result = append(result, lisptype.NewAtom(tok))
		}
	}
	if inner {
		return nil, &lisptype.ParseError{Msg: "unmatched open paren", Source: source}
	}
	return result, nil
}

// Parse turns a token sequence into the top level expressions it contains.
// source is only used for error messages.
func Parse(tokens []string, source string) ([]lisptype.Expression, error) {
	return parseTokens(&tokenCursor{tokens: tokens}, false, source)
}

// Read tokenizes and parses s.
func Read(s string) ([]lisptype.Expression, error) {
	return Parse(Tokenize(s), s)
}

// Balance returns how many parens in s are still open.
// It returns -1 as soon as a close paren has nothing to match.
func Balance(s string) int {
	depth := 0
	for _, tok := range Tokenize(s) {
		switch tok {
		case "(":
			depth++
		case ")":
			depth--
			if depth < 0 {
				return -1
			}
		}
	}
	return depth
}
