package lisptype

import "strings"

type ExpressionKind int

const (
	Atom ExpressionKind = iota // a token that is not a paren
	List                       // a parenthesized group
)

// an expression is the parser's output.
// atoms keep their raw text, which is only classified
// as a number, string or name when evaluated
type Expression struct {
	Kind  ExpressionKind
	Text  string       // set for atoms
	Items []Expression // set for lists
}

func NewAtom(text string) Expression {
	return Expression{Kind: Atom, Text: text}
}

func NewList(items ...Expression) Expression {
	if items == nil {
		items = []Expression{}
	}
	return Expression{Kind: List, Items: items}
}

func (e Expression) IsAtom() bool { return e.Kind == Atom }

func (e Expression) IsList() bool { return e.Kind == List }

// HasKeyword reports whether e is a non-empty list whose head is the atom keyword.
func (e Expression) HasKeyword(keyword string) bool {
	return e.Kind == List && len(e.Items) > 0 && e.Items[0].Kind == Atom && e.Items[0].Text == keyword
}

// String renders the expression back to source form.
func (e Expression) String() string {
	if e.Kind == Atom {
		return e.Text
	}
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}
