package lisptype

import "fmt"

// ParseError is an unbalanced paren. Source is the whole text being parsed.
type ParseError struct {
	Msg    string
	Source string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %s: %s", e.Msg, e.Source)
}

type UnboundNameError struct {
	Name string
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("lookup: no binding found for name '%s'", e.Name)
}

// ArityMismatchError is raised by closure application and the fixed-arity primitives.
// Expected is a human readable count such as "2" or "1 or 2".
type ArityMismatchError struct {
	Procedure string
	Expected  string
	Given     int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("apply %s: expected %s operands, given %d", e.Procedure, e.Expected, e.Given)
}

type NotAProcedureError struct {
	Value Value
}

func (e *NotAProcedureError) Error() string {
	return fmt.Sprintf("apply: %s value is not a procedure", e.Value.Type)
}

type TypeMismatchError struct {
	Procedure string
	Expected  ValueType
	Given     ValueType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, given %s", e.Procedure, e.Expected, e.Given)
}

type UnknownExpressionError struct {
	Expression Expression
}

func (e *UnknownExpressionError) Error() string {
	return fmt.Sprintf("eval: unknown expression type: %s", e.Expression)
}

// MalformedFormError is a special form with the wrong shape, like (if x) or (lambda x).
type MalformedFormError struct {
	Form       string
	Msg        string
	Expression Expression
}

func (e *MalformedFormError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Form, e.Msg, e.Expression)
}

// RecursionDepthError stops evaluation before the host stack is exhausted.
type RecursionDepthError struct {
	Limit int
	Trace string
}

func (e *RecursionDepthError) Error() string {
	return fmt.Sprintf("eval: maximum evaluation depth %d exceeded\n%s", e.Limit, e.Trace)
}

// OverflowError is an integer outside the int64 range, either written
// as a literal or produced by arithmetic.
type OverflowError struct {
	Operation string // the primitive, or "literal"
	Literal   string // the literal text, empty for arithmetic
}

func (e *OverflowError) Error() string {
	if e.Literal != "" {
		return fmt.Sprintf("eval: number literal %s is out of range", e.Literal)
	}
	return fmt.Sprintf("%s: integer overflow", e.Operation)
}
