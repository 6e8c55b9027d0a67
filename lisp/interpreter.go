package lisp

import (
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	lisptype "github.com/ian-bird/charme/lisp_type"
)

// how many stack frames a depth error reports
const traceLength = 8

// Interpreter evaluates expressions against frames.
// It is not safe for concurrent use, each session owns one.
type Interpreter struct {
	MaxDepth int
	log      *logrus.Entry
	depth    int
	stack    []lisptype.StackFrame
}

// NewInterpreter creates an interpreter. A nil log discards all output.
func NewInterpreter(maxDepth int, log *logrus.Entry) *Interpreter {
	if log == nil {
		logger := logrus.New()
		logger.Out = io.Discard
		log = logrus.NewEntry(logger)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Interpreter{
		MaxDepth: maxDepth,
		log:      log,
	}
}

func (i *Interpreter) debug() bool {
	return i.log.Logger.IsLevelEnabled(logrus.DebugLevel)
}

type atomKind int

const (
	stringAtom atomKind = iota
	numberAtom
	nameAtom
)

// decides once what an atom denotes. Strings win over numbers,
// and a lone "-" is always a name
func classifyAtom(text string) atomKind {
	if text == "" {
		return nameAtom
	}
	if text[0] == '"' {
		return stringAtom
	}
	if text == "-" {
		return nameAtom
	}
	if text[0] != '-' && (text[0] < '0' || text[0] > '9') {
		return nameAtom
	}
	for _, c := range text[1:] {
		if c < '0' || c > '9' {
			return nameAtom
		}
	}
	return numberAtom
}

// strips the first and last character, no escapes are decoded
func evalString(text string) lisptype.Value {
	if len(text) < 2 {
		return lisptype.NewString("")
	}
	return lisptype.NewString(text[1 : len(text)-1])
}

func evalNumber(text string) (lisptype.Value, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return lisptype.Value{}, &lisptype.OverflowError{Operation: "literal", Literal: text}
	}
	return lisptype.NewNumber(n), nil
}

func isFunctionDefinition(expr lisptype.Expression) bool {
	return expr.HasKeyword("define") && len(expr.Items) > 1 && expr.Items[1].IsList()
}

// Eval evaluates a single expression in frame and returns its value.
func (i *Interpreter) Eval(expr lisptype.Expression, frame *lisptype.Frame) (lisptype.Value, error) {
	if i.depth >= i.MaxDepth {
		return lisptype.Value{}, &lisptype.RecursionDepthError{
			Limit: i.MaxDepth,
			Trace: lisptype.Trace(i.stack, traceLength),
		}
	}
	i.depth++
	defer func() { i.depth-- }()

	if expr.IsAtom() {
		if expr.Text == "" {
			return lisptype.Value{}, &lisptype.UnknownExpressionError{Expression: expr}
		}
		switch classifyAtom(expr.Text) {
		case stringAtom:
			return evalString(expr.Text), nil
		case numberAtom:
			return evalNumber(expr.Text)
		default:
			return frame.Lookup(expr.Text)
		}
	}

	switch {
	case expr.HasKeyword("if"):
		return i.evalIf(expr, frame)
	case expr.HasKeyword("let"):
		return i.evalLet(expr, frame)
	case isFunctionDefinition(expr):
		return i.evalFunctionDefinition(expr, frame)
	case expr.HasKeyword("define"):
		return i.evalDefinition(expr, frame)
	case expr.HasKeyword("lambda"):
		return i.evalLambda(expr, frame)
	case expr.IsList() && len(expr.Items) > 0:
		return i.evalApplication(expr, frame)
	default:
		return lisptype.Value{}, &lisptype.UnknownExpressionError{Expression: expr}
	}
}

// (if condition consequent alternative)
func (i *Interpreter) evalIf(expr lisptype.Expression, frame *lisptype.Frame) (lisptype.Value, error) {
	if len(expr.Items) != 4 {
		return lisptype.Value{}, &lisptype.MalformedFormError{
			Form:       "if",
			Msg:        "expected condition, consequent and alternative",
			Expression: expr,
		}
	}
	condition, err := i.Eval(expr.Items[1], frame)
	if err != nil {
		return lisptype.Value{}, err
	}
	if !condition.IsFalse() {
		return i.Eval(expr.Items[2], frame)
	}
	return i.Eval(expr.Items[3], frame)
}

// (let ((name init) ...) body) is applied as ((lambda (name ...) body) init ...)
func (i *Interpreter) evalLet(expr lisptype.Expression, frame *lisptype.Frame) (lisptype.Value, error) {
	malformed := func(msg string) error {
		return &lisptype.MalformedFormError{Form: "let", Msg: msg, Expression: expr}
	}
	if len(expr.Items) != 3 || !expr.Items[1].IsList() {
		return lisptype.Value{}, malformed("expected a binding list and a body")
	}
	bindings := expr.Items[1].Items
	names := make([]lisptype.Expression, 0, len(bindings))
	inits := make([]lisptype.Expression, 0, len(bindings))
	for _, binding := range bindings {
		if !binding.IsList() || len(binding.Items) != 2 || !binding.Items[0].IsAtom() {
			return lisptype.Value{}, malformed("each binding must be (name expression)")
		}
		names = append(names, binding.Items[0])
		inits = append(inits, binding.Items[1])
	}
	lambda := lisptype.NewList(lisptype.NewAtom("lambda"), lisptype.NewList(names...), expr.Items[2])
	application := lisptype.NewList(append([]lisptype.Expression{lambda}, inits...)...)
	return i.evalApplication(application, frame)
}

// (define (name params ...) body) is handled as (define name (lambda (params ...) body))
func (i *Interpreter) evalFunctionDefinition(expr lisptype.Expression, frame *lisptype.Frame) (lisptype.Value, error) {
	signature := expr.Items[1].Items
	if len(expr.Items) != 3 || len(signature) == 0 || !signature[0].IsAtom() {
		return lisptype.Value{}, &lisptype.MalformedFormError{
			Form:       "define",
			Msg:        "expected (define (name params ...) body)",
			Expression: expr,
		}
	}
	lambda := lisptype.NewList(lisptype.NewAtom("lambda"), lisptype.NewList(signature[1:]...), expr.Items[2])
	return i.evalDefinition(lisptype.NewList(expr.Items[0], signature[0], lambda), frame)
}

// (define name expression) binds name in the current frame
func (i *Interpreter) evalDefinition(expr lisptype.Expression, frame *lisptype.Frame) (lisptype.Value, error) {
	if len(expr.Items) != 3 || !expr.Items[1].IsAtom() {
		return lisptype.Value{}, &lisptype.MalformedFormError{
			Form:       "define",
			Msg:        "expected (define name expression)",
			Expression: expr,
		}
	}
	name := expr.Items[1].Text
	value, err := i.Eval(expr.Items[2], frame)
	if err != nil {
		return lisptype.Value{}, err
	}
	if value.Type == lisptype.Closure && expr.Items[2].HasKeyword("lambda") {
		value.Procedure().Name = name
	}
	frame.Define(name, value)
	if i.debug() {
		i.log.WithFields(logrus.Fields{
			"name":  name,
			"type":  value.Type.String(),
			"frame": frame.Depth(),
		}).Debug("define")
	}
	return lisptype.UnitValue(), nil
}

// (lambda (params ...) body) captures the current frame
func (i *Interpreter) evalLambda(expr lisptype.Expression, frame *lisptype.Frame) (lisptype.Value, error) {
	malformed := func(msg string) error {
		return &lisptype.MalformedFormError{Form: "lambda", Msg: msg, Expression: expr}
	}
	if len(expr.Items) != 3 || !expr.Items[1].IsList() {
		return lisptype.Value{}, malformed("expected a parameter list and a single body expression")
	}
	params := make([]string, len(expr.Items[1].Items))
	for n, param := range expr.Items[1].Items {
		if !param.IsAtom() {
			return lisptype.Value{}, malformed("parameters must be names")
		}
		params[n] = param.Text
	}
	return lisptype.NewClosure(&lisptype.Procedure{
		Params: params,
		Body:   expr.Items[2],
		Env:    frame,
	}), nil
}

// evaluates every element left to right, operator included,
// then applies the first value to the rest
func (i *Interpreter) evalApplication(expr lisptype.Expression, frame *lisptype.Frame) (lisptype.Value, error) {
	values := make([]lisptype.Value, 0, len(expr.Items))
	for _, item := range expr.Items {
		value, err := i.Eval(item, frame)
		if err != nil {
			return lisptype.Value{}, err
		}
		values = append(values, value)
	}
	return i.Apply(values[0], values[1:], expr)
}

// Apply calls a primitive or closure with already evaluated operands.
// call is the expression that produced the application, for traces.
func (i *Interpreter) Apply(proc lisptype.Value, operands []lisptype.Value, call lisptype.Expression) (lisptype.Value, error) {
	switch proc.Type {
	case lisptype.Primitive:
		return proc.Builtin().Fn(operands)
	case lisptype.Closure:
		closure := proc.Procedure()
		name := closure.Name
		if name == "" {
			name = "lambda"
		}
		if len(operands) != len(closure.Params) {
			return lisptype.Value{}, &lisptype.ArityMismatchError{
				Procedure: name,
				Expected:  strconv.Itoa(len(closure.Params)),
				Given:     len(operands),
			}
		}
		argFrame := lisptype.NewFrame(closure.Env)
		for n, param := range closure.Params {
			argFrame.Define(param, operands[n])
		}
		if i.debug() {
			i.log.WithFields(logrus.Fields{
				"name":  name,
				"arity": len(operands),
				"depth": i.depth,
			}).Debug("apply")
		}
		i.stack = append(i.stack, lisptype.StackFrame{Procedure: name, Call: call})
		defer func() { i.stack = i.stack[:len(i.stack)-1] }()
		return i.Eval(closure.Body, argFrame)
	default:
		return lisptype.Value{}, &lisptype.NotAProcedureError{Value: proc}
	}
}
