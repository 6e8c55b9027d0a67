package lisp

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	lisptype "github.com/ian-bird/charme/lisp_type"
)

func num(n int64) lisptype.Value { return lisptype.NewNumber(n) }

func str(s string) lisptype.Value { return lisptype.NewString(s) }

func boolean(b bool) lisptype.Value { return lisptype.NewBoolean(b) }

// evaluates src in a fresh session and fails the test on error
func mustEval(t *testing.T, src string) []lisptype.Value {
	t.Helper()
	values, err := EvaluateSource(src)
	require.NoError(t, err, "source: %s", src)
	return values
}

// evaluates src and returns the last value
func evalLast(t *testing.T, src string) lisptype.Value {
	t.Helper()
	values := mustEval(t, src)
	require.NotEmpty(t, values)
	return values[len(values)-1]
}

func requireErrorAs[T error](t *testing.T, src string) T {
	t.Helper()
	_, err := EvaluateSource(src)
	require.Error(t, err, "source: %s", src)
	var target T
	require.True(t, errors.As(err, &target), "source: %s, got %T: %v", src, err, err)
	return target
}

func TestEvaluateSourceExamples(t *testing.T) {
	require.Equal(t, []lisptype.Value{num(3)}, mustEval(t, "(+ 1 2)"))
	require.Equal(t, []lisptype.Value{lisptype.UnitValue(), num(25)},
		mustEval(t, "(define (square x) (* x x)) (square 5)"))
	require.Equal(t, []lisptype.Value{num(7)}, mustEval(t, "(let ((x 3) (y 4)) (+ x y))"))
	require.Equal(t, []lisptype.Value{str("yes")}, mustEval(t, `(if (< 1 2) "yes" "no")`))
	require.Equal(t, []lisptype.Value{num(1)}, mustEval(t, "(car (cons 1 2))"))
	require.Equal(t, []lisptype.Value{num(2)}, mustEval(t, "(cdr (cons 1 2))"))
}

func TestEvaluateSourceEmpty(t *testing.T) {
	require.Empty(t, mustEval(t, ""))
	require.Empty(t, mustEval(t, "  \n "))
}

func TestAtoms(t *testing.T) {
	require.Equal(t, num(42), evalLast(t, "42"))
	require.Equal(t, num(-7), evalLast(t, "-7"))
	require.Equal(t, num(7), evalLast(t, "007"))
	require.Equal(t, str("hello"), evalLast(t, `"hello"`))
	require.Equal(t, str(""), evalLast(t, `""`))
	require.Equal(t, str(""), evalLast(t, `"`))
	// the quote check comes before the number check
	require.Equal(t, str("12"), evalLast(t, `"12"`))
	// no escape decoding
	require.Equal(t, str(`a\nb`), evalLast(t, `"a\nb"`))
}

func TestLoneMinusIsAName(t *testing.T) {
	v := evalLast(t, "-")
	require.Equal(t, lisptype.Primitive, v.Type)
	require.Equal(t, "-", v.Builtin().Name)
	require.Equal(t, num(-5), evalLast(t, "(- 5)"))
}

func TestMinusPrefixedNamesAreNames(t *testing.T) {
	unbound := requireErrorAs[*lisptype.UnboundNameError](t, "-x")
	require.Equal(t, "-x", unbound.Name)
	unbound = requireErrorAs[*lisptype.UnboundNameError](t, "1a")
	require.Equal(t, "1a", unbound.Name)
}

func TestIf(t *testing.T) {
	require.Equal(t, num(1), evalLast(t, "(if (= 1 1) 1 2)"))
	require.Equal(t, num(2), evalLast(t, "(if (= 1 2) 1 2)"))
	// only false is falsy
	require.Equal(t, num(1), evalLast(t, "(if 0 1 2)"))
	require.Equal(t, num(1), evalLast(t, `(if "" 1 2)`))
	// the branch not taken is never evaluated
	require.Equal(t, num(1), evalLast(t, "(if (< 1 2) 1 undefined-name)"))
}

func TestIfMalformed(t *testing.T) {
	for _, src := range []string{"(if (< 1 2) 1)", "(if 1 2 3 4)", "(if)"} {
		form := requireErrorAs[*lisptype.MalformedFormError](t, src)
		require.Equal(t, "if", form.Form)
	}
}

func TestLet(t *testing.T) {
	require.Equal(t, num(10), evalLast(t, "(let () 10)"))
	require.Equal(t, num(6), evalLast(t, "(let ((x 1)) (let ((y 2)) (let ((z 3)) (+ x y z))))"))
	// bindings do not see each other
	require.Equal(t, num(3), evalLast(t, "(define x 1) (let ((x 2) (y x)) (+ x y))"))
	unbound := requireErrorAs[*lisptype.UnboundNameError](t, "(let ((a 1) (b a)) b)")
	require.Equal(t, "a", unbound.Name)
}

func TestLetMalformed(t *testing.T) {
	for _, src := range []string{"(let x 1)", "(let ((x)) x)", "(let ((x 1)))", "(let (((x) 1)) x)"} {
		form := requireErrorAs[*lisptype.MalformedFormError](t, src)
		require.Equal(t, "let", form.Form)
	}
}

func TestDefine(t *testing.T) {
	values := mustEval(t, "(define x 5) x (define x 6) x")
	require.Equal(t, []lisptype.Value{lisptype.UnitValue(), num(5), lisptype.UnitValue(), num(6)}, values)

	v := evalLast(t, "(define (add a b) (+ a b)) add")
	require.Equal(t, lisptype.Closure, v.Type)
	require.Equal(t, "add", v.Procedure().Name)
	require.Equal(t, []string{"a", "b"}, v.Procedure().Params)

	require.Equal(t, num(9), evalLast(t, "(define (nine) 9) (nine)"))
}

func TestDefineMalformed(t *testing.T) {
	for _, src := range []string{"(define x)", "(define () 1)", "(define (f x))", "(define ((f) x) 1)"} {
		form := requireErrorAs[*lisptype.MalformedFormError](t, src)
		require.Equal(t, "define", form.Form)
	}
}

func TestLambda(t *testing.T) {
	require.Equal(t, num(16), evalLast(t, "((lambda (x) (* x x)) 4)"))
	require.Equal(t, num(3), evalLast(t, "((lambda () 3))"))
	v := evalLast(t, "(lambda (a b) a)")
	require.Equal(t, lisptype.Closure, v.Type)
	require.Empty(t, v.Procedure().Name)

	for _, src := range []string{"(lambda x x)", "(lambda (x))", "(lambda ((x)) x)", "(lambda (x) x x)"} {
		form := requireErrorAs[*lisptype.MalformedFormError](t, src)
		require.Equal(t, "lambda", form.Form)
	}
}

func TestClosuresCaptureTheirFrame(t *testing.T) {
	src := `
(define (make-adder n) (lambda (x) (+ x n)))
(define add5 (make-adder 5))
(define add10 (make-adder 10))
(define n 1000)
(cons (add5 1) (add10 1))`
	v := evalLast(t, src)
	require.Equal(t, lisptype.NewPair(num(6), num(11)), v)
}

func TestClosureSeesLaterTopLevelDefinitions(t *testing.T) {
	src := "(define (f) (g)) (define (g) 42) (f)"
	require.Equal(t, num(42), evalLast(t, src))
}

func TestRecursion(t *testing.T) {
	src := `
(define (fact n) (if (< n 2) 1 (* n (fact (- n 1)))))
(fact 10)`
	require.Equal(t, num(3628800), evalLast(t, src))

	src = `
(define (fib n) (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2)))))
(fib 15)`
	require.Equal(t, num(610), evalLast(t, src))
}

func TestScopingLaw(t *testing.T) {
	// a name bound by a closure body is gone once it returns
	unbound := requireErrorAs[*lisptype.UnboundNameError](t, "((lambda (inner) inner) 1) inner")
	require.Equal(t, "inner", unbound.Name)
	// and the outer binding shows through again
	require.Equal(t, num(1), evalLast(t, "(define y 1) (let ((y 2)) y) y"))
	// define inside a body only touches the body's frame
	require.Equal(t, num(1), evalLast(t, "(define z 1) ((lambda (a) (define z 2)) 0) z"))
}

func TestArityLaw(t *testing.T) {
	for n := 0; n <= 3; n++ {
		params := make([]string, n)
		for i := range params {
			params[i] = fmt.Sprintf("p%d", i)
		}
		for m := 0; m <= 3; m++ {
			if m == n {
				continue
			}
			operands := strings.Repeat(" 1", m)
			src := fmt.Sprintf("((lambda (%s) 0)%s)", strings.Join(params, " "), operands)
			arity := requireErrorAs[*lisptype.ArityMismatchError](t, src)
			require.Equal(t, m, arity.Given)
			require.Equal(t, fmt.Sprint(n), arity.Expected)
		}
	}
}

func TestArityErrorNamesTheFunction(t *testing.T) {
	arity := requireErrorAs[*lisptype.ArityMismatchError](t, "(define (sq x) (* x x)) (sq 1 2)")
	require.Equal(t, "sq", arity.Procedure)
}

func TestNotAProcedure(t *testing.T) {
	e := requireErrorAs[*lisptype.NotAProcedureError](t, "(1 2 3)")
	require.Equal(t, lisptype.Number, e.Value.Type)
	requireErrorAs[*lisptype.NotAProcedureError](t, `("f")`)
	requireErrorAs[*lisptype.NotAProcedureError](t, "((cons 1 2))")
}

func TestEmptyApplication(t *testing.T) {
	requireErrorAs[*lisptype.UnknownExpressionError](t, "()")
}

func TestOperatorIsEvaluated(t *testing.T) {
	require.Equal(t, num(6), evalLast(t, "((if (< 1 2) + *) 1 2 3)"))
}

func TestIdempotence(t *testing.T) {
	src := "(let ((f (lambda (x) (cons x (* x 2))))) (f 21))"
	require.Equal(t, mustEval(t, src), mustEval(t, src))
}

func TestEvaluationStopsAtFirstError(t *testing.T) {
	values, err := EvaluateSource("(define a 1) (car 5) (define b 2)")
	require.Error(t, err)
	require.Equal(t, []lisptype.Value{lisptype.UnitValue()}, values)
}

func TestRecursionDepthLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 200
	session := NewSession(cfg, nil)
	_, err := session.EvalSource("(define (loop n) (+ 1 (loop n))) (loop 0)")
	var depthErr *lisptype.RecursionDepthError
	require.True(t, errors.As(err, &depthErr), "got %v", err)
	require.Equal(t, 200, depthErr.Limit)
	require.Contains(t, depthErr.Trace, "in loop: (loop n)")

	// the session is still usable and its counters were unwound
	values, err := session.EvalSource("(define (count n) (if (= n 0) 0 (+ 1 (count (- n 1))))) (count 20)")
	require.NoError(t, err)
	require.Equal(t, num(20), values[1])
	require.Zero(t, session.interp.depth)
	require.Empty(t, session.interp.stack)
}

func TestNumberLiteralOutOfRange(t *testing.T) {
	for _, src := range []string{"99999999999999999999", "-9223372036854775809"} {
		overflow := requireErrorAs[*lisptype.OverflowError](t, src)
		require.Equal(t, "literal", overflow.Operation)
		require.Equal(t, src, overflow.Literal)
		require.Equal(t, "eval: number literal "+src+" is out of range", overflow.Error())
	}
	require.Equal(t, num(-9223372036854775808), evalLast(t, "-9223372036854775808"))
}

func TestEmptyAtom(t *testing.T) {
	require.Equal(t, nameAtom, classifyAtom(""))
	_, err := NewInterpreter(0, nil).Eval(lisptype.NewAtom(""), NewTopLevelFrame())
	var unknown *lisptype.UnknownExpressionError
	require.True(t, errors.As(err, &unknown), "got %v", err)
}

func TestBooleanNames(t *testing.T) {
	require.Equal(t, []lisptype.Value{boolean(false), boolean(true)}, mustEval(t, "false true"))
	require.Equal(t, num(2), evalLast(t, "(if false 1 2)"))
	require.Equal(t, num(1), evalLast(t, "(if true 1 2)"))
	require.Equal(t, boolean(true), evalLast(t, "(= false (< 2 1))"))
	require.Equal(t, str("false"), evalLast(t, "(display false)"))
	// they are ordinary bindings, not literals
	require.Equal(t, num(1), evalLast(t, "(define false 0) (if false 1 2)"))
}

func TestClassifyAtom(t *testing.T) {
	require.Equal(t, stringAtom, classifyAtom(`"x`))
	require.Equal(t, numberAtom, classifyAtom("0"))
	require.Equal(t, numberAtom, classifyAtom("-12"))
	require.Equal(t, nameAtom, classifyAtom("-"))
	require.Equal(t, nameAtom, classifyAtom("--1"))
	require.Equal(t, nameAtom, classifyAtom("+1"))
	require.Equal(t, nameAtom, classifyAtom("12x"))
	require.Equal(t, nameAtom, classifyAtom("lambda"))
}
