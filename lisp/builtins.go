package lisp

import (
	"math"
	"strconv"
	"strings"

	lisptype "github.com/ian-bird/charme/lisp_type"
)

type builtinFn = func(operands []lisptype.Value) (lisptype.Value, error)

// the primitive library, registered into every top level frame
var builtins = map[string]builtinFn{
	"+":       primitivePlus,    // sum, 0 with no operands
	"-":       primitiveMinus,   // negation or subtraction
	"*":       primitiveTimes,   // product, 1 with no operands
	"=":       primitiveEquals,  // strict equality
	"<":       primitiveLess,    // numeric less than
	"cons":    primitiveCons,    // build a pair
	"car":     primitiveCar,     // first component of a pair
	"cdr":     primitiveCdr,     // second component of a pair
	"display": primitiveDisplay, // concatenated text of the operands
}

func registerBuiltins(frame *lisptype.Frame) {
	for name, fn := range builtins {
		frame.Define(name, lisptype.NewPrimitive(name, fn))
	}
}

func checkOperands(operands []lisptype.Value, num int, prim string) error {
	if len(operands) != num {
		return &lisptype.ArityMismatchError{
			Procedure: prim,
			Expected:  strconv.Itoa(num),
			Given:     len(operands),
		}
	}
	return nil
}

func checkType(v lisptype.Value, want lisptype.ValueType, prim string) error {
	if v.Type != want {
		return &lisptype.TypeMismatchError{Procedure: prim, Expected: want, Given: v.Type}
	}
	return nil
}

// the checked operations report false when the result leaves the int64 range

func addInt(a, b int64) (int64, bool) {
	sum := a + b
	return sum, (b >= 0) == (sum >= a)
}

func subInt(a, b int64) (int64, bool) {
	diff := a - b
	return diff, (b >= 0) == (diff <= a)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || product/b != a {
		return product, false
	}
	return product, true
}

// folds the numeric operands with fn starting from init
func foldNumbers(operands []lisptype.Value, prim string, init int64, fn func(acc, n int64) (int64, bool)) (lisptype.Value, error) {
	acc := init
	for _, operand := range operands {
		if err := checkType(operand, lisptype.Number, prim); err != nil {
			return lisptype.Value{}, err
		}
		var ok bool
		if acc, ok = fn(acc, operand.Int()); !ok {
			return lisptype.Value{}, &lisptype.OverflowError{Operation: prim}
		}
	}
	return lisptype.NewNumber(acc), nil
}

func primitivePlus(operands []lisptype.Value) (lisptype.Value, error) {
	return foldNumbers(operands, "+", 0, addInt)
}

func primitiveTimes(operands []lisptype.Value) (lisptype.Value, error) {
	return foldNumbers(operands, "*", 1, mulInt)
}

func primitiveMinus(operands []lisptype.Value) (lisptype.Value, error) {
	if len(operands) != 1 && len(operands) != 2 {
		return lisptype.Value{}, &lisptype.ArityMismatchError{
			Procedure: "-",
			Expected:  "1 or 2",
			Given:     len(operands),
		}
	}
	for _, operand := range operands {
		if err := checkType(operand, lisptype.Number, "-"); err != nil {
			return lisptype.Value{}, err
		}
	}
	var result int64
	var ok bool
	if len(operands) == 1 {
		result, ok = subInt(0, operands[0].Int())
	} else {
		result, ok = subInt(operands[0].Int(), operands[1].Int())
	}
	if !ok {
		return lisptype.Value{}, &lisptype.OverflowError{Operation: "-"}
	}
	return lisptype.NewNumber(result), nil
}

func primitiveEquals(operands []lisptype.Value) (lisptype.Value, error) {
	if err := checkOperands(operands, 2, "="); err != nil {
		return lisptype.Value{}, err
	}
	return lisptype.NewBoolean(lisptype.Equal(operands[0], operands[1])), nil
}

func primitiveLess(operands []lisptype.Value) (lisptype.Value, error) {
	if err := checkOperands(operands, 2, "<"); err != nil {
		return lisptype.Value{}, err
	}
	for _, operand := range operands {
		if err := checkType(operand, lisptype.Number, "<"); err != nil {
			return lisptype.Value{}, err
		}
	}
	return lisptype.NewBoolean(operands[0].Int() < operands[1].Int()), nil
}

func primitiveCons(operands []lisptype.Value) (lisptype.Value, error) {
	if err := checkOperands(operands, 2, "cons"); err != nil {
		return lisptype.Value{}, err
	}
	return lisptype.NewPair(operands[0], operands[1]), nil
}

func pairOperand(operands []lisptype.Value, prim string) (lisptype.Value, error) {
	if err := checkOperands(operands, 1, prim); err != nil {
		return lisptype.Value{}, err
	}
	if err := checkType(operands[0], lisptype.Pair, prim); err != nil {
		return lisptype.Value{}, err
	}
	return operands[0], nil
}

func primitiveCar(operands []lisptype.Value) (lisptype.Value, error) {
	pair, err := pairOperand(operands, "car")
	if err != nil {
		return lisptype.Value{}, err
	}
	return *pair.Car, nil
}

func primitiveCdr(operands []lisptype.Value) (lisptype.Value, error) {
	pair, err := pairOperand(operands, "cdr")
	if err != nil {
		return lisptype.Value{}, err
	}
	return *pair.Cdr, nil
}

func primitiveDisplay(operands []lisptype.Value) (lisptype.Value, error) {
	var sb strings.Builder
	for _, operand := range operands {
		sb.WriteString(Display(operand))
	}
	return lisptype.NewString(sb.String()), nil
}
