package lisptype

import "strings"

// the stackframe records a single procedure application
// that is still in progress. The evaluator keeps a stack of these
// so that a runaway recursion can report where it happened
type StackFrame struct {
	Procedure string     // name of the procedure being applied, "lambda" if anonymous
	Call      Expression // the application expression
}

// Trace renders the innermost n frames, innermost first.
func Trace(stack []StackFrame, n int) string {
	var lines []string
	for i := len(stack) - 1; i >= 0 && len(lines) < n; i-- {
		lines = append(lines, "  in "+stack[i].Procedure+": "+stack[i].Call.String())
	}
	return strings.Join(lines, "\n")
}
