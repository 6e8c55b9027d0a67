package lisp

import (
	"strconv"
	"strings"

	lisptype "github.com/ian-bird/charme/lisp_type"
)

// escapes special characters in string
func stringify(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

// converts a value to a string recursively.
// quote decides whether strings are written back
// as literals or as their raw text
func printValue(v lisptype.Value, quote bool) string {
	switch v.Type {
	case lisptype.Unit:
		return ""
	case lisptype.Boolean:
		if v.Value.(bool) {
			return "true"
		}
		return "false"
	case lisptype.Number:
		return strconv.FormatInt(v.Int(), 10)
	case lisptype.String:
		if quote {
			return "\"" + stringify(v.Str()) + "\""
		}
		return v.Str()
	case lisptype.Pair:
		return "(" + printValue(*v.Car, quote) + " . " + printValue(*v.Cdr, quote) + ")"
	case lisptype.Closure:
		proc := v.Procedure()
		params := "(" + strings.Join(proc.Params, " ") + ")"
		if proc.Name == "" {
			return "#<closure " + params + ">"
		}
		return "#<closure " + proc.Name + " " + params + ">"
	case lisptype.Primitive:
		return "#<primitive " + v.Builtin().Name + ">"
	default:
		return "#<unknown>"
	}
}

// Print renders a value the way the REPL shows it, strings quoted.
func Print(v lisptype.Value) string {
	return printValue(v, true)
}

// Display renders a value the way the display primitive joins it, strings raw.
func Display(v lisptype.Value) string {
	return printValue(v, false)
}
