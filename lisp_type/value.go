package lisptype

// this is the type enum for values
type ValueType int

// these are all the valid types for a value
const (
	Unit      ValueType = iota // the result of a define, carries nothing
	Number                     // a signed integer
	String                     // the raw text between the quotes
	Boolean                    // true or false, only false is falsy
	Pair                       // built by cons, Car and Cdr are set
	Closure                    // a user function, Value holds a *Procedure
	Primitive                  // a host function, Value holds a *Builtin
)

var typeNames = map[ValueType]string{
	Unit:      "unit",
	Number:    "number",
	String:    "string",
	Boolean:   "boolean",
	Pair:      "pair",
	Closure:   "closure",
	Primitive: "primitive",
}

func (t ValueType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// this is a value struct.
// a pair uses the two pointers and no data,
// everything else keeps its payload in Value
type Value struct {
	Car   *Value    // first component of a pair
	Cdr   *Value    // second component of a pair
	Type  ValueType // the type of this value
	Value any       // the value (if any)
}

// Procedure is the payload of a Closure value.
type Procedure struct {
	Name   string     // set by define, empty for anonymous lambdas
	Params []string   // parameter names, in order
	Body   Expression // exactly one expression
	Env    *Frame     // the frame active when the lambda was evaluated
}

// Builtin is the payload of a Primitive value.
type Builtin struct {
	Name string
	Fn   func(operands []Value) (Value, error)
}

var unitValue = Value{Type: Unit}

func UnitValue() Value { return unitValue }

func NewNumber(n int64) Value { return Value{Type: Number, Value: n} }

func NewString(s string) Value { return Value{Type: String, Value: s} }

func NewBoolean(b bool) Value { return Value{Type: Boolean, Value: b} }

// NewPair copies both components so the pair never aliases the caller's values.
func NewPair(first, second Value) Value {
	return Value{
		Car:  &first,
		Cdr:  &second,
		Type: Pair,
	}
}

func NewClosure(p *Procedure) Value { return Value{Type: Closure, Value: p} }

func NewPrimitive(name string, fn func([]Value) (Value, error)) Value {
	return Value{Type: Primitive, Value: &Builtin{Name: name, Fn: fn}}
}

func (v Value) Int() int64 { return v.Value.(int64) }

func (v Value) Str() string { return v.Value.(string) }

func (v Value) Procedure() *Procedure { return v.Value.(*Procedure) }

func (v Value) Builtin() *Builtin { return v.Value.(*Builtin) }

// IsFalse reports whether v is the boolean false. Every other value is truthy.
func (v Value) IsFalse() bool {
	return v.Type == Boolean && !v.Value.(bool)
}

// Equal is strict equality: same type and same payload.
// Pairs and procedures compare by identity, so two separate
// conses of the same components are not equal.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case Unit:
		return true
	case Pair:
		return a.Car == b.Car && a.Cdr == b.Cdr
	default:
		return a.Value == b.Value
	}
}
