package lisptype

// a frame contains bindings that associate
// names with values. Frames link upward to their parent,
// forming a tree that closures can share
type Frame struct {
	Parent   *Frame           // the frame above this one
	Bindings map[string]Value // its bindings
}

// NewFrame creates an empty frame below parent. parent is nil for the top level.
func NewFrame(parent *Frame) *Frame {
	return &Frame{
		Parent:   parent,
		Bindings: make(map[string]Value),
	}
}

// Define binds name in this frame only, shadowing any outer binding.
func (f *Frame) Define(name string, value Value) {
	f.Bindings[name] = value
}

// Lookup searches this frame first and then each ancestor in turn.
func (f *Frame) Lookup(name string) (Value, error) {
	for frame := f; frame != nil; frame = frame.Parent {
		if v, ok := frame.Bindings[name]; ok {
			return v, nil
		}
	}
	return Value{}, &UnboundNameError{Name: name}
}

// Depth is the number of ancestors above this frame.
func (f *Frame) Depth() int {
	depth := 0
	for frame := f.Parent; frame != nil; frame = frame.Parent {
		depth++
	}
	return depth
}
