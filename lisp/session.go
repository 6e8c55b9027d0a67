package lisp

import (
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	lisptype "github.com/ian-bird/charme/lisp_type"
)

// creates a new top level frame holding the primitive library
// and the names true and false
func NewTopLevelFrame() *lisptype.Frame {
	frame := lisptype.NewFrame(nil)
	frame.Define("true", lisptype.NewBoolean(true))
	frame.Define("false", lisptype.NewBoolean(false))
	registerBuiltins(frame)
	return frame
}

// Session is one top level frame plus the interpreter that evaluates into it.
// Definitions made by one call are visible to the next.
type Session struct {
	Frame     *lisptype.Frame
	interp    *Interpreter
	keepGoing bool
	log       *logrus.Entry
}

// NewSession creates a session with a fresh top level frame. log may be nil.
func NewSession(cfg Config, log *logrus.Entry) *Session {
	interp := NewInterpreter(cfg.MaxDepth, log)
	return &Session{
		Frame:     NewTopLevelFrame(),
		interp:    interp,
		keepGoing: cfg.KeepGoing,
		log:       interp.log,
	}
}

// EvaluateSource parses text and evaluates every top level expression
// in a fresh session, stopping at the first error.
func EvaluateSource(text string) ([]lisptype.Value, error) {
	return NewSession(DefaultConfig(), nil).EvalSource(text)
}

// Eval evaluates src, continuing past failures if the session was configured to.
func (s *Session) Eval(src string) ([]lisptype.Value, error) {
	if s.keepGoing {
		return s.EvalAll(src)
	}
	return s.EvalSource(src)
}

// EvalSource evaluates each expression of src in order and returns their values.
// The first error aborts the rest.
func (s *Session) EvalSource(src string) ([]lisptype.Value, error) {
	expressions, err := Read(src)
	if err != nil {
		return nil, err
	}
	values := make([]lisptype.Value, 0, len(expressions))
	for _, expr := range expressions {
		value, err := s.evalTopLevel(expr)
		if err != nil {
			return values, err
		}
		values = append(values, value)
	}
	return values, nil
}

// EvalAll evaluates every expression of src even when some fail.
// It returns the values of the expressions that succeeded, in order,
// and one error per failed expression.
func (s *Session) EvalAll(src string) ([]lisptype.Value, error) {
	expressions, err := Read(src)
	if err != nil {
		return nil, err
	}
	var result *multierror.Error
	values := make([]lisptype.Value, 0, len(expressions))
	for n, expr := range expressions {
		value, err := s.evalTopLevel(expr)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "expression %d", n+1))
			continue
		}
		values = append(values, value)
	}
	return values, result.ErrorOrNil()
}

func (s *Session) evalTopLevel(expr lisptype.Expression) (lisptype.Value, error) {
	s.log.WithField("expression", expr.String()).Debug("eval")
	value, err := s.interp.Eval(expr, s.Frame)
	if err != nil {
		s.log.WithError(err).Debug("eval failed")
		return lisptype.Value{}, err
	}
	return value, nil
}

// LoadFile evaluates the contents of fileName into the session.
func (s *Session) LoadFile(fileName string) ([]lisptype.Value, error) {
	bytes, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", fileName)
	}
	values, err := s.Eval(string(bytes))
	if err != nil {
		return values, errors.Wrapf(err, "load %s", fileName)
	}
	return values, nil
}
