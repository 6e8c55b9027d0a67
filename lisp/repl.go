package lisp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	lisptype "github.com/ian-bird/charme/lisp_type"
)

var (
	valueColor = color.New(color.FgBlue)
	errorColor = color.New(color.FgRed)
)

// LineReader is the part of *liner.State the REPL loop needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// WriteValues prints every value on its own line. Unit values are skipped.
func WriteValues(w io.Writer, values []lisptype.Value) {
	for _, v := range values {
		if v.Type == lisptype.Unit {
			continue
		}
		valueColor.Fprintln(w, Print(v))
	}
}

// WriteError prints err in the error colour.
func WriteError(w io.Writer, err error) {
	errorColor.Fprintln(w, err.Error())
}

// RunBatch evaluates everything readable from r in s and prints the results.
func RunBatch(s *Session, r io.Reader, out io.Writer) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "batch: read input")
	}
	values, err := s.Eval(string(src))
	WriteValues(out, values)
	return err
}

// Repl runs an interactive session on the terminal until Ctrl+D.
func Repl(s *Session, cfg Config, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath, err := expandHome(cfg.HistoryFile)
	if err != nil {
		s.log.WithError(err).Warn("history disabled")
		historyPath = ""
	}
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				s.log.WithError(err).Warn("could not read history")
			}
			f.Close()
		}
	}

	fmt.Fprintln(out, "charme interactive session. Ctrl+C cancels input, Ctrl+D or quit exits.")
	err = runRepl(s, line, out, cfg)

	if historyPath != "" {
		f, ferr := os.Create(historyPath)
		if ferr != nil {
			s.log.WithError(ferr).Warn("could not save history")
			return err
		}
		if _, ferr := line.WriteHistory(f); ferr != nil {
			s.log.WithError(ferr).Warn("could not save history")
		}
		f.Close()
	}
	return err
}

// the entry that ends an interactive session
const quitCommand = "quit"

// reads lines until the parens balance, then evaluates the whole entry.
// errors are reported and the loop carries on with the same session.
// A line reading quit at the start of an entry ends the loop
func runRepl(s *Session, line LineReader, out io.Writer, cfg Config) error {
	var entry strings.Builder
	for {
		prompt := cfg.Prompt
		if entry.Len() > 0 {
			prompt = cfg.ContinuationPrompt
		}
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			entry.Reset()
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "repl: read line")
		}

		if entry.Len() == 0 && strings.TrimSpace(input) == quitCommand {
			return nil
		}
		if entry.Len() > 0 {
			entry.WriteString("\n")
		}
		entry.WriteString(input)
		src := entry.String()
		if Balance(src) > 0 {
			continue
		}
		entry.Reset()
		if strings.TrimSpace(src) == "" {
			continue
		}
		line.AppendHistory(src)

		values, err := s.Eval(src)
		WriteValues(out, values)
		if err != nil {
			WriteError(out, err)
		}
	}
}
