package lisp

import (
	"errors"
	"fmt"
	"io"
	"strings"

	lisptype "genesis/lisp_type"
)

// a source of input lines, such as a liner.State
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// line readers that keep a history get every line that was evaluated
type historyKeeper interface {
	AppendHistory(item string)
}

const (
	prompt  = "> "
	banner  = "have fun!"
	goodbye = "goodbye!"
)

// reads the single form in the file at path and evaluates it
// in the current environment, the same as (import "path")
func (in *Interpreter) Load(path string) (lisptype.Value, error) {
	return in.guard(func() (lisptype.Value, error) {
		x, err := in.readFile(path)
		if err != nil {
			return lisptype.Void, err
		}
		return in.eval(x)
	})
}

// evaluates the form in the file at path and prints the result
func (in *Interpreter) RunFile(path string, w io.Writer) error {
	v, err := in.Load(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, in.Print(v))
	return err
}

// IsFatal reports whether err is one the interpreter cannot continue after
func IsFatal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind.Fatal()
}

// runs the interactive loop until the input ends or the user types quit.
// recoverable errors are logged and the loop carries on, a fatal error
// stops the loop and is returned
func (in *Interpreter) Repl(lines LineReader, w io.Writer) error {
	fmt.Fprintln(w, banner)
	for {
		line, err := lines.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "quit" {
			break
		}
		if input == "" {
			continue
		}
		if h, ok := lines.(historyKeeper); ok {
			h.AppendHistory(input)
		}

		v, err := in.EvalForm(input)
		if err != nil {
			if IsFatal(err) {
				return err
			}
			in.log.Printf("error: %v", err)
			continue
		}
		fmt.Fprintln(w, in.Print(v))
	}
	fmt.Fprintln(w, goodbye)
	return nil
}
