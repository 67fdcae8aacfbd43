package lisp

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// feeds the repl a fixed script, recording what it puts in the history
type scriptedLines struct {
	lines   []string
	prompts int
	history []string
}

func (s *scriptedLines) Prompt(prompt string) (string, error) {
	s.prompts++
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedLines) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func newReplInterpreter(t *testing.T) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	cfg := testConfig(io.Discard)
	cfg.Log = log.New(&logs, "", 0)
	return newTestInterpreter(t, cfg), &logs
}

func TestReplSession(t *testing.T) {
	in, logs := newReplInterpreter(t)
	lines := &scriptedLines{lines: []string{
		"(def x 2)",
		"",
		"   ",
		"(car 1)",
		"(undefined)",
		"(+ x 1)",
		"  quit  ",
		"(+ 1 1)",
	}}
	var out bytes.Buffer
	if err := in.Repl(lines, &out); err != nil {
		t.Fatalf("Repl: %v", err)
	}

	if got, want := out.String(), "have fun!\nx\n3\ngoodbye!\n"; got != want {
		t.Fatalf("repl output\n got: %q\nwant: %q", got, want)
	}
	if !strings.Contains(logs.String(), "error: car expects pair type") ||
		!strings.Contains(logs.String(), "error: unbound symbol undefined") {
		t.Fatalf("errors weren't logged: %q", logs.String())
	}
	if len(lines.lines) != 1 {
		t.Fatalf("the repl kept reading after quit")
	}
	want := []string{"(def x 2)", "(car 1)", "(undefined)", "(+ x 1)"}
	if strings.Join(lines.history, "|") != strings.Join(want, "|") {
		t.Fatalf("history = %q", lines.history)
	}
}

func TestReplEndOfInput(t *testing.T) {
	in, _ := newReplInterpreter(t)
	var out bytes.Buffer
	if err := in.Repl(&scriptedLines{lines: []string{"'(a b)"}}, &out); err != nil {
		t.Fatalf("Repl: %v", err)
	}
	if got, want := out.String(), "have fun!\n(a b)\ngoodbye!\n"; got != want {
		t.Fatalf("repl output\n got: %q\nwant: %q", got, want)
	}
}

func TestReplStopsOnFatalError(t *testing.T) {
	in, _ := newReplInterpreter(t)
	missing := filepath.Join(t.TempDir(), "nope.lisp")
	lines := &scriptedLines{lines: []string{`(import "` + missing + `")`, "1"}}
	var out bytes.Buffer
	err := in.Repl(lines, &out)
	if !IsFatal(err) {
		t.Fatalf("expected a fatal error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("the cause should be kept: %v", err)
	}
	if strings.Contains(out.String(), "goodbye!") {
		t.Fatalf("a fatal error shouldn't say goodbye: %q", out.String())
	}
}

type brokenLines struct{}

func (brokenLines) Prompt(string) (string, error) {
	return "", errors.New("terminal went away")
}

func TestReplInputError(t *testing.T) {
	in, _ := newReplInterpreter(t)
	if err := in.Repl(brokenLines{}, io.Discard); err == nil || err.Error() != "terminal went away" {
		t.Fatalf("expected the input error back, got %v", err)
	}
}

func TestRunFile(t *testing.T) {
	in, _ := newReplInterpreter(t)
	path := filepath.Join(t.TempDir(), "prog.lisp")
	if err := os.WriteFile(path, []byte("(begin (defun sq (x) (* x x)) (sq 12))"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := in.RunFile(path, &out); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if out.String() != "144\n" {
		t.Fatalf("RunFile printed %q", out.String())
	}
}
