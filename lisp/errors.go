package lisp

import "fmt"

type ErrorKind int

const (
	UnboundSymbol ErrorKind = iota
	TypeMismatch
	NotCallable
	ParseError
	ArithmeticError
	StackOverflow

	// everything from here on stops the interpreter
	TableOverflow
	HeapExhausted
	IoError
)

// after a fatal error the session ends,
// the REPL doesn't carry on from it
func (k ErrorKind) Fatal() bool {
	return k >= TableOverflow
}

func (k ErrorKind) String() string {
	switch k {
	case UnboundSymbol:
		return "unbound symbol"
	case TypeMismatch:
		return "type mismatch"
	case NotCallable:
		return "not callable"
	case ParseError:
		return "parse error"
	case ArithmeticError:
		return "arithmetic error"
	case StackOverflow:
		return "stack overflow"
	case TableOverflow:
		return "table overflow"
	case HeapExhausted:
		return "heap exhausted"
	case IoError:
		return "io error"
	default:
		return "error"
	}
}

type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// raises a fatal error from somewhere that has no error return,
// the nearest recovery point turns it back into an error value
func fatal(kind ErrorKind, cause error, format string, args ...any) {
	panic(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause})
}
