package lisp

import (
	"io"
	"testing"
)

const preludePath = "../lisp_src/prelude.lisp"

func newPreludeInterpreter(t *testing.T, cfg Config) *Interpreter {
	t.Helper()
	in := newTestInterpreter(t, cfg)
	v, err := in.Load(preludePath)
	if err != nil {
		t.Fatalf("loading the prelude: %v", err)
	}
	if in.Print(v) != "prelude" {
		t.Fatalf("the prelude evaluated to %s", in.Print(v))
	}
	return in
}

func TestPrelude(t *testing.T) {
	in := newPreludeInterpreter(t, testConfig(io.Discard))
	cases := []struct{ src, want string }{
		{"(cadr '(1 2 3))", "2"},
		{"(caddr '(1 2 3))", "3"},
		{"(identity 'x)", "x"},
		{"(list? nil)", "true"},
		{"(list? 1)", "false"},
		{"(zero? 0)", "true"},
		{"(even? 4)", "true"},
		{"(odd? -3)", "true"},
		{"(abs -7)", "7"},
		{"(max 3 9 2)", "9"},
		{"(min 3 9 2)", "2"},
		{"(max 4)", "4"},
		{"(reverse '(1 2 3))", "(3 2 1)"},
		{"(foldr cons nil '(1 2 3))", "(1 2 3)"},
		{"(map (fun (x) (* x x)) '(1 2 3))", "(1 4 9)"},
		{"(filter odd? (range 0 10))", "(1 3 5 7 9)"},
		{"(range 3 3)", "nil"},
		{"(sum (range 1 101))", "5050"},
		{"(nth '(a b c) 2)", "c"},
		{"(last '(1 2 3))", "3"},
		{"(zip '(1 2 3) '(a b))", "((1 a) (2 b))"},
		{"((compose abs (fun (x) (- x 10))) 3)", "7"},
		{"(assoc 'b '((a 1) (b 2)))", "(b 2)"},
		{"(assoc 'z '((a 1)))", "nil"},
		{"(equal? '(1 (2 3)) '(1 (2 3)))", "true"},
		{"(equal? '(1 2) '(1 3))", "false"},
	}
	for _, c := range cases {
		wantPrint(t, in, c.src, c.want)
	}

	// long lists don't grow the stack
	wantPrint(t, in, "(length (map identity (range 0 50000)))", "50000")
}

func TestPreludeUnderStress(t *testing.T) {
	cfg := testConfig(io.Discard)
	cfg.HeapWords = 1 << 15
	cfg.StressGC = true
	in := newPreludeInterpreter(t, cfg)
	wantPrint(t, in, "(sum (map (fun (x) (* x x)) (range 1 21)))", "2870")
	wantPrint(t, in, "(reverse (filter even? (range 0 9)))", "(8 6 4 2 0)")
}
