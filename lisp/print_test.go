package lisp

import (
	"io"
	"testing"

	lisptype "genesis/lisp_type"
)

func TestPrintImmediates(t *testing.T) {
	in := newTestInterpreter(t, testConfig(io.Discard))
	cases := []struct {
		v    lisptype.Value
		want string
	}{
		{lisptype.MakeInteger(-3), "-3"},
		{lisptype.True, "true"},
		{lisptype.False, "false"},
		{lisptype.Nil, "nil"},
		{lisptype.Void, "void"},
		{in.Intern("some-symbol"), "some-symbol"},
	}
	for _, c := range cases {
		if got := in.Print(c.v); got != c.want {
			t.Fatalf("Print = %s, want %s", got, c.want)
		}
	}
}

func TestPrintObjects(t *testing.T) {
	in := newTestInterpreter(t, testConfig(io.Discard))
	cases := []struct{ src, want string }{
		{"car", "<primitive car>"},
		{"(fun (x) (+ x 1))", "<fun (x) (+ x 1)>"},
		{"(fun (a ... rest) (println a) rest)", "<fun (a ... rest) (println a) rest>"},
		{"(fun args args)", "<fun args args>"},
		{"(macro (x) x)", "<macro (x) x>"},
		{"'(1 (2 (3)) 4)", "(1 (2 (3)) 4)"},
		{"(cons 1 (cons 2 3))", "(1 2 3)"},
		{"(vector 1 (vector) '(a))", "[1 [] (a)]"},
		{`"quote \" inside"`, `"quote \" inside"`},
		{"(list true false nil void)", "(true false nil void)"},
	}
	for _, c := range cases {
		wantPrint(t, in, c.src, c.want)
	}
}

func TestPrintOpaqueObjects(t *testing.T) {
	in := newTestInterpreter(t, testConfig(io.Discard))
	if got := in.Print(in.env); got != "<env>" {
		t.Fatalf("an environment printed as %s", got)
	}
}
