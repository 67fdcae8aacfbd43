package lisp

import (
	"io"
	"testing"

	lisptype "genesis/lisp_type"
)

func TestBindAndLookup(t *testing.T) {
	in := newTestInterpreter(t, testConfig(io.Discard))
	x, y := in.Intern("x"), in.Intern("y")
	one, two := lisptype.MakeInteger(1), lisptype.MakeInteger(2)

	if in.lookup(x) != lisptype.Void {
		t.Fatalf("x is bound before anything bound it")
	}
	in.bind(x, one)
	if in.lookup(x) != one {
		t.Fatalf("lookup after bind = %#x", uint64(in.lookup(x)))
	}
	in.bind(x, two)
	if in.lookup(x) != two {
		t.Fatalf("rebinding in the same frame didn't replace the value")
	}

	outer := in.env
	in.extend()
	if in.lookup(x) != two {
		t.Fatalf("inner frame can't see the outer binding")
	}
	in.bind(x, one)
	in.bind(y, one)
	if in.lookup(x) != one {
		t.Fatalf("inner binding doesn't shadow the outer one")
	}

	in.env = outer
	if in.lookup(x) != two || in.lookup(y) != lisptype.Void {
		t.Fatalf("inner bindings leaked into the outer frame")
	}
}

func TestSetUpdatesNearestBinding(t *testing.T) {
	in := newTestInterpreter(t, testConfig(io.Discard))
	x, z := in.Intern("x"), in.Intern("z")
	in.bind(x, lisptype.MakeInteger(1))
	outer := in.env

	in.extend()
	if !in.set(x, lisptype.MakeInteger(5)) {
		t.Fatalf("set didn't find the outer binding")
	}
	if in.set(z, lisptype.MakeInteger(5)) {
		t.Fatalf("set reported success for an unbound symbol")
	}

	in.env = outer
	if got := in.lookup(x); got.Integer() != 5 {
		t.Fatalf("outer binding is %d after set", got.Integer())
	}
}

func TestBindingsSurviveCollection(t *testing.T) {
	in := newTestInterpreter(t, testConfig(io.Discard))
	names := []string{"alpha", "beta", "gamma", "delta"}
	for i, name := range names {
		in.bind(in.Intern(name), lisptype.MakeInteger(int64(i)))
	}
	in.Collect()
	in.Collect()
	for i, name := range names {
		if got := in.lookup(in.Intern(name)); got != lisptype.MakeInteger(int64(i)) {
			t.Fatalf("%v = %#x after collection", name, uint64(got))
		}
	}
}

func TestFrameOverflowIsFatal(t *testing.T) {
	in := newTestInterpreter(t, testConfig(io.Discard))
	a, b, c := in.Intern("a"), in.Intern("b"), in.Intern("c")
	_, err := in.guard(func() (lisptype.Value, error) {
		frame := in.newFrame(lisptype.Nil, 2)
		in.bindIn(frame, a, lisptype.True)
		in.bindIn(frame, b, lisptype.True)
		in.bindIn(frame, a, lisptype.False) // replaces, still fits
		in.bindIn(frame, c, lisptype.True)
		return lisptype.Void, nil
	})
	if !IsFatal(err) {
		t.Fatalf("expected a fatal table overflow, got %v", err)
	}
	if e := err.(*Error); e.Kind != TableOverflow {
		t.Fatalf("expected a table overflow, got %v", e.Kind)
	}
}
