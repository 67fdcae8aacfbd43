package lisptype

import "testing"

func TestIntegerEncoding(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40), 1<<62 - 1, -(1 << 62)} {
		v := MakeInteger(n)
		if !v.IsInteger() {
			t.Fatalf("MakeInteger(%d) is not an integer: %#x", n, uint64(v))
		}
		if got := v.Integer(); got != n {
			t.Fatalf("MakeInteger(%d).Integer() = %d", n, got)
		}
		if v.IsSymbol() || v.IsBoolean() || v.IsPrimitive() || v.IsObject() {
			t.Fatalf("integer %d matched another tag: %#x", n, uint64(v))
		}
	}
}

func TestFitsInteger(t *testing.T) {
	cases := []struct {
		n    int64
		fits bool
	}{
		{0, true},
		{MaxInteger, true},
		{MinInteger, true},
		{MaxInteger + 1, false},
		{MinInteger - 1, false},
		{1<<63 - 1, false},
		{-1 << 63, false},
	}
	for _, c := range cases {
		if got := FitsInteger(c.n); got != c.fits {
			t.Fatalf("FitsInteger(%d) = %v", c.n, got)
		}
		if c.fits && MakeInteger(c.n).Integer() != c.n {
			t.Fatalf("%d doesn't survive a round trip", c.n)
		}
	}
}

func TestImmediatesAreDistinct(t *testing.T) {
	all := map[string]Value{
		"false":     False,
		"true":      True,
		"nil":       Nil,
		"void":      Void,
		"symbol":    MakeSymbol(3),
		"primitive": MakePrimitive(3),
		"object":    MakeObject(3),
		"integer":   MakeInteger(3),
	}
	seen := map[Value]string{}
	for name, v := range all {
		if other, ok := seen[v]; ok {
			t.Fatalf("%v and %v share the word %#x", name, other, uint64(v))
		}
		seen[v] = name
	}

	if !False.IsBoolean() || !True.IsBoolean() {
		t.Fatalf("booleans don't carry the boolean tag")
	}
	if Nil.IsBoolean() || Void.IsBoolean() || Nil.IsSymbol() || Void.IsObject() {
		t.Fatalf("nil or void matched another tag")
	}
	if !True.Bool() || False.Bool() {
		t.Fatalf("Bool() is wrong")
	}
	if MakeBoolean(true) != True || MakeBoolean(false) != False {
		t.Fatalf("MakeBoolean doesn't give the singletons")
	}
}

func TestPayloads(t *testing.T) {
	s := MakeSymbol(4095)
	if !s.IsSymbol() || s.SymbolSlot() != 4095 {
		t.Fatalf("symbol slot round trip failed: %#x", uint64(s))
	}
	p := MakePrimitive(17)
	if !p.IsPrimitive() || p.PrimitiveIndex() != 17 {
		t.Fatalf("primitive index round trip failed: %#x", uint64(p))
	}
	o := MakeObject(12345)
	if !o.IsObject() || o.Address() != 12345 {
		t.Fatalf("object address round trip failed: %#x", uint64(o))
	}
	if Value(0).IsObject() {
		t.Fatalf("the zero word should not be an object")
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []Value{True, MakeInteger(0), Void, MakeSymbol(1), MakeObject(1)} {
		if !v.Truthy() {
			t.Fatalf("%#x should be truthy", uint64(v))
		}
	}
	for _, v := range []Value{False, Nil} {
		if v.Truthy() {
			t.Fatalf("%#x should be falsy", uint64(v))
		}
	}
}

func TestHeader(t *testing.T) {
	h := MakeHeader(0, Closure, ClosureSize)
	if h.Type() != Closure || h.Size() != ClosureSize || h.Forwarded() {
		t.Fatalf("header fields wrong: type %v size %v forwarded %v", h.Type(), h.Size(), h.Forwarded())
	}

	big := MakeHeader(0, Vector, 1<<31)
	if big.Size() != 1<<31 || big.Type() != Vector {
		t.Fatalf("large size didn't survive: %v", big.Size())
	}

	f := ForwardTo(98765)
	if !f.Forwarded() || f.ForwardAddress() != 98765 {
		t.Fatalf("forwarding header wrong: %#x", uint64(f))
	}
}

func TestPrimitiveFlags(t *testing.T) {
	f := Unevaluated | TailCall
	if !f.Has(Unevaluated) || !f.Has(TailCall) {
		t.Fatalf("combined flags lost a bit")
	}
	if PrimitiveFlags(0).Has(TailCall) || TailCall.Has(Unevaluated) {
		t.Fatalf("flags reported that aren't set")
	}
}
