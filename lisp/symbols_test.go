package lisp

import (
	"fmt"
	"io"
	"testing"

	lisptype "genesis/lisp_type"
)

func TestInternIdentity(t *testing.T) {
	in := newTestInterpreter(t, testConfig(io.Discard))
	a := in.Intern("hello")
	if b := in.Intern("hello"); a != b {
		t.Fatalf("interning the same name twice gave %#x and %#x", uint64(a), uint64(b))
	}
	if c := in.Intern("hellO"); c == a {
		t.Fatalf("different names gave the same symbol")
	}
	if !a.IsSymbol() {
		t.Fatalf("Intern returned a non-symbol %#x", uint64(a))
	}

	in.Collect()
	if got := in.Intern("hello"); got != a {
		t.Fatalf("symbol changed across a collection")
	}
	if name := in.SymbolName(a); name != "hello" {
		t.Fatalf("SymbolName after collection = %q", name)
	}
}

func TestInternManyNames(t *testing.T) {
	h := NewHeap(1<<12, false)
	st := newSymbolTable(h, 64)
	syms := map[lisptype.Value]string{}
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("name-%d", i)
		s := st.intern(name)
		if prev, ok := syms[s]; ok {
			t.Fatalf("%q and %q share a symbol", name, prev)
		}
		syms[s] = name
	}
	if st.count() != 40 {
		t.Fatalf("count = %d, want 40", st.count())
	}
	h.Collect()
	for s, name := range syms {
		if got := st.name(s); got != name {
			t.Fatalf("name(%#x) = %q, want %q", uint64(s), got, name)
		}
		if st.intern(name) != s {
			t.Fatalf("%q interned to a new symbol after collection", name)
		}
	}
}

func TestSymbolTableOverflow(t *testing.T) {
	h := NewHeap(1<<10, false)
	st := newSymbolTable(h, 4)
	for i := 0; i < 4; i++ {
		st.intern(fmt.Sprint(i))
	}
	// names already present are still found when the table is full
	st.intern("2")
	wantFatal(t, TableOverflow, func() { st.intern("one too many") })
}
