package lisp

import (
	lisptype "genesis/lisp_type"
)

// the symbol table interns names so that a given name always maps to
// the same slot. a symbol value is just that slot number, which never
// changes, while the string object the slot holds moves with the heap.
type symbolTable struct {
	heap  *Heap
	table lisptype.Value // vector of string objects, Void when empty
}

func newSymbolTable(heap *Heap, slots int) *symbolTable {
	t := &symbolTable{heap: heap}
	t.table = heap.NewVector(slots, lisptype.Void)
	heap.AddRoot(&t.table)
	return t
}

// djb2
func hashString(s string) uint64 {
	var hash uint64 = 5381
	for i := 0; i < len(s); i++ {
		hash = hash<<5 + hash + uint64(s[i])
	}
	return hash
}

func (t *symbolTable) intern(name string) lisptype.Value {
	size := t.heap.Size(t.table)
	index := int(hashString(name) % uint64(size))
	for count := 0; count < size; count++ {
		entry := t.heap.Field(t.table, index)
		if entry == lisptype.Void {
			// allocating may move the table, so look it up again afterwards
			s := t.heap.NewString(name)
			t.heap.SetField(t.table, index, s)
			return lisptype.MakeSymbol(index)
		}
		if t.heap.StringEquals(entry, name) {
			return lisptype.MakeSymbol(index)
		}
		index = (index + 1) % size
	}
	fatal(TableOverflow, nil, "symbol table overflow interning %q", name)
	return lisptype.Void
}

func (t *symbolTable) name(sym lisptype.Value) string {
	return t.heap.StringOf(t.heap.Field(t.table, sym.SymbolSlot()))
}

// how many names have been interned
func (t *symbolTable) count() int {
	n := 0
	size := t.heap.Size(t.table)
	for i := 0; i < size; i++ {
		if t.heap.Field(t.table, i) != lisptype.Void {
			n++
		}
	}
	return n
}
