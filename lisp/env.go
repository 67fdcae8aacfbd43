package lisp

import (
	lisptype "genesis/lisp_type"
)

// environments are chains of Env frames. each frame owns a fixed size
// open addressing table keyed by symbol, probed linearly.

func hashSymbol(sym lisptype.Value) uint64 {
	k := uint64(sym)
	return k ^ k>>16
}

// creates an empty frame below parent
func (in *Interpreter) newFrame(parent lisptype.Value, slots int) lisptype.Value {
	var table lisptype.Value
	mark := in.heap.Root(&parent, &table)
	defer in.heap.Unroot(mark)

	table = in.heap.NewVector(2*slots, lisptype.Void)
	frame := in.heap.Alloc(lisptype.Env, lisptype.EnvSize)
	in.heap.SetField(frame, lisptype.EnvParent, parent)
	in.heap.SetField(frame, lisptype.EnvBindings, table)
	return frame
}

// pushes a new frame below the current one and makes it current
func (in *Interpreter) extend() {
	in.env = in.newFrame(in.env, in.cfg.FrameSlots)
}

// finds the slot for sym in a binding table: either the slot holding it
// or the empty slot where it would go. -1 means the table is full.
func (in *Interpreter) probe(table, sym lisptype.Value) (int, bool) {
	slots := in.heap.Size(table) / 2
	index := int(hashSymbol(sym) % uint64(slots))
	for count := 0; count < slots; count++ {
		key := in.heap.Field(table, 2*index)
		if key == lisptype.Void {
			return index, false
		}
		if key == sym {
			return index, true
		}
		index = (index + 1) % slots
	}
	return -1, false
}

// looks a symbol up from the current frame outwards.
// an unbound symbol gives Void, the caller decides whether that's an error
func (in *Interpreter) lookup(sym lisptype.Value) lisptype.Value {
	for frame := in.env; frame != lisptype.Nil; frame = in.heap.Field(frame, lisptype.EnvParent) {
		table := in.heap.Field(frame, lisptype.EnvBindings)
		if index, found := in.probe(table, sym); found {
			return in.heap.Field(table, 2*index+1)
		}
	}
	return lisptype.Void
}

// binds sym in the current frame, replacing any binding it already has there
func (in *Interpreter) bind(sym, val lisptype.Value) {
	in.bindIn(in.env, sym, val)
}

func (in *Interpreter) bindIn(frame, sym, val lisptype.Value) {
	table := in.heap.Field(frame, lisptype.EnvBindings)
	index, _ := in.probe(table, sym)
	if index < 0 {
		fatal(TableOverflow, nil, "environment symbol table overflow binding %v", in.symbols.name(sym))
	}
	in.heap.SetField(table, 2*index, sym)
	in.heap.SetField(table, 2*index+1, val)
}

// updates the nearest existing binding of sym, reporting whether there was one
func (in *Interpreter) set(sym, val lisptype.Value) bool {
	for frame := in.env; frame != lisptype.Nil; frame = in.heap.Field(frame, lisptype.EnvParent) {
		table := in.heap.Field(frame, lisptype.EnvBindings)
		if index, found := in.probe(table, sym); found {
			in.heap.SetField(table, 2*index+1, val)
			return true
		}
	}
	return false
}
