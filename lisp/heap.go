package lisp

import (
	"encoding/binary"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	lisptype "genesis/lisp_type"
)

// a heap is a pair of equally sized semispaces.
// objects are bump allocated in the active space; when a request
// doesn't fit, the live objects are copied into the other space
// and the two swap roles.
//
// anything the collector should keep alive must be reachable from a root.
// permanent roots are registered once, temporaries are pushed onto the
// root stack for as long as they are needed and popped in LIFO order.
type Heap struct {
	space []lisptype.Value // where new objects are allocated
	spare []lisptype.Value // the copy target of the next collection
	top   int              // next free word in space

	roots     []*lisptype.Value // the root stack
	permanent []*lisptype.Value

	stress      bool // collect on every allocation
	collections int

	trace tracing.Trace
}

type HeapStats struct {
	Collections int // collections run so far
	Used        int // words in use in the active space
	Capacity    int // words per semispace
	Roots       int // current depth of the root stack
}

func NewHeap(words int, stress bool) *Heap {
	return &Heap{
		space:  make([]lisptype.Value, words),
		spare:  make([]lisptype.Value, words),
		top:    1, // address 0 stays unused
		stress: stress,
		trace:  gtrace.InterpreterTracer,
	}
}

// collections are traced at debug level
func (h *Heap) SetTracer(t tracing.Trace) {
	h.trace = t
}

// pushes the given locations onto the root stack and returns
// the mark to pass to Unroot once they're no longer needed
func (h *Heap) Root(ptrs ...*lisptype.Value) int {
	mark := len(h.roots)
	h.roots = append(h.roots, ptrs...)
	return mark
}

// pops the root stack back down to mark
func (h *Heap) Unroot(mark int) {
	clear(h.roots[mark:])
	h.roots = h.roots[:mark]
}

// registers a location that stays a root for the life of the heap
func (h *Heap) AddRoot(ptr *lisptype.Value) {
	h.permanent = append(h.permanent, ptr)
}

func (h *Heap) Stats() HeapStats {
	return HeapStats{
		Collections: h.collections,
		Used:        h.top,
		Capacity:    len(h.space),
		Roots:       len(h.roots),
	}
}

// allocates a block of size payload words and stamps its header.
// the payload is zeroed, callers fill it in before the next allocation
func (h *Heap) Alloc(t lisptype.ObjectType, size int) lisptype.Value {
	need := size + 1
	if h.stress || h.top+need > len(h.space) {
		h.Collect()
	}
	if h.top+need > len(h.space) {
		fatal(HeapExhausted, nil, "heap overflow: %v words requested, %v of %v in use",
			need, h.top, len(h.space))
	}
	addr := h.top
	h.top += need
	h.space[addr] = lisptype.Value(lisptype.MakeHeader(0, t, size))
	clear(h.space[addr+1 : addr+need])
	return lisptype.MakeObject(addr)
}

// copies everything reachable from the roots into the spare space
func (h *Heap) Collect() {
	from := h.space
	h.space, h.spare = h.spare, h.space
	h.top = 1

	for _, ptr := range h.permanent {
		*ptr = h.move(from, *ptr)
	}
	for _, ptr := range h.roots {
		*ptr = h.move(from, *ptr)
	}

	// nothing may point into the old space any more
	clear(from)
	h.collections++

	if h.trace.GetTraceLevel() >= tracing.LevelDebug {
		h.trace.P("gc", h.collections).Debugf("%v of %v words live, %v roots",
			h.top, len(h.space), len(h.permanent)+len(h.roots))
	}
}

// moves one object out of from, returning its new reference.
// the old header is overwritten with a forwarding header before
// the fields are visited, so shared structure and cycles are only
// copied once.
func (h *Heap) move(from []lisptype.Value, x lisptype.Value) lisptype.Value {
	if !x.IsObject() {
		return x
	}
	old := x.Address()
	header := lisptype.Header(from[old])
	if header.Forwarded() {
		return lisptype.MakeObject(header.ForwardAddress())
	}

	// the copy can't run out of room, the live data
	// was already sitting in a space of the same size
	size := header.Size()
	addr := h.top
	h.top += size + 1
	copy(h.space[addr:addr+size+1], from[old:old+size+1])
	from[old] = lisptype.Value(lisptype.ForwardTo(addr))

	if header.Type() != lisptype.String {
		for i := addr + 1; i <= addr+size; i++ {
			h.space[i] = h.move(from, h.space[i])
		}
	}
	return lisptype.MakeObject(addr)
}

func (h *Heap) Header(v lisptype.Value) lisptype.Header {
	return lisptype.Header(h.space[v.Address()])
}

// the object type of v, or 0 if v isn't an object
func (h *Heap) TypeOf(v lisptype.Value) lisptype.ObjectType {
	if !v.IsObject() {
		return 0
	}
	return h.Header(v).Type()
}

func (h *Heap) Is(v lisptype.Value, t lisptype.ObjectType) bool {
	return h.TypeOf(v) == t
}

func (h *Heap) Size(v lisptype.Value) int {
	return h.Header(v).Size()
}

func (h *Heap) Field(v lisptype.Value, i int) lisptype.Value {
	return h.space[v.Address()+1+i]
}

func (h *Heap) SetField(v lisptype.Value, i int, x lisptype.Value) {
	h.space[v.Address()+1+i] = x
}

func (h *Heap) NewVector(n int, fill lisptype.Value) lisptype.Value {
	v := h.Alloc(lisptype.Vector, n)
	for i := 0; i < n; i++ {
		h.SetField(v, i, fill)
	}
	return v
}

// strings are packed eight bytes to a word, little endian,
// and always end in a NUL byte
func (h *Heap) NewString(s string) lisptype.Value {
	words := (len(s) + 8) / 8
	v := h.Alloc(lisptype.String, words)
	buf := make([]byte, words*8)
	copy(buf, s)
	for i := 0; i < words; i++ {
		h.SetField(v, i, lisptype.Value(binary.LittleEndian.Uint64(buf[i*8:])))
	}
	return v
}

func (h *Heap) StringOf(v lisptype.Value) string {
	size := h.Size(v)
	buf := make([]byte, 0, size*8)
	var word [8]byte
	for i := 0; i < size; i++ {
		binary.LittleEndian.PutUint64(word[:], uint64(h.Field(v, i)))
		for _, b := range word {
			if b == 0 {
				return string(buf)
			}
			buf = append(buf, b)
		}
	}
	return string(buf)
}

// compares a string object with s without copying it out
func (h *Heap) StringEquals(v lisptype.Value, s string) bool {
	size := h.Size(v)
	if len(s) >= size*8 {
		return false
	}
	var word [8]byte
	for i := 0; i <= len(s); i++ {
		if i%8 == 0 {
			binary.LittleEndian.PutUint64(word[:], uint64(h.Field(v, i/8)))
		}
		b := word[i%8]
		if i == len(s) {
			return b == 0
		}
		if b != s[i] {
			return false
		}
	}
	return false
}
