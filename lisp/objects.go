package lisp

import (
	lisptype "genesis/lisp_type"
)

// constructors root their arguments while they allocate,
// the object they return is not rooted

func (in *Interpreter) cons(car, cdr lisptype.Value) lisptype.Value {
	mark := in.heap.Root(&car, &cdr)
	p := in.heap.Alloc(lisptype.Pair, lisptype.PairSize)
	in.heap.Unroot(mark)
	in.heap.SetField(p, lisptype.PairCar, car)
	in.heap.SetField(p, lisptype.PairCdr, cdr)
	return p
}

func (in *Interpreter) closure(env, args, body lisptype.Value, macro bool) lisptype.Value {
	mark := in.heap.Root(&env, &args, &body)
	c := in.heap.Alloc(lisptype.Closure, lisptype.ClosureSize)
	in.heap.Unroot(mark)
	in.heap.SetField(c, lisptype.ClosureEnv, env)
	in.heap.SetField(c, lisptype.ClosureArgs, args)
	in.heap.SetField(c, lisptype.ClosureBody, body)
	in.heap.SetField(c, lisptype.ClosureMacro, lisptype.MakeBoolean(macro))
	return c
}

// car and cdr of anything that isn't a pair is nil
func (in *Interpreter) car(x lisptype.Value) lisptype.Value {
	if !in.heap.Is(x, lisptype.Pair) {
		return lisptype.Nil
	}
	return in.heap.Field(x, lisptype.PairCar)
}

func (in *Interpreter) cdr(x lisptype.Value) lisptype.Value {
	if !in.heap.Is(x, lisptype.Pair) {
		return lisptype.Nil
	}
	return in.heap.Field(x, lisptype.PairCdr)
}

func (in *Interpreter) cadr(x lisptype.Value) lisptype.Value {
	return in.car(in.cdr(x))
}

func (in *Interpreter) cddr(x lisptype.Value) lisptype.Value {
	return in.cdr(in.cdr(x))
}

func (in *Interpreter) caddr(x lisptype.Value) lisptype.Value {
	return in.car(in.cddr(x))
}

func (in *Interpreter) isPair(x lisptype.Value) bool {
	return in.heap.Is(x, lisptype.Pair)
}

// (quote x)
func (in *Interpreter) quote(x lisptype.Value) lisptype.Value {
	return in.cons(in.sym.quote, in.cons(x, lisptype.Nil))
}

// an expression that evaluates to v
func (in *Interpreter) literal(v lisptype.Value) lisptype.Value {
	if v.IsSymbol() || in.isPair(v) {
		return in.quote(v)
	}
	return v
}

func (in *Interpreter) length(list lisptype.Value) int {
	n := 0
	for ; in.isPair(list); list = in.cdr(list) {
		n++
	}
	return n
}

// builds a list front to back. both ends stay rooted
// for as long as the builder is
type listBuilder struct {
	head, tail lisptype.Value
}

// roots the builder, along with any extra locations, and returns the mark
func (in *Interpreter) rootBuilder(b *listBuilder, extra ...*lisptype.Value) int {
	b.head, b.tail = lisptype.Nil, lisptype.Nil
	mark := in.heap.Root(&b.head, &b.tail)
	in.heap.Root(extra...)
	return mark
}

func (in *Interpreter) push(b *listBuilder, v lisptype.Value) {
	cell := in.cons(v, lisptype.Nil)
	if b.head == lisptype.Nil {
		b.head = cell
	} else {
		in.heap.SetField(b.tail, lisptype.PairCdr, cell)
	}
	b.tail = cell
}

// a copy of the spine of x ending in tail instead of nil.
// neither argument is modified
func (in *Interpreter) appendTwo(x, tail lisptype.Value) lisptype.Value {
	if !in.isPair(x) {
		return tail
	}
	var b listBuilder
	mark := in.rootBuilder(&b, &x, &tail)
	defer in.heap.Unroot(mark)

	for ; in.isPair(x); x = in.cdr(x) {
		in.push(&b, in.car(x))
	}
	in.heap.SetField(b.tail, lisptype.PairCdr, tail)
	return b.head
}
