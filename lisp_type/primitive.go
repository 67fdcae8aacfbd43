package lisptype

// flags describing how the evaluator calls a primitive
type PrimitiveFlags int

const (
	// the operands are passed to the primitive as written, not evaluated
	Unevaluated PrimitiveFlags = 1 << iota
	// the primitive returns an expression which the evaluator continues
	// with in the same activation, instead of a finished value
	TailCall
)

func (f PrimitiveFlags) Has(flag PrimitiveFlags) bool {
	return f&flag != 0
}
