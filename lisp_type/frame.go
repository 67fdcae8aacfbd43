package lisptype

// payload layouts, as word offsets after the header

const (
	PairCar  = 0
	PairCdr  = 1
	PairSize = 2
)

// a frame points at the frame above it and owns a binding table.
// the table is a vector of (symbol, value) slots, so slot i
// keeps its key at word 2i and its value at word 2i+1
const (
	EnvParent   = 0
	EnvBindings = 1
	EnvSize     = 2
)

// a closure stores its parameter list, its body (a list of expressions),
// the frame it was created in, and whether it is a macro
const (
	ClosureEnv   = 0
	ClosureArgs  = 1
	ClosureBody  = 2
	ClosureMacro = 3
	ClosureSize  = 4
)
