package lisp

import (
	"io"
	"log"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	lisptype "genesis/lisp_type"
)

type Config struct {
	HeapWords      int  // words in each semispace
	SymbolSlots    int  // capacity of the symbol table
	RootFrameSlots int  // binding capacity of the top level frame
	FrameSlots     int  // binding capacity of every other frame
	MaxDepth       int  // nested evaluations allowed before giving up
	StressGC       bool // collect before every allocation

	Output io.Writer     // where println writes
	Log    *log.Logger   // diagnostics
	Trace  tracing.Trace // internals, collections and unwinding
}

func DefaultConfig() Config {
	return Config{
		HeapWords:      1 << 21,
		SymbolSlots:    4096,
		RootFrameSlots: 1024,
		FrameSlots:     32,
		MaxDepth:       5000,
		Output:         os.Stdout,
		Log:            log.New(os.Stderr, "", 0),
		Trace:          gtrace.InterpreterTracer,
	}
}

// fills in anything left at its zero value
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HeapWords <= 0 {
		c.HeapWords = d.HeapWords
	}
	if c.SymbolSlots <= 0 {
		c.SymbolSlots = d.SymbolSlots
	}
	if c.RootFrameSlots <= 0 {
		c.RootFrameSlots = d.RootFrameSlots
	}
	if c.FrameSlots <= 0 {
		c.FrameSlots = d.FrameSlots
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.Output == nil {
		c.Output = d.Output
	}
	if c.Log == nil {
		c.Log = d.Log
	}
	if c.Trace == nil {
		c.Trace = d.Trace
	}
	return c
}

// all of the state of one running interpreter.
// an interpreter must only be used from one goroutine at a time
type Interpreter struct {
	cfg     Config
	heap    *Heap
	symbols *symbolTable
	prims   []primitive

	env lisptype.Value // the active frame
	top lisptype.Value // the frame restored after an error

	// symbols the evaluator and reader look for
	sym struct {
		quote, quasi, unquote, splicing lisptype.Value
		void, ellipsis, elseSym         lisptype.Value
	}

	gensymCounter int
	depth         int
	out           io.Writer
	log           *log.Logger
	trace         tracing.Trace
}

// what the trampoline does next: either evaluate value
// in the current environment, or finish with it
type stepKind int

const (
	stepEval stepKind = iota
	stepReturn
)

type step struct {
	kind  stepKind
	value lisptype.Value
}

func done(v lisptype.Value) step {
	return step{kind: stepReturn, value: v}
}

func New(cfg Config) (in *Interpreter, err error) {
	cfg = cfg.withDefaults()
	in = &Interpreter{
		cfg:   cfg,
		heap:  NewHeap(cfg.HeapWords, cfg.StressGC),
		env:   lisptype.Nil,
		top:   lisptype.Nil,
		out:   cfg.Output,
		log:   cfg.Log,
		trace: cfg.Trace,
	}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			in, err = nil, e
		}
	}()

	in.heap.SetTracer(cfg.Trace)
	in.heap.AddRoot(&in.env)
	in.heap.AddRoot(&in.top)
	in.symbols = newSymbolTable(in.heap, cfg.SymbolSlots)
	in.env = in.newFrame(lisptype.Nil, cfg.RootFrameSlots)
	in.top = in.env

	in.sym.quote = in.Intern("quote")
	in.sym.quasi = in.Intern("quasi")
	in.sym.unquote = in.Intern("unquote")
	in.sym.splicing = in.Intern("splicing")
	in.sym.void = in.Intern("void")
	in.sym.ellipsis = in.Intern("...")
	in.sym.elseSym = in.Intern("else")

	in.prims = builtins()
	for i, p := range in.prims {
		in.bind(in.Intern(p.name), lisptype.MakePrimitive(i))
	}
	in.bind(in.Intern("true"), lisptype.True)
	in.bind(in.Intern("false"), lisptype.False)
	in.bind(in.Intern("nil"), lisptype.Nil)
	in.bind(in.Intern("void"), lisptype.Void)
	in.trace.Debugf("interpreter ready: %v primitives, %v symbols, %v words in use",
		len(in.prims), in.symbols.count(), in.heap.Stats().Used)
	return in, nil
}

// interns name, giving the same symbol for the same text every time
func (in *Interpreter) Intern(name string) lisptype.Value {
	return in.symbols.intern(name)
}

func (in *Interpreter) SymbolName(sym lisptype.Value) string {
	return in.symbols.name(sym)
}

func (in *Interpreter) Collect() {
	in.heap.Collect()
}

func (in *Interpreter) Stats() HeapStats {
	return in.heap.Stats()
}

// runs fn as a top level evaluation. whatever goes wrong inside, the root
// stack and the environment are put back the way they were at startup
func (in *Interpreter) guard(fn func() (lisptype.Value, error)) (v lisptype.Value, err error) {
	mark := len(in.heap.roots)
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			v, err = lisptype.Void, e
		}
		if err != nil {
			in.trace.Infof("unwinding to top level: %v", err)
			in.heap.Unroot(mark)
			in.env = in.top
			in.depth = 0
		}
	}()
	return fn()
}

// reads and evaluates every form in src in order, returning the last result
func (in *Interpreter) EvalString(src string) (lisptype.Value, error) {
	return in.guard(func() (lisptype.Value, error) {
		r := newReader(in, src)
		result := lisptype.Void
		mark := in.heap.Root(&result)
		defer in.heap.Unroot(mark)
		for {
			x, ok, err := r.read()
			if err != nil {
				return lisptype.Void, err
			}
			if !ok {
				return result, nil
			}
			if result, err = in.eval(x); err != nil {
				return lisptype.Void, err
			}
		}
	})
}

// reads exactly one form from src and evaluates it
func (in *Interpreter) EvalForm(src string) (lisptype.Value, error) {
	return in.guard(func() (lisptype.Value, error) {
		x, err := in.readOne(src)
		if err != nil {
			return lisptype.Void, err
		}
		return in.eval(x)
	})
}

// evaluates x and returns its value. each call is one activation of the
// trampoline: tail calls loop here instead of recursing, and the
// environment active on entry is restored on the way out
func (in *Interpreter) eval(x lisptype.Value) (lisptype.Value, error) {
	if in.depth >= in.cfg.MaxDepth {
		return lisptype.Void, newError(StackOverflow, "evaluation nested deeper than %v", in.cfg.MaxDepth)
	}
	in.depth++
	saved := in.env
	mark := in.heap.Root(&saved, &x)

	var result lisptype.Value
	var err error
	for {
		var next step
		next, err = in.reduce(x)
		if err != nil {
			result = lisptype.Void
			break
		}
		if next.kind == stepReturn {
			result = next.value
			break
		}
		x = next.value
	}

	in.env = saved
	in.heap.Unroot(mark)
	in.depth--
	return result, err
}

// one step of evaluation
func (in *Interpreter) reduce(x lisptype.Value) (step, error) {
	if !in.heap.Is(x, lisptype.Pair) {
		v, err := in.evalAtom(x)
		return done(v), err
	}

	var fn, rest lisptype.Value
	mark := in.heap.Root(&fn, &rest)
	defer in.heap.Unroot(mark)

	rest = in.cdr(x)
	var err error
	if fn, err = in.eval(in.car(x)); err != nil {
		return step{}, err
	}

	switch {
	case fn.IsPrimitive():
		return in.applyPrimitive(fn, rest)
	case in.heap.Is(fn, lisptype.Closure):
		return in.applyClosure(fn, rest)
	}
	return step{}, newError(NotCallable, "apply expects closure type, got %v", in.Print(fn))
}

// symbols evaluate to their binding, everything else to itself
func (in *Interpreter) evalAtom(x lisptype.Value) (lisptype.Value, error) {
	if !x.IsSymbol() {
		return x, nil
	}
	v := in.lookup(x)
	if v == lisptype.Void && x != in.sym.void {
		return lisptype.Void, newError(UnboundSymbol, "unbound symbol %v", in.symbols.name(x))
	}
	return v, nil
}

func (in *Interpreter) applyPrimitive(fn, args lisptype.Value) (step, error) {
	p := in.prims[fn.PrimitiveIndex()]
	if !p.flags.Has(lisptype.Unevaluated) {
		var err error
		if args, err = in.evlis(args); err != nil {
			return step{}, err
		}
	}
	v, err := p.fn(in, args)
	if err != nil {
		return step{}, err
	}
	if p.flags.Has(lisptype.TailCall) {
		return step{kind: stepEval, value: v}, nil
	}
	return done(v), nil
}

// binds the arguments in a fresh frame below the closure's own frame,
// switches to it, and hands the last body expression back to the trampoline
func (in *Interpreter) applyClosure(fn, args lisptype.Value) (step, error) {
	var frame, params lisptype.Value
	mark := in.heap.Root(&fn, &args, &frame, &params)
	defer in.heap.Unroot(mark)

	macro := in.heap.Field(fn, lisptype.ClosureMacro) == lisptype.True
	frame = in.newFrame(in.heap.Field(fn, lisptype.ClosureEnv), in.cfg.FrameSlots)
	params = in.heap.Field(fn, lisptype.ClosureArgs)

	// the rest of the actual arguments, evaluated unless this is a macro
	remaining := func() (lisptype.Value, error) {
		if macro {
			return args, nil
		}
		return in.evlis(args)
	}

	for in.heap.Is(params, lisptype.Pair) {
		param := in.car(params)
		if param == in.sym.ellipsis && in.heap.Is(in.cdr(params), lisptype.Pair) {
			rest, err := remaining()
			if err != nil {
				return step{}, err
			}
			in.bindIn(frame, in.car(in.cdr(params)), rest)
			params = lisptype.Nil
			break
		}
		if !in.heap.Is(args, lisptype.Pair) {
			break
		}
		arg := in.car(args)
		if !macro {
			var err error
			if arg, err = in.eval(arg); err != nil {
				return step{}, err
			}
		}
		in.bindIn(frame, param, arg)
		params = in.cdr(params)
		args = in.cdr(args)
	}
	if params.IsSymbol() {
		rest, err := remaining()
		if err != nil {
			return step{}, err
		}
		in.bindIn(frame, params, rest)
	}

	in.env = frame
	expr, err := in.begin(in.heap.Field(fn, lisptype.ClosureBody))
	if err != nil {
		return step{}, err
	}
	return step{kind: stepEval, value: expr}, nil
}

// evaluates every element of list, left to right, into a new list
func (in *Interpreter) evlis(list lisptype.Value) (lisptype.Value, error) {
	var b listBuilder
	mark := in.rootBuilder(&b, &list)
	defer in.heap.Unroot(mark)

	for in.heap.Is(list, lisptype.Pair) {
		v, err := in.eval(in.car(list))
		if err != nil {
			return lisptype.Void, err
		}
		in.push(&b, v)
		list = in.cdr(list)
	}
	return b.head, nil
}

// evaluates all but the last expression of body for effect
// and returns the last one unevaluated
func (in *Interpreter) begin(body lisptype.Value) (lisptype.Value, error) {
	mark := in.heap.Root(&body)
	defer in.heap.Unroot(mark)

	if !in.heap.Is(body, lisptype.Pair) {
		return lisptype.Nil, nil
	}
	for in.heap.Is(in.cdr(body), lisptype.Pair) {
		if _, err := in.eval(in.car(body)); err != nil {
			return lisptype.Void, err
		}
		body = in.cdr(body)
	}
	return in.car(body), nil
}
