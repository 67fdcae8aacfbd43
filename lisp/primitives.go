package lisp

import (
	"fmt"
	"os"
	"strings"

	lisptype "genesis/lisp_type"
)

// a primitive gets its operands as a list, evaluated or not depending on
// its flags. primitives flagged TailCall return an expression for the
// evaluator to continue with rather than a value
type primitiveFunc func(in *Interpreter, args lisptype.Value) (lisptype.Value, error)

type primitive struct {
	name  string
	flags lisptype.PrimitiveFlags
	fn    primitiveFunc
}

func builtins() []primitive {
	const (
		special = lisptype.Unevaluated
		tail    = lisptype.TailCall
	)
	return []primitive{
		{"eval", tail, primEval},
		{"begin", special | tail, primBegin},
		{"quote", special, primQuote},
		{"quasi", special, primQuasi},
		{"unquote", 0, primUnquote},
		{"cons", 0, primCons},
		{"car", 0, primCar},
		{"cdr", 0, primCdr},
		{"+", 0, arithmetic("+", 0, func(a, b int64) (int64, error) { return a + b, nil })},
		{"-", 0, arithmetic("-", 0, func(a, b int64) (int64, error) { return a - b, nil })},
		{"*", 0, arithmetic("*", 1, func(a, b int64) (int64, error) { return a * b, nil })},
		{"/", 0, arithmetic("/", 1, func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, newError(ArithmeticError, "division by zero")
			}
			return a / b, nil
		})},
		{"%", 0, arithmetic("%", 1, func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, newError(ArithmeticError, "division by zero")
			}
			return a % b, nil
		})},
		{"=", 0, comparison("=", func(a, b int64) bool { return a == b })},
		{">", 0, comparison(">", func(a, b int64) bool { return a > b })},
		{"<", 0, comparison("<", func(a, b int64) bool { return a < b })},
		{">=", 0, comparison(">=", func(a, b int64) bool { return a >= b })},
		{"<=", 0, comparison("<=", func(a, b int64) bool { return a <= b })},
		{"eq", 0, primEq},
		{"nil?", 0, predicate(func(in *Interpreter, v lisptype.Value) bool { return v == lisptype.Nil })},
		{"atom?", 0, predicate(func(in *Interpreter, v lisptype.Value) bool { return !in.isPair(v) })},
		{"pair?", 0, predicate(func(in *Interpreter, v lisptype.Value) bool { return in.isPair(v) })},
		{"quote?", 0, predicate(func(in *Interpreter, v lisptype.Value) bool {
			return in.isPair(v) && in.car(v) == in.sym.quote
		})},
		{"symbol?", 0, predicate(func(in *Interpreter, v lisptype.Value) bool { return v.IsSymbol() })},
		{"integer?", 0, predicate(func(in *Interpreter, v lisptype.Value) bool { return v.IsInteger() })},
		{"string?", 0, predicate(func(in *Interpreter, v lisptype.Value) bool { return in.heap.Is(v, lisptype.String) })},
		{"closure?", 0, predicate(func(in *Interpreter, v lisptype.Value) bool {
			return v.IsPrimitive() || in.heap.Is(v, lisptype.Closure)
		})},
		{"not", 0, predicate(func(in *Interpreter, v lisptype.Value) bool { return !v.Truthy() })},
		{"or", special | tail, primOr},
		{"and", special | tail, primAnd},
		{"if", special | tail, primIf},
		{"cond", special | tail, primCond},
		{"let", special | tail, primLet},
		{"let*", special | tail, primLetStar},
		{"fun", special, primFun},
		{"macro", special, primMacro},
		{"def", special, primDef},
		{"defun", special, primDefun},
		{"defmacro", special, primDefmacro},
		{"set", special, primSet},
		{"list", 0, primList},
		{"append", 0, primAppend},
		{"length", 0, primLength},
		{"println", 0, primPrintln},
		{"gensym", 0, primGensym},
		{"import", tail, primImport},
		{"vector", 0, primVector},
		{"vector-ref", 0, primVectorRef},
		{"vector-length", 0, primVectorLength},
		{"type", 0, primType},
	}
}

func (in *Interpreter) typeError(name, want string, got lisptype.Value) error {
	return newError(TypeMismatch, "%v expects %v type, got %v", name, want, in.Print(got))
}

// the operands of an arithmetic or comparison primitive
func (in *Interpreter) integers(name string, args lisptype.Value) ([]int64, error) {
	var ns []int64
	for ; in.isPair(args); args = in.cdr(args) {
		v := in.car(args)
		if !v.IsInteger() {
			return nil, in.typeError(name, "integer", v)
		}
		ns = append(ns, v.Integer())
	}
	return ns, nil
}

// folds op over the operands. with no operands the result is identity,
// with one it is op applied to identity and the operand, so (- 5) is -5
func arithmetic(name string, identity int64, op func(a, b int64) (int64, error)) primitiveFunc {
	return func(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
		ns, err := in.integers(name, args)
		if err != nil {
			return lisptype.Void, err
		}
		switch len(ns) {
		case 0:
			return lisptype.MakeInteger(identity), nil
		case 1:
			n, err := op(identity, ns[0])
			return lisptype.MakeInteger(n), err
		}
		acc := ns[0]
		for _, n := range ns[1:] {
			if acc, err = op(acc, n); err != nil {
				return lisptype.Void, err
			}
		}
		return lisptype.MakeInteger(acc), nil
	}
}

// true when every neighbouring pair of operands satisfies cmp
func comparison(name string, cmp func(a, b int64) bool) primitiveFunc {
	return func(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
		ns, err := in.integers(name, args)
		if err != nil {
			return lisptype.Void, err
		}
		for i := 1; i < len(ns); i++ {
			if !cmp(ns[i-1], ns[i]) {
				return lisptype.False, nil
			}
		}
		return lisptype.True, nil
	}
}

func predicate(test func(in *Interpreter, v lisptype.Value) bool) primitiveFunc {
	return func(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
		return lisptype.MakeBoolean(test(in, in.car(args))), nil
	}
}

func primEval(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return in.car(args), nil
}

func primBegin(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return in.begin(args)
}

func primQuote(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return in.car(args), nil
}

func primQuasi(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return in.quasi(in.car(args))
}

// outside of a quasiquote, unquote just gives back its evaluated operand
func primUnquote(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return in.car(args), nil
}

func primCons(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return in.cons(in.car(args), in.cadr(args)), nil
}

func primCar(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	x := in.car(args)
	if !in.isPair(x) {
		return lisptype.Void, in.typeError("car", "pair", x)
	}
	return in.car(x), nil
}

func primCdr(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	x := in.car(args)
	if !in.isPair(x) {
		return lisptype.Void, in.typeError("cdr", "pair", x)
	}
	return in.cdr(x), nil
}

// identity: equal immediates, or the very same object
func primEq(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return lisptype.MakeBoolean(in.car(args) == in.cadr(args)), nil
}

func primOr(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	if !in.isPair(args) {
		return lisptype.False, nil
	}
	mark := in.heap.Root(&args)
	defer in.heap.Unroot(mark)
	for ; in.isPair(in.cdr(args)); args = in.cdr(args) {
		v, err := in.eval(in.car(args))
		if err != nil {
			return lisptype.Void, err
		}
		if v.Truthy() {
			return in.literal(v), nil
		}
	}
	return in.car(args), nil
}

func primAnd(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	if !in.isPair(args) {
		return lisptype.True, nil
	}
	mark := in.heap.Root(&args)
	defer in.heap.Unroot(mark)
	for ; in.isPair(in.cdr(args)); args = in.cdr(args) {
		v, err := in.eval(in.car(args))
		if err != nil {
			return lisptype.Void, err
		}
		// false and nil evaluate to themselves
		if !v.Truthy() {
			return v, nil
		}
	}
	return in.car(args), nil
}

// (if test then else), a missing else branch gives nil
func primIf(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	mark := in.heap.Root(&args)
	defer in.heap.Unroot(mark)
	test, err := in.eval(in.car(args))
	if err != nil {
		return lisptype.Void, err
	}
	if test.Truthy() {
		return in.cadr(args), nil
	}
	return in.caddr(args), nil
}

// (cond (test body...) ... (else body...)), a clause with no body gives
// the value of its test
func primCond(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	mark := in.heap.Root(&args)
	defer in.heap.Unroot(mark)
	for ; in.isPair(args); args = in.cdr(args) {
		test := in.car(in.car(args))
		v := lisptype.True
		if test != in.sym.elseSym {
			var err error
			if v, err = in.eval(test); err != nil {
				return lisptype.Void, err
			}
		}
		if !v.Truthy() {
			continue
		}
		body := in.cdr(in.car(args))
		if !in.isPair(body) {
			return in.literal(v), nil
		}
		return in.begin(body)
	}
	return lisptype.Nil, nil
}

// the symbol a let binding introduces: either x or (x expr)
func (in *Interpreter) bindingName(binding lisptype.Value) (lisptype.Value, error) {
	name := binding
	if in.isPair(binding) {
		name = in.car(binding)
	}
	if !name.IsSymbol() {
		return lisptype.Void, in.typeError("let", "symbol", name)
	}
	return name, nil
}

// (let ((x e) ...) body...) evaluates every e in the enclosing
// environment before any x is bound
func primLet(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	var bindings lisptype.Value
	var vals listBuilder
	mark := in.rootBuilder(&vals, &args, &bindings)
	defer in.heap.Unroot(mark)

	for bindings = in.car(args); in.isPair(bindings); bindings = in.cdr(bindings) {
		if _, err := in.bindingName(in.car(bindings)); err != nil {
			return lisptype.Void, err
		}
		v, err := in.eval(in.cadr(in.car(bindings)))
		if err != nil {
			return lisptype.Void, err
		}
		in.push(&vals, v)
	}

	frame := in.newFrame(in.env, in.cfg.FrameSlots)
	vs := vals.head
	for bindings = in.car(args); in.isPair(bindings); bindings = in.cdr(bindings) {
		name, _ := in.bindingName(in.car(bindings))
		in.bindIn(frame, name, in.car(vs))
		vs = in.cdr(vs)
	}
	in.env = frame
	return in.begin(in.cdr(args))
}

// (let* ((x e) ...) body...) binds one at a time, each e sees the ones before
func primLetStar(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	var bindings lisptype.Value
	mark := in.heap.Root(&args, &bindings)
	defer in.heap.Unroot(mark)

	in.extend()
	for bindings = in.car(args); in.isPair(bindings); bindings = in.cdr(bindings) {
		name, err := in.bindingName(in.car(bindings))
		if err != nil {
			return lisptype.Void, err
		}
		v, err := in.eval(in.cadr(in.car(bindings)))
		if err != nil {
			return lisptype.Void, err
		}
		in.bind(name, v)
	}
	return in.begin(in.cdr(args))
}

func primFun(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return in.closure(in.env, in.car(args), in.cdr(args), false), nil
}

func primMacro(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return in.closure(in.env, in.car(args), in.cdr(args), true), nil
}

// (def name expr) binds in the current frame and gives back the name
func primDef(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	name := in.car(args)
	if !name.IsSymbol() {
		return lisptype.Void, in.typeError("def", "symbol", name)
	}
	v, err := in.eval(in.cadr(args))
	if err != nil {
		return lisptype.Void, err
	}
	in.bind(name, v)
	return name, nil
}

func defineClosure(in *Interpreter, args lisptype.Value, macro bool, form string) (lisptype.Value, error) {
	name := in.car(args)
	if !name.IsSymbol() {
		return lisptype.Void, in.typeError(form, "symbol", name)
	}
	fn := in.closure(in.env, in.cadr(args), in.cddr(args), macro)
	in.bind(name, fn)
	return fn, nil
}

// (defun name (params...) body...)
func primDefun(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return defineClosure(in, args, false, "defun")
}

func primDefmacro(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return defineClosure(in, args, true, "defmacro")
}

// (set name expr) updates the nearest existing binding of name
func primSet(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	name := in.car(args)
	if !name.IsSymbol() {
		return lisptype.Void, in.typeError("set", "symbol", name)
	}
	v, err := in.eval(in.cadr(args))
	if err != nil {
		return lisptype.Void, err
	}
	if !in.set(name, v) {
		return lisptype.Void, newError(UnboundSymbol, "unbound symbol %v", in.symbols.name(name))
	}
	return v, nil
}

func primList(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	return args, nil
}

// (append l1 l2 ... ln) copies every list but the last,
// which becomes the tail of the result
func primAppend(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	if !in.isPair(args) {
		return lisptype.Nil, nil
	}
	var list lisptype.Value
	var b listBuilder
	mark := in.rootBuilder(&b, &args, &list)
	defer in.heap.Unroot(mark)

	for ; in.isPair(in.cdr(args)); args = in.cdr(args) {
		list = in.car(args)
		if list != lisptype.Nil && !in.isPair(list) {
			return lisptype.Void, in.typeError("append", "list", list)
		}
		for ; in.isPair(list); list = in.cdr(list) {
			in.push(&b, in.car(list))
		}
	}
	last := in.car(args)
	if b.head == lisptype.Nil {
		return last, nil
	}
	in.heap.SetField(b.tail, lisptype.PairCdr, last)
	return b.head, nil
}

func primLength(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	list := in.car(args)
	if list != lisptype.Nil && !in.isPair(list) {
		return lisptype.Void, in.typeError("length", "list", list)
	}
	return lisptype.MakeInteger(int64(in.length(list))), nil
}

// strings are written without quotes
func primPrintln(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	var parts []string
	for ; in.isPair(args); args = in.cdr(args) {
		v := in.car(args)
		if in.heap.Is(v, lisptype.String) {
			parts = append(parts, in.heap.StringOf(v))
		} else {
			parts = append(parts, in.Print(v))
		}
	}
	fmt.Fprintln(in.out, strings.Join(parts, " "))
	return lisptype.Void, nil
}

func primGensym(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	name := fmt.Sprintf("$%d", in.gensymCounter)
	in.gensymCounter++
	return in.Intern(name), nil
}

// (import "path") reads the single form in the file
// and evaluates it in the current environment
func primImport(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	path := in.car(args)
	if !in.heap.Is(path, lisptype.String) {
		return lisptype.Void, in.typeError("import", "string", path)
	}
	return in.readFile(in.heap.StringOf(path))
}

// reads the one form in the file at path. failing to read the file is fatal
func (in *Interpreter) readFile(path string) (lisptype.Value, error) {
	in.trace.Debugf("reading %v", path)
	src, err := os.ReadFile(path)
	if err != nil {
		fatal(IoError, err, "io error importing %v", path)
	}
	return in.readOne(string(src))
}

func primVector(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	mark := in.heap.Root(&args)
	defer in.heap.Unroot(mark)
	v := in.heap.NewVector(in.length(args), lisptype.Nil)
	for i := 0; in.isPair(args); i++ {
		in.heap.SetField(v, i, in.car(args))
		args = in.cdr(args)
	}
	return v, nil
}

func primVectorRef(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	v, i := in.car(args), in.cadr(args)
	if !in.heap.Is(v, lisptype.Vector) {
		return lisptype.Void, in.typeError("vector-ref", "vector", v)
	}
	if !i.IsInteger() {
		return lisptype.Void, in.typeError("vector-ref", "integer", i)
	}
	if i.Integer() < 0 || i.Integer() >= int64(in.heap.Size(v)) {
		return lisptype.Void, newError(TypeMismatch, "vector-ref index %v out of range for length %v",
			i.Integer(), in.heap.Size(v))
	}
	return in.heap.Field(v, int(i.Integer())), nil
}

func primVectorLength(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	v := in.car(args)
	if !in.heap.Is(v, lisptype.Vector) {
		return lisptype.Void, in.typeError("vector-length", "vector", v)
	}
	return lisptype.MakeInteger(int64(in.heap.Size(v))), nil
}

// the type of a value, as a symbol
func primType(in *Interpreter, args lisptype.Value) (lisptype.Value, error) {
	v := in.car(args)
	var name string
	switch {
	case v.IsInteger():
		name = "integer"
	case v.IsBoolean():
		name = "boolean"
	case v.IsSymbol():
		name = "symbol"
	case v.IsPrimitive():
		name = "primitive"
	case v == lisptype.Nil:
		name = "nil"
	case v == lisptype.Void:
		name = "void"
	case in.heap.Is(v, lisptype.Closure) && in.heap.Field(v, lisptype.ClosureMacro) == lisptype.True:
		name = "macro"
	case v.IsObject():
		name = in.heap.TypeOf(v).String()
	default:
		name = "unknown"
	}
	return in.Intern(name), nil
}
