package lisp

import (
	lisptype "genesis/lisp_type"
)

// expands a quasiquote template. unquoted parts are evaluated in the
// current environment, spliced parts are evaluated and their elements
// inserted in place, everything else is rebuilt as fresh structure.
func (in *Interpreter) quasi(x lisptype.Value) (lisptype.Value, error) {
	if !in.isPair(x) {
		return x, nil
	}
	var head lisptype.Value
	mark := in.heap.Root(&x, &head)
	defer in.heap.Unroot(mark)

	head = in.car(x)
	switch head {
	case in.sym.unquote:
		return in.eval(in.cadr(x))
	case in.sym.splicing:
		return in.splice(in.cadr(x), in.cddr(x))
	case in.sym.quasi:
		return in.quasi(in.cadr(x))
	}

	if in.isPair(head) {
		switch in.car(head) {
		case in.sym.splicing:
			// (... @e ...)
			return in.splice(in.cadr(head), in.cdr(x))
		case in.sym.unquote:
			// (... ,@e ...) reads as (unquote (splicing e))
			if inner := in.cadr(head); in.isPair(inner) && in.car(inner) == in.sym.splicing {
				return in.splice(in.cadr(inner), in.cdr(x))
			}
		}
	}

	car, err := in.quasi(head)
	if err != nil {
		return lisptype.Void, err
	}
	mark2 := in.heap.Root(&car)
	defer in.heap.Unroot(mark2)
	cdr, err := in.quasi(in.cdr(x))
	if err != nil {
		return lisptype.Void, err
	}
	return in.cons(car, cdr), nil
}

// evaluates expr and puts its elements in front of the expansion of rest
func (in *Interpreter) splice(expr, rest lisptype.Value) (lisptype.Value, error) {
	var elements lisptype.Value
	mark := in.heap.Root(&rest, &elements)
	defer in.heap.Unroot(mark)

	var err error
	if elements, err = in.eval(expr); err != nil {
		return lisptype.Void, err
	}
	tail, err := in.quasi(rest)
	if err != nil {
		return lisptype.Void, err
	}
	return in.appendTwo(elements, tail), nil
}
