package lisp

import (
	"strconv"
	"strings"

	lisptype "genesis/lisp_type"
)

// converts a value to its printed representation
func (in *Interpreter) Print(v lisptype.Value) string {
	var b strings.Builder
	in.printValue(&b, v)
	return b.String()
}

func (in *Interpreter) printValue(b *strings.Builder, v lisptype.Value) {
	switch {
	case v == lisptype.Nil:
		b.WriteString("nil")
	case v == lisptype.Void:
		b.WriteString("void")
	case v.IsBoolean():
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case v.IsInteger():
		b.WriteString(strconv.FormatInt(v.Integer(), 10))
	case v.IsSymbol():
		b.WriteString(in.symbols.name(v))
	case v.IsPrimitive():
		b.WriteString("<primitive ")
		b.WriteString(in.prims[v.PrimitiveIndex()].name)
		b.WriteString(">")
	case v.IsObject():
		in.printObject(b, v)
	default:
		b.WriteString("<unknown>")
	}
}

func (in *Interpreter) printObject(b *strings.Builder, v lisptype.Value) {
	switch t := in.heap.TypeOf(v); t {
	case lisptype.Pair:
		b.WriteByte('(')
		in.printList(b, v)
		b.WriteByte(')')
	case lisptype.Vector:
		b.WriteByte('[')
		for i := 0; i < in.heap.Size(v); i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			in.printValue(b, in.heap.Field(v, i))
		}
		b.WriteByte(']')
	case lisptype.String:
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(in.heap.StringOf(v), `"`, `\"`))
		b.WriteByte('"')
	case lisptype.Closure:
		if in.heap.Field(v, lisptype.ClosureMacro) == lisptype.True {
			b.WriteString("<macro ")
		} else {
			b.WriteString("<fun ")
		}
		in.printValue(b, in.heap.Field(v, lisptype.ClosureArgs))
		for body := in.heap.Field(v, lisptype.ClosureBody); in.isPair(body); body = in.cdr(body) {
			b.WriteByte(' ')
			in.printValue(b, in.car(body))
		}
		b.WriteByte('>')
	default:
		b.WriteString("<" + t.String() + ">")
	}
}

// elements separated by spaces. an improper tail is printed
// after the last element like any other element, without a dot
func (in *Interpreter) printList(b *strings.Builder, v lisptype.Value) {
	for {
		in.printValue(b, in.car(v))
		v = in.cdr(v)
		if v == lisptype.Nil {
			return
		}
		b.WriteByte(' ')
		if !in.isPair(v) {
			in.printValue(b, v)
			return
		}
	}
}
