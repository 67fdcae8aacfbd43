package lisp

import (
	"strconv"
	"strings"

	lisptype "genesis/lisp_type"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenOpen
	tokenClose
	tokenQuote
	tokenQuasi
	tokenUnquote
	tokenSplice
	tokenString
	tokenAtom
)

type token struct {
	kind tokenKind
	text string
}

// a reader turns source text into values, one top level form at a time
type reader struct {
	in  *Interpreter
	src string
	pos int
}

func newReader(in *Interpreter, src string) *reader {
	return &reader{in: in, src: src}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSpecial(c byte) bool {
	return strings.IndexByte("()'`,@\"", c) >= 0
}

// skips whitespace, line comments and #| block comments |#
func (r *reader) skip() error {
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch {
		case isWhitespace(c):
			r.pos++
		case c == ';':
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
		case strings.HasPrefix(r.src[r.pos:], "#|"):
			end := strings.Index(r.src[r.pos+2:], "|#")
			if end < 0 {
				return newError(ParseError, "unterminated block comment")
			}
			r.pos += 2 + end + 2
		default:
			return nil
		}
	}
	return nil
}

func (r *reader) next() (token, error) {
	if err := r.skip(); err != nil {
		return token{}, err
	}
	if r.pos >= len(r.src) {
		return token{kind: tokenEOF}, nil
	}

	c := r.src[r.pos]
	r.pos++
	switch c {
	case '(':
		return token{kind: tokenOpen, text: "("}, nil
	case ')':
		return token{kind: tokenClose, text: ")"}, nil
	case '\'':
		return token{kind: tokenQuote, text: "'"}, nil
	case '`':
		return token{kind: tokenQuasi, text: "`"}, nil
	case ',':
		return token{kind: tokenUnquote, text: ","}, nil
	case '@':
		return token{kind: tokenSplice, text: "@"}, nil
	case '"':
		return r.readString()
	}

	start := r.pos - 1
	for r.pos < len(r.src) && !isWhitespace(r.src[r.pos]) && !isSpecial(r.src[r.pos]) {
		r.pos++
	}
	return token{kind: tokenAtom, text: r.src[start:r.pos]}, nil
}

// the opening quote has been consumed already. \" is the only escape.
// strings are stored NUL terminated, so they can't contain one
func (r *reader) readString() (token, error) {
	var b strings.Builder
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		r.pos++
		switch {
		case c == '\\' && r.pos < len(r.src) && r.src[r.pos] == '"':
			b.WriteByte('"')
			r.pos++
		case c == '"':
			return token{kind: tokenString, text: b.String()}, nil
		case c == 0:
			return token{}, newError(ParseError, "NUL byte in string")
		default:
			b.WriteByte(c)
		}
	}
	return token{}, newError(ParseError, "unterminated string")
}

// reads the next top level form. ok is false at the end of the input
func (r *reader) read() (v lisptype.Value, ok bool, err error) {
	tok, err := r.next()
	if err != nil {
		return lisptype.Void, false, err
	}
	if tok.kind == tokenEOF {
		return lisptype.Void, false, nil
	}
	v, err = r.parseExpr(tok)
	if err != nil {
		return lisptype.Void, false, err
	}
	return v, true, nil
}

func (r *reader) parseExpr(tok token) (lisptype.Value, error) {
	switch tok.kind {
	case tokenOpen:
		return r.parseList()
	case tokenQuote:
		return r.parseQuoted(r.in.sym.quote)
	case tokenQuasi:
		return r.parseQuoted(r.in.sym.quasi)
	case tokenUnquote:
		return r.parseQuoted(r.in.sym.unquote)
	case tokenSplice:
		return r.parseQuoted(r.in.sym.splicing)
	case tokenString:
		return r.in.heap.NewString(tok.text), nil
	case tokenAtom:
		return r.parseAtom(tok.text)
	case tokenEOF:
		return lisptype.Void, newError(ParseError, "unexpected end of input")
	}
	return lisptype.Void, newError(ParseError, "unexpected token %v", tok.text)
}

// integers are whatever parses completely as a signed 64 bit number,
// anything else is a symbol. an integer that doesn't fit in a value
// is an error rather than a different number
func (r *reader) parseAtom(text string) (lisptype.Value, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return r.in.Intern(text), nil
	}
	if !lisptype.FitsInteger(n) {
		return lisptype.Void, newError(ParseError, "integer %v out of range [%v, %v]",
			text, int64(lisptype.MinInteger), int64(lisptype.MaxInteger))
	}
	return lisptype.MakeInteger(n), nil
}

// 'x reads as (quote x), and likewise for ` , and @
func (r *reader) parseQuoted(sym lisptype.Value) (lisptype.Value, error) {
	tok, err := r.next()
	if err != nil {
		return lisptype.Void, err
	}
	x, err := r.parseExpr(tok)
	if err != nil {
		return lisptype.Void, err
	}
	return r.in.cons(sym, r.in.cons(x, lisptype.Nil)), nil
}

// the opening paren has been consumed already
func (r *reader) parseList() (lisptype.Value, error) {
	var b listBuilder
	mark := r.in.rootBuilder(&b)
	defer r.in.heap.Unroot(mark)

	for {
		tok, err := r.next()
		if err != nil {
			return lisptype.Void, err
		}
		switch tok.kind {
		case tokenEOF:
			return lisptype.Void, newError(ParseError, "parentheses mismatched")
		case tokenClose:
			return b.head, nil
		}
		x, err := r.parseExpr(tok)
		if err != nil {
			return lisptype.Void, err
		}
		r.in.push(&b, x)
	}
}

// reads exactly one form from src, ignoring anything after it
func (in *Interpreter) readOne(src string) (lisptype.Value, error) {
	x, ok, err := newReader(in, src).read()
	if err != nil {
		return lisptype.Void, err
	}
	if !ok {
		return lisptype.Void, newError(ParseError, "no expression to read")
	}
	return x, nil
}

// reads the first form of src without evaluating it
func (in *Interpreter) Read(src string) (lisptype.Value, error) {
	return in.guard(func() (lisptype.Value, error) {
		return in.readOne(src)
	})
}
