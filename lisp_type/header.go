package lisptype

// every heap block starts with a header word
//
//	bits 60-63  flags
//	bits 56-59  object type
//	bits 24-55  payload size in words
//
// once a block has been moved by the collector its header is replaced
// with a forwarding header: flag bit 0 set and the new address in the
// low 56 bits.
type Header uint64

// the type enum for heap objects
type ObjectType int

const (
	Pair    ObjectType = iota + 1 // car and cdr
	Vector                        // fixed length array of values
	String                        // NUL terminated bytes, no inner references
	Env                           // one lexical frame
	Closure                       // a function or macro and the frame it closed over
)

const (
	flagsShift = 60
	typeShift  = 56
	sizeShift  = 24

	forwardedFlag = 0x1
	forwardMask   = 1<<typeShift - 1
	sizeMask      = 0xFFFFFFFF
)

func MakeHeader(flags int, t ObjectType, size int) Header {
	return Header(uint64(flags)<<flagsShift |
		uint64(t)<<typeShift |
		uint64(size)<<sizeShift)
}

func (h Header) Flags() int {
	return int(h >> flagsShift)
}

func (h Header) Type() ObjectType {
	return ObjectType(h >> typeShift & 0xF)
}

func (h Header) Size() int {
	return int(h >> sizeShift & sizeMask)
}

func (h Header) Forwarded() bool {
	return h.Flags()&forwardedFlag != 0
}

// the header left behind in the old space when a block moves
func ForwardTo(addr int) Header {
	return Header(uint64(forwardedFlag)<<flagsShift | uint64(addr)&forwardMask)
}

func (h Header) ForwardAddress() int {
	return int(h & forwardMask)
}

func (t ObjectType) String() string {
	switch t {
	case Pair:
		return "pair"
	case Vector:
		return "vector"
	case String:
		return "string"
	case Env:
		return "env"
	case Closure:
		return "closure"
	default:
		return "unknown"
	}
}
