package lisptype

// a value is a single tagged machine word.
//
//	xxxx...xxx1  integer, payload is the word shifted right by one
//	xxxx...0010  symbol, payload is a symbol table slot
//	xxxx...0110  boolean
//	xxxx...1010  primitive, payload is an index into the primitive table
//	0000...1110  nil
//	0001...1110  void
//	xxxx...x000  object, payload is a word address in the heap
type Value uint64

const (
	tagMask = 0xF

	integerTag   = 0x1
	symbolTag    = 0x2
	booleanTag   = 0x6
	primitiveTag = 0xA

	objectShift = 3
	immShift    = 4
)

// the four singleton immediates
const (
	False Value = 0x6
	True  Value = 0x16
	Nil   Value = 0xE
	Void  Value = 0x1E
)

// the range of integers a value can carry, one bit narrower than int64
const (
	MaxInteger = 1<<62 - 1
	MinInteger = -1 << 62
)

func FitsInteger(n int64) bool {
	return n >= MinInteger && n <= MaxInteger
}

// n must fit, see FitsInteger
func MakeInteger(n int64) Value {
	return Value(uint64(n)<<1 | integerTag)
}

func (v Value) IsInteger() bool {
	return v&integerTag != 0
}

// arithmetic shift keeps the sign
func (v Value) Integer() int64 {
	return int64(v) >> 1
}

func MakeBoolean(b bool) Value {
	if b {
		return True
	}
	return False
}

func (v Value) IsBoolean() bool {
	return v&tagMask == booleanTag
}

func (v Value) Bool() bool {
	return v == True
}

func MakeSymbol(slot int) Value {
	return Value(uint64(slot)<<immShift | symbolTag)
}

func (v Value) IsSymbol() bool {
	return v&tagMask == symbolTag
}

func (v Value) SymbolSlot() int {
	return int(v >> immShift)
}

func MakePrimitive(index int) Value {
	return Value(uint64(index)<<immShift | primitiveTag)
}

func (v Value) IsPrimitive() bool {
	return v&tagMask == primitiveTag
}

func (v Value) PrimitiveIndex() int {
	return int(v >> immShift)
}

// address 0 is never handed out by the allocator,
// so the zero word is not an object
func MakeObject(addr int) Value {
	return Value(uint64(addr) << objectShift)
}

func (v Value) IsObject() bool {
	return v != 0 && v&0x7 == 0
}

func (v Value) Address() int {
	return int(v >> objectShift)
}

// false and nil are the only false values
func (v Value) Truthy() bool {
	return v != False && v != Nil
}
