package wire

// Value is one decoded wire value. Only the field matching Kind is meaningful.
//
// Raw and Ext alias the buffer the value was read from; copy them if the
// buffer is reused.
type Value struct {
	Raw   []byte
	Array []Value
	Map   []Pair
	Ext   []byte // complete encoding of an extension value
	Uint  uint64
	Int   int64
	Float float64
	Kind  Kind
	Bool  bool
}

// Pair is one map entry in wire order.
type Pair struct {
	Key Value
	Val Value
}

func Nil() Value { return Value{Kind: KindNil} }

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func Uint(u uint64) Value { return Value{Kind: KindUint, Uint: u} }

// Int returns a signed integer value. Non-negative values are classified as
// Uint, matching what the reader produces.
func Int(i int64) Value {
	if i >= 0 {
		return Uint(uint64(i))
	}
	return Value{Kind: KindInt, Int: i}
}

func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

func Raw(b []byte) Value { return Value{Kind: KindRaw, Raw: b} }

// String returns a Raw value holding the bytes of s.
func String(s string) Value { return Raw([]byte(s)) }

func Array(elems ...Value) Value { return Value{Kind: KindArray, Array: elems} }

func Map(pairs ...Pair) Value { return Value{Kind: KindMap, Map: pairs} }

// Len returns the element count of an array or map, the payload length of a
// raw value, and 0 otherwise.
func (v Value) Len() int {
	switch v.Kind {
	case KindArray:
		return len(v.Array)
	case KindMap:
		return len(v.Map)
	case KindRaw:
		return len(v.Raw)
	}
	return 0
}
