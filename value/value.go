package value

import "slices"

// Value is a host value. Implementations are the vector types, Char, Cell
// and Struct in this package; codecs may register handlers for others.
type Value interface {
	Class() Class
	Len() int
}

// Vector types. A scalar is a vector of length one.
type (
	Logical []bool
	Double  []float64
	Single  []float32
	Int8    []int8
	Uint8   []uint8
	Int16   []int16
	Uint16  []uint16
	Int32   []int32
	Uint32  []uint32
	Int64   []int64
	Uint64  []uint64
)

func (v Logical) Class() Class { return ClassLogical }
func (v Double) Class() Class  { return ClassDouble }
func (v Single) Class() Class  { return ClassSingle }
func (v Int8) Class() Class    { return ClassInt8 }
func (v Uint8) Class() Class   { return ClassUint8 }
func (v Int16) Class() Class   { return ClassInt16 }
func (v Uint16) Class() Class  { return ClassUint16 }
func (v Int32) Class() Class   { return ClassInt32 }
func (v Uint32) Class() Class  { return ClassUint32 }
func (v Int64) Class() Class   { return ClassInt64 }
func (v Uint64) Class() Class  { return ClassUint64 }

func (v Logical) Len() int { return len(v) }
func (v Double) Len() int  { return len(v) }
func (v Single) Len() int  { return len(v) }
func (v Int8) Len() int    { return len(v) }
func (v Uint8) Len() int   { return len(v) }
func (v Int16) Len() int   { return len(v) }
func (v Uint16) Len() int  { return len(v) }
func (v Int32) Len() int   { return len(v) }
func (v Uint32) Len() int  { return len(v) }
func (v Int64) Len() int   { return len(v) }
func (v Uint64) Len() int  { return len(v) }

// Cell is an ordered heterogeneous collection.
type Cell []Value

func (c Cell) Class() Class { return ClassCell }
func (c Cell) Len() int     { return len(c) }

// Empty returns the canonical absent value, an empty Cell.
func Empty() Value {
	return Cell{}
}

// Field is one named member of a Struct.
type Field struct {
	Value Value
	Name  string
}

// Struct is a record with ordered named fields.
type Struct struct {
	Fields []Field
}

// NewStruct builds a Struct from fields in declaration order.
func NewStruct(fields ...Field) Struct {
	return Struct{Fields: fields}
}

func (s Struct) Class() Class { return ClassStruct }
func (s Struct) Len() int     { return len(s.Fields) }

// Get returns the value of the first field called name.
func (s Struct) Get(name string) (Value, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in declaration order.
func (s Struct) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Equal reports whether a and b have the same class and contents. Empty
// and nil slices compare equal. Float NaNs never compare equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Class() != b.Class() || a.Len() != b.Len() {
		return false
	}
	switch av := a.(type) {
	case Logical:
		return equalSlice(av, b)
	case Char:
		return equalSlice(av, b)
	case Double:
		return equalSlice(av, b)
	case Single:
		return equalSlice(av, b)
	case Int8:
		return equalSlice(av, b)
	case Uint8:
		return equalSlice(av, b)
	case Int16:
		return equalSlice(av, b)
	case Uint16:
		return equalSlice(av, b)
	case Int32:
		return equalSlice(av, b)
	case Uint32:
		return equalSlice(av, b)
	case Int64:
		return equalSlice(av, b)
	case Uint64:
		return equalSlice(av, b)
	case Cell:
		bv, ok := b.(Cell)
		if !ok {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Struct:
		bv, ok := b.(Struct)
		if !ok {
			return false
		}
		for i, f := range av.Fields {
			if f.Name != bv.Fields[i].Name || !Equal(f.Value, bv.Fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlice[S ~[]E, E comparable](a S, b Value) bool {
	bv, ok := b.(S)
	return ok && slices.Equal(a, bv)
}
