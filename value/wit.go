package value

import (
	"strings"

	"github.com/wippyai/mxpack/errors"
	"go.bytecodealliance.org/wit"
)

var elemTypes = [...]wit.Type{
	ClassLogical: wit.Bool{},
	ClassChar:    wit.String{},
	ClassDouble:  wit.F64{},
	ClassSingle:  wit.F32{},
	ClassInt8:    wit.S8{},
	ClassUint8:   wit.U8{},
	ClassInt16:   wit.S16{},
	ClassUint16:  wit.U16{},
	ClassInt32:   wit.S32{},
	ClassUint32:  wit.U32{},
	ClassInt64:   wit.S64{},
	ClassUint64:  wit.U64{},
}

// Describe returns the WIT type that matches v's shape. Vectors of length
// one describe as their element type, other vectors as a list. Cells are
// tuples and structs are records.
func Describe(v Value) wit.Type {
	switch x := v.(type) {
	case nil:
		return nil
	case Char:
		return wit.String{}
	case Cell:
		types := make([]wit.Type, len(x))
		for i, e := range x {
			types[i] = Describe(e)
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}
	case Struct:
		fields := make([]wit.Field, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = wit.Field{Name: f.Name, Type: Describe(f.Value)}
		}
		return &wit.TypeDef{Kind: &wit.Record{Fields: fields}}
	}

	c := v.Class()
	if !c.IsVector() {
		return nil
	}
	if v.Len() == 1 {
		return elemTypes[c]
	}
	return &wit.TypeDef{Kind: &wit.List{Type: elemTypes[c]}}
}

// TypeString renders t in WIT syntax.
func TypeString(t wit.Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeType(b *strings.Builder, t wit.Type) {
	switch t := t.(type) {
	case nil:
		b.WriteString("_")
	case wit.Bool:
		b.WriteString("bool")
	case wit.U8:
		b.WriteString("u8")
	case wit.S8:
		b.WriteString("s8")
	case wit.U16:
		b.WriteString("u16")
	case wit.S16:
		b.WriteString("s16")
	case wit.U32:
		b.WriteString("u32")
	case wit.S32:
		b.WriteString("s32")
	case wit.U64:
		b.WriteString("u64")
	case wit.S64:
		b.WriteString("s64")
	case wit.F32:
		b.WriteString("f32")
	case wit.F64:
		b.WriteString("f64")
	case wit.Char:
		b.WriteString("char")
	case wit.String:
		b.WriteString("string")
	case *wit.TypeDef:
		switch k := t.Kind.(type) {
		case *wit.List:
			b.WriteString("list<")
			writeType(b, k.Type)
			b.WriteByte('>')
		case *wit.Option:
			b.WriteString("option<")
			writeType(b, k.Type)
			b.WriteByte('>')
		case *wit.Tuple:
			b.WriteString("tuple<")
			for i, e := range k.Types {
				if i > 0 {
					b.WriteString(", ")
				}
				writeType(b, e)
			}
			b.WriteByte('>')
		case *wit.Record:
			b.WriteString("record { ")
			for i, f := range k.Fields {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(f.Name)
				b.WriteString(": ")
				writeType(b, f.Type)
			}
			b.WriteString(" }")
		case wit.Type:
			writeType(b, k)
		default:
			b.WriteString("unknown")
		}
	default:
		b.WriteString("unknown")
	}
}

// ClassFromWIT maps a WIT primitive to the vector class holding it.
func ClassFromWIT(t wit.Type) (Class, error) {
	switch t.(type) {
	case wit.Bool:
		return ClassLogical, nil
	case wit.U8:
		return ClassUint8, nil
	case wit.S8:
		return ClassInt8, nil
	case wit.U16:
		return ClassUint16, nil
	case wit.S16:
		return ClassInt16, nil
	case wit.U32:
		return ClassUint32, nil
	case wit.S32:
		return ClassInt32, nil
	case wit.U64:
		return ClassUint64, nil
	case wit.S64:
		return ClassInt64, nil
	case wit.F32:
		return ClassSingle, nil
	case wit.F64:
		return ClassDouble, nil
	case wit.Char, wit.String:
		return ClassChar, nil
	}
	return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Detail("no host class for WIT type %s", TypeString(t)).
		Build()
}

// ParseClass parses a WIT primitive type name such as "u16" or "f64".
func ParseClass(s string) (Class, error) {
	t, err := wit.ParseType(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse class "+s)
	}
	return ClassFromWIT(t)
}
