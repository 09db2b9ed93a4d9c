package wire

import (
	stderrors "errors"
	"strconv"

	"github.com/tinylib/msgp/msgp"
	"github.com/wippyai/mxpack/errors"
)

// DefaultMaxDepth bounds container nesting when no limit is given.
const DefaultMaxDepth = 512

// Read decodes one complete message from the front of b and returns it with
// the remaining bytes. Integers are classified by value: non-negative
// integers are Uint regardless of their on-wire prefix.
//
// A maxDepth <= 0 selects DefaultMaxDepth.
func Read(b []byte, maxDepth int) (Value, []byte, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	r := reader{start: len(b), maxDepth: maxDepth}
	return r.read(b, 0, nil)
}

// Complete reports the byte length of the first message in b. ok is false
// with a nil error when b holds only a prefix of a message.
func Complete(b []byte) (n int, ok bool, err error) {
	if len(b) == 0 {
		return 0, false, nil
	}
	rest, err := msgp.Skip(b)
	if err != nil {
		if stderrors.Is(err, msgp.ErrShortBytes) {
			return 0, false, nil
		}
		return 0, false, errors.Malformed(errors.PhaseStream, 0, err)
	}
	return len(b) - len(rest), true, nil
}

type reader struct {
	start    int
	maxDepth int
}

func (r *reader) offset(b []byte) int {
	return r.start - len(b)
}

func (r *reader) malformed(b []byte, cause error) error {
	return errors.Malformed(errors.PhaseDecode, r.offset(b), cause)
}

func (r *reader) read(b []byte, depth int, path []string) (Value, []byte, error) {
	switch msgp.NextType(b) {
	case msgp.NilType:
		o, err := msgp.ReadNilBytes(b)
		if err != nil {
			return Value{}, b, r.malformed(b, err)
		}
		return Nil(), o, nil

	case msgp.BoolType:
		v, o, err := msgp.ReadBoolBytes(b)
		if err != nil {
			return Value{}, b, r.malformed(b, err)
		}
		return Bool(v), o, nil

	case msgp.IntType:
		v, o, err := msgp.ReadInt64Bytes(b)
		if err != nil {
			return Value{}, b, r.malformed(b, err)
		}
		return Int(v), o, nil

	case msgp.UintType:
		v, o, err := msgp.ReadUint64Bytes(b)
		if err != nil {
			return Value{}, b, r.malformed(b, err)
		}
		return Uint(v), o, nil

	case msgp.Float32Type, msgp.Float64Type:
		v, o, err := msgp.ReadFloat64Bytes(b)
		if err != nil {
			return Value{}, b, r.malformed(b, err)
		}
		return Float(v), o, nil

	case msgp.StrType:
		v, o, err := msgp.ReadStringZC(b)
		if err != nil {
			return Value{}, b, r.malformed(b, err)
		}
		return Raw(v), o, nil

	case msgp.BinType:
		v, o, err := msgp.ReadBytesZC(b)
		if err != nil {
			return Value{}, b, r.malformed(b, err)
		}
		return Raw(v), o, nil

	case msgp.ArrayType:
		return r.readArray(b, depth, path)

	case msgp.MapType:
		return r.readMap(b, depth, path)

	case msgp.ExtensionType, msgp.TimeType, msgp.Complex64Type, msgp.Complex128Type:
		o, err := msgp.Skip(b)
		if err != nil {
			return Value{}, b, r.malformed(b, err)
		}
		return Value{Kind: KindExtension, Ext: b[:len(b)-len(o)]}, o, nil

	default:
		if len(b) == 0 {
			return Value{}, b, r.malformed(b, msgp.ErrShortBytes)
		}
		return Value{}, b, r.malformed(b, msgp.InvalidPrefixError(b[0]))
	}
}

func (r *reader) readArray(b []byte, depth int, path []string) (Value, []byte, error) {
	if depth >= r.maxDepth {
		return Value{}, b, errors.DepthExceeded(errors.PhaseDecode, path, r.maxDepth)
	}
	n, o, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return Value{}, b, r.malformed(b, err)
	}
	// every element takes at least one byte
	elems := make([]Value, 0, min(int(n), len(o)))
	for i := uint32(0); i < n; i++ {
		var elem Value
		elem, o, err = r.read(o, depth+1, append(path, "["+strconv.Itoa(int(i))+"]"))
		if err != nil {
			return Value{}, b, err
		}
		elems = append(elems, elem)
	}
	return Array(elems...), o, nil
}

func (r *reader) readMap(b []byte, depth int, path []string) (Value, []byte, error) {
	if depth >= r.maxDepth {
		return Value{}, b, errors.DepthExceeded(errors.PhaseDecode, path, r.maxDepth)
	}
	n, o, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return Value{}, b, r.malformed(b, err)
	}
	pairs := make([]Pair, 0, min(int(n), len(o)/2))
	for i := uint32(0); i < n; i++ {
		var p Pair
		p.Key, o, err = r.read(o, depth+1, append(path, "{"+strconv.Itoa(int(i))+"}"))
		if err != nil {
			return Value{}, b, err
		}
		seg := "{" + strconv.Itoa(int(i)) + "}"
		if p.Key.Kind == KindRaw {
			seg = string(p.Key.Raw)
		}
		p.Val, o, err = r.read(o, depth+1, append(path, seg))
		if err != nil {
			return Value{}, b, err
		}
		pairs = append(pairs, p)
	}
	return Map(pairs...), o, nil
}
