package wire

import (
	"math"

	"github.com/tinylib/msgp/msgp"
	"github.com/wippyai/mxpack/errors"
)

// Writer appends MessagePack values to a pooled buffer. Call Release when
// done; the slice returned by Bytes is invalid after that.
type Writer struct {
	buf *[]byte
}

func NewWriter() *Writer {
	return &Writer{buf: getBuf()}
}

// Release returns the buffer to the pool.
func (w *Writer) Release() {
	putBuf(w.buf)
	w.buf = nil
}

// Bytes returns the encoded bytes written so far.
func (w *Writer) Bytes() []byte {
	return *w.buf
}

func (w *Writer) Len() int {
	return len(*w.buf)
}

func (w *Writer) Reset() {
	*w.buf = (*w.buf)[:0]
}

// Truncate drops everything written after the first n bytes.
func (w *Writer) Truncate(n int) {
	*w.buf = (*w.buf)[:n]
}

func (w *Writer) WriteNil() {
	*w.buf = msgp.AppendNil(*w.buf)
}

func (w *Writer) WriteBool(b bool) {
	*w.buf = msgp.AppendBool(*w.buf, b)
}

func (w *Writer) WriteUint(u uint64) {
	*w.buf = msgp.AppendUint64(*w.buf, u)
}

func (w *Writer) WriteInt(i int64) {
	*w.buf = msgp.AppendInt64(*w.buf, i)
}

func (w *Writer) WriteFloat32(f float32) {
	*w.buf = msgp.AppendFloat32(*w.buf, f)
}

func (w *Writer) WriteFloat64(f float64) {
	*w.buf = msgp.AppendFloat64(*w.buf, f)
}

// WriteRaw writes p as a str payload.
func (w *Writer) WriteRaw(p []byte) {
	*w.buf = msgp.AppendStringFromBytes(*w.buf, p)
}

func (w *Writer) WriteArrayHeader(n uint32) {
	*w.buf = msgp.AppendArrayHeader(*w.buf, n)
}

func (w *Writer) WriteMapHeader(n uint32) {
	*w.buf = msgp.AppendMapHeader(*w.buf, n)
}

// WriteValue writes a whole wire value tree.
func (w *Writer) WriteValue(v Value) error {
	b, err := Append(*w.buf, v)
	*w.buf = b
	return err
}

// Append appends the encoding of v to b.
func Append(b []byte, v Value) ([]byte, error) {
	switch v.Kind {
	case KindNil:
		return msgp.AppendNil(b), nil
	case KindBool:
		return msgp.AppendBool(b, v.Bool), nil
	case KindUint:
		return msgp.AppendUint64(b, v.Uint), nil
	case KindInt:
		return msgp.AppendInt64(b, v.Int), nil
	case KindFloat:
		return msgp.AppendFloat64(b, v.Float), nil
	case KindRaw:
		if uint64(len(v.Raw)) > math.MaxUint32 {
			return b, errors.Overflow(errors.PhaseEncode, nil, len(v.Raw), "raw length")
		}
		return msgp.AppendStringFromBytes(b, v.Raw), nil
	case KindArray:
		if uint64(len(v.Array)) > math.MaxUint32 {
			return b, errors.Overflow(errors.PhaseEncode, nil, len(v.Array), "array length")
		}
		b = msgp.AppendArrayHeader(b, uint32(len(v.Array)))
		var err error
		for _, elem := range v.Array {
			if b, err = Append(b, elem); err != nil {
				return b, err
			}
		}
		return b, nil
	case KindMap:
		if uint64(len(v.Map)) > math.MaxUint32 {
			return b, errors.Overflow(errors.PhaseEncode, nil, len(v.Map), "map length")
		}
		b = msgp.AppendMapHeader(b, uint32(len(v.Map)))
		var err error
		for _, p := range v.Map {
			if b, err = Append(b, p.Key); err != nil {
				return b, err
			}
			if b, err = Append(b, p.Val); err != nil {
				return b, err
			}
		}
		return b, nil
	case KindExtension:
		return append(b, v.Ext...), nil
	}
	return b, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
		WireType(v.Kind.String()).
		Detail("unknown wire kind %d", uint8(v.Kind)).
		Build()
}
