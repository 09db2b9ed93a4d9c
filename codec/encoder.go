package codec

import (
	"math"
	"strconv"

	"github.com/wippyai/mxpack/errors"
	"github.com/wippyai/mxpack/value"
	"github.com/wippyai/mxpack/wire"
	"go.uber.org/zap"
)

// Encoder writes host values to a wire.Writer through a Registry. An
// Encoder is not safe for concurrent use.
type Encoder struct {
	reg           *Registry
	w             *wire.Writer
	log           *zap.Logger
	maxDepth      int
	recordHeaders bool
}

// NewEncoder creates an encoder over reg writing to w. A nil reg selects
// DefaultRegistry.
func NewEncoder(reg *Registry, w *wire.Writer) *Encoder {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Encoder{reg: reg, w: w, log: Logger(), maxDepth: wire.DefaultMaxDepth}
}

// Writer returns the underlying wire writer.
func (e *Encoder) Writer() *wire.Writer {
	return e.w
}

// RecordHeaders reports whether single-field structs get a map header.
func (e *Encoder) RecordHeaders() bool {
	return e.recordHeaders
}

// Encode writes v. On failure nothing from v is left in the writer.
func (e *Encoder) Encode(v value.Value) error {
	mark := e.w.Len()
	if err := e.EncodeChild(v, nil); err != nil {
		e.w.Truncate(mark)
		return err
	}
	return nil
}

// EncodeChild encodes a nested value. path names the value's position.
func (e *Encoder) EncodeChild(v value.Value, path []string) error {
	if v == nil {
		return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			Path(path...).
			HostType("nil").
			Detail("nil host value").
			Build()
	}
	if len(path) > e.maxDepth {
		return errors.DepthExceeded(errors.PhaseEncode, path, e.maxDepth)
	}
	fn, err := e.reg.EncodeHandler(v.Class())
	if err != nil {
		if x, ok := err.(*errors.Error); ok {
			x.Path = append([]string(nil), path...)
		}
		return err
	}
	if ce := e.log.Check(zap.DebugLevel, "encode"); ce != nil {
		ce.Write(zap.Stringer("class", v.Class()), zap.Int("len", v.Len()), zap.String("path", errors.JoinPath(path)))
	}
	return fn(e, v, path)
}

func checkLength(n int, path []string, what string) error {
	if uint64(n) > math.MaxUint32 {
		return errors.Overflow(errors.PhaseEncode, path, n, what)
	}
	return nil
}

// vectorEncoder writes a vector of N elements as nil (N == 0), a bare
// scalar (N == 1) or an array of scalars.
func vectorEncoder[S ~[]E, E any](write func(*wire.Writer, E)) EncodeFunc {
	return func(e *Encoder, v value.Value, path []string) error {
		s, ok := v.(S)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, v.Class().String(), "array")
		}
		switch len(s) {
		case 0:
			e.w.WriteNil()
		case 1:
			write(e.w, s[0])
		default:
			if err := checkLength(len(s), path, "array length"); err != nil {
				return err
			}
			e.w.WriteArrayHeader(uint32(len(s)))
			for _, x := range s {
				write(e.w, x)
			}
		}
		return nil
	}
}

func writeSigned[T int8 | int16 | int32](w *wire.Writer, x T) {
	w.WriteInt(int64(x))
}

func writeUnsigned[T uint8 | uint16 | uint32](w *wire.Writer, x T) {
	w.WriteUint(uint64(x))
}

func encodeChar(e *Encoder, v value.Value, path []string) error {
	c, ok := v.(value.Char)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, v.Class().String(), "raw")
	}
	if err := checkLength(2*len(c), path, "raw length"); err != nil {
		return err
	}
	e.w.WriteRaw(c.Bytes())
	return nil
}

// encodeCell writes nil for an empty cell, the element alone for a single
// element cell, and an array otherwise.
func encodeCell(e *Encoder, v value.Value, path []string) error {
	c, ok := v.(value.Cell)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, v.Class().String(), "array")
	}
	switch len(c) {
	case 0:
		e.w.WriteNil()
		return nil
	case 1:
		return e.EncodeChild(c[0], append(path, "[0]"))
	}
	if err := checkLength(len(c), path, "array length"); err != nil {
		return err
	}
	e.w.WriteArrayHeader(uint32(len(c)))
	for i, elem := range c {
		if err := e.EncodeChild(elem, append(path, "["+strconv.Itoa(i)+"]")); err != nil {
			return err
		}
	}
	return nil
}

// encodeStruct writes a map of field name to value. A single-field struct
// omits the map header unless record headers are enabled.
func encodeStruct(e *Encoder, v value.Value, path []string) error {
	s, ok := v.(value.Struct)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, v.Class().String(), "map")
	}
	n := len(s.Fields)
	if err := checkLength(n, path, "map length"); err != nil {
		return err
	}
	if n != 1 || e.recordHeaders {
		e.w.WriteMapHeader(uint32(n))
	}
	for _, f := range s.Fields {
		e.w.WriteRaw([]byte(f.Name))
		if err := e.EncodeChild(f.Value, append(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}
