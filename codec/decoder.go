package codec

import (
	"strconv"

	"github.com/wippyai/mxpack/errors"
	"github.com/wippyai/mxpack/value"
	"github.com/wippyai/mxpack/wire"
	"go.uber.org/zap"
)

// Decoder turns wire values into host values through a Registry. A Decoder
// is not safe for concurrent use.
type Decoder struct {
	reg      *Registry
	log      *zap.Logger
	maxDepth int
}

// NewDecoder creates a decoder over reg. A nil reg selects DefaultRegistry.
func NewDecoder(reg *Registry) *Decoder {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Decoder{reg: reg, log: Logger(), maxDepth: wire.DefaultMaxDepth}
}

// Decode materializes one host value from v.
func (d *Decoder) Decode(v wire.Value) (value.Value, error) {
	return d.DecodeChild(v, nil)
}

// DecodeChild decodes a nested value. path names the value's position.
func (d *Decoder) DecodeChild(v wire.Value, path []string) (value.Value, error) {
	if len(path) > d.maxDepth {
		return nil, errors.DepthExceeded(errors.PhaseDecode, path, d.maxDepth)
	}
	fn, err := d.reg.DecodeHandler(v.Kind)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Path = append([]string(nil), path...)
		}
		return nil, err
	}
	if ce := d.log.Check(zap.DebugLevel, "decode"); ce != nil {
		ce.Write(zap.Stringer("kind", v.Kind), zap.String("path", errors.JoinPath(path)))
	}
	return fn(d, v, path)
}

func decodeNil(_ *Decoder, _ wire.Value, _ []string) (value.Value, error) {
	return value.Empty(), nil
}

func decodeBool(_ *Decoder, v wire.Value, _ []string) (value.Value, error) {
	return value.Logical{v.Bool}, nil
}

func decodeUint(_ *Decoder, v wire.Value, _ []string) (value.Value, error) {
	return value.Uint64{v.Uint}, nil
}

func decodeInt(_ *Decoder, v wire.Value, _ []string) (value.Value, error) {
	return value.Int64{v.Int}, nil
}

func decodeFloat(_ *Decoder, v wire.Value, _ []string) (value.Value, error) {
	return value.Double{v.Float}, nil
}

func decodeRaw(_ *Decoder, v wire.Value, _ []string) (value.Value, error) {
	return value.CharFromBytes(v.Raw), nil
}

func decodeArray(d *Decoder, v wire.Value, path []string) (value.Value, error) {
	if kind, ok := Classify(v.Array); ok {
		return typedVector(kind, v.Array), nil
	}

	cell := make(value.Cell, 0, len(v.Array))
	for i, elem := range v.Array {
		hv, err := d.DecodeChild(elem, append(path, "["+strconv.Itoa(i)+"]"))
		if err != nil {
			return nil, err
		}
		cell = append(cell, hv)
	}
	return cell, nil
}

// typedVector collapses a homogeneous array into one vector.
func typedVector(kind wire.Kind, elems []wire.Value) value.Value {
	switch kind {
	case wire.KindBool:
		out := make(value.Logical, len(elems))
		for i, e := range elems {
			out[i] = e.Bool
		}
		return out
	case wire.KindUint:
		out := make(value.Uint64, len(elems))
		for i, e := range elems {
			out[i] = e.Uint
		}
		return out
	case wire.KindInt:
		out := make(value.Int64, len(elems))
		for i, e := range elems {
			out[i] = e.Int
		}
		return out
	default:
		out := make(value.Double, len(elems))
		for i, e := range elems {
			out[i] = e.Float
		}
		return out
	}
}

func decodeMap(d *Decoder, v wire.Value, path []string) (value.Value, error) {
	fields := make([]value.Field, 0, len(v.Map))
	seen := make(map[string]struct{}, len(v.Map))

	for i, p := range v.Map {
		if p.Key.Kind != wire.KindRaw {
			d.log.Debug("dropping map entry with non-string key",
				zap.String("path", errors.JoinPath(path)),
				zap.Int("index", i),
				zap.Stringer("key_kind", p.Key.Kind))
			continue
		}
		name := string(p.Key.Raw)
		if _, dup := seen[name]; dup {
			d.log.Debug("dropping duplicate map key",
				zap.String("path", errors.JoinPath(path)),
				zap.String("key", name))
			continue
		}
		seen[name] = struct{}{}

		hv, err := d.DecodeChild(p.Val, append(path, name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, value.Field{Name: name, Value: hv})
	}
	return value.Struct{Fields: fields}, nil
}
