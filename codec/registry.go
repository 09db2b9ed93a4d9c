package codec

import (
	"fmt"
	"sync"

	"github.com/wippyai/mxpack/errors"
	"github.com/wippyai/mxpack/value"
	"github.com/wippyai/mxpack/wire"
)

// DecodeFunc materializes a host value from one wire value. Handlers for
// containers recurse through Decoder.DecodeChild.
type DecodeFunc func(d *Decoder, v wire.Value, path []string) (value.Value, error)

// EncodeFunc writes one host value. Handlers for containers recurse through
// Encoder.EncodeChild.
type EncodeFunc func(e *Encoder, v value.Value, path []string) error

// Registry maps wire kinds to decode handlers and host classes to encode
// handlers. It is mutable until Freeze and read-only afterwards.
type Registry struct {
	encoders map[value.Class]EncodeFunc
	decoders [wire.NumKinds]DecodeFunc
	mu       sync.RWMutex
	frozen   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[value.Class]EncodeFunc),
	}
}

// NewStandardRegistry creates an unfrozen registry holding the standard
// handlers for every wire kind except extensions and every host class.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	registerStandard(r)
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide standard registry. It is built
// once and frozen.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewStandardRegistry()
		defaultRegistry.Freeze()
	})
	return defaultRegistry
}

// RegisterDecoder sets the handler for a wire kind, replacing any previous one.
func (r *Registry) RegisterDecoder(kind wire.Kind, fn DecodeFunc) error {
	if fn == nil {
		return errors.Registration(fmt.Sprintf("nil decoder for wire kind %s", kind))
	}
	if int(kind) >= wire.NumKinds {
		return errors.Registration(fmt.Sprintf("unknown wire kind %d", uint8(kind)))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return errors.Registration("registry is frozen")
	}
	r.decoders[kind] = fn
	return nil
}

// RegisterEncoder sets the handler for a host class, replacing any previous one.
func (r *Registry) RegisterEncoder(class value.Class, fn EncodeFunc) error {
	if fn == nil {
		return errors.Registration(fmt.Sprintf("nil encoder for host class %s", class))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return errors.Registration("registry is frozen")
	}
	r.encoders[class] = fn
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// DecodeHandler returns the handler for kind or a dispatch error.
func (r *Registry) DecodeHandler(kind wire.Kind) (DecodeFunc, error) {
	var fn DecodeFunc
	r.mu.RLock()
	if int(kind) < wire.NumKinds {
		fn = r.decoders[kind]
	}
	r.mu.RUnlock()
	if fn == nil {
		return nil, errors.NoDecoder(nil, kind.String())
	}
	return fn, nil
}

// EncodeHandler returns the handler for class or a dispatch error.
func (r *Registry) EncodeHandler(class value.Class) (EncodeFunc, error) {
	r.mu.RLock()
	fn := r.encoders[class]
	r.mu.RUnlock()
	if fn == nil {
		return nil, errors.NoEncoder(nil, class.String())
	}
	return fn, nil
}

func registerStandard(r *Registry) {
	decoders := []struct {
		fn   DecodeFunc
		kind wire.Kind
	}{
		{decodeNil, wire.KindNil},
		{decodeBool, wire.KindBool},
		{decodeUint, wire.KindUint},
		{decodeInt, wire.KindInt},
		{decodeFloat, wire.KindFloat},
		{decodeRaw, wire.KindRaw},
		{decodeArray, wire.KindArray},
		{decodeMap, wire.KindMap},
	}
	for _, d := range decoders {
		r.decoders[d.kind] = d.fn
	}

	r.encoders[value.ClassLogical] = vectorEncoder[value.Logical]((*wire.Writer).WriteBool)
	r.encoders[value.ClassDouble] = vectorEncoder[value.Double]((*wire.Writer).WriteFloat64)
	r.encoders[value.ClassSingle] = vectorEncoder[value.Single]((*wire.Writer).WriteFloat32)
	r.encoders[value.ClassInt8] = vectorEncoder[value.Int8](writeSigned[int8])
	r.encoders[value.ClassInt16] = vectorEncoder[value.Int16](writeSigned[int16])
	r.encoders[value.ClassInt32] = vectorEncoder[value.Int32](writeSigned[int32])
	r.encoders[value.ClassInt64] = vectorEncoder[value.Int64]((*wire.Writer).WriteInt)
	r.encoders[value.ClassUint8] = vectorEncoder[value.Uint8](writeUnsigned[uint8])
	r.encoders[value.ClassUint16] = vectorEncoder[value.Uint16](writeUnsigned[uint16])
	r.encoders[value.ClassUint32] = vectorEncoder[value.Uint32](writeUnsigned[uint32])
	r.encoders[value.ClassUint64] = vectorEncoder[value.Uint64]((*wire.Writer).WriteUint)
	r.encoders[value.ClassChar] = encodeChar
	r.encoders[value.ClassCell] = encodeCell
	r.encoders[value.ClassStruct] = encodeStruct
}
