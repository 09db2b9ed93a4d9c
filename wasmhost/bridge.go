package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/mxpack/codec"
	"github.com/wippyai/mxpack/errors"
	"github.com/wippyai/mxpack/value"
	"github.com/wippyai/mxpack/wire"
	"go.uber.org/zap"
)

// ModuleName is the import module guests link against.
const ModuleName = "mxpack"

// Guest-visible status codes returned in place of a length or count.
const (
	StatusError    int32 = -1
	StatusCapacity int32 = -2
)

// Bridge exposes a codec to WebAssembly guests.
//
// Exports of module "mxpack":
//
//	count(ptr, len i32) -> i32                 complete messages in [ptr, ptr+len)
//	repack(ptr, len, out, cap i32) -> i32      decode, re-encode into [out, out+cap)
//
// count returns StatusError for malformed input. repack returns the bytes
// written, StatusError on codec failure and StatusCapacity if cap is too small.
type Bridge struct {
	codec *codec.Codec
	log   *zap.Logger
}

// New creates a bridge over c. A nil codec selects codec.Default.
func New(c *codec.Codec) *Bridge {
	if c == nil {
		c = codec.Default()
	}
	return &Bridge{codec: c, log: codec.Logger()}
}

// WithLogger sets the logger used for host call failures.
func (b *Bridge) WithLogger(l *zap.Logger) *Bridge {
	if l != nil {
		b.log = l
	}
	return b
}

// Instantiate registers the host module in r.
func (b *Bridge) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	i32 := api.ValueTypeI32

	return r.NewHostModuleBuilder(ModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.hostCount), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		WithParameterNames("ptr", "len").
		Export("count").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.hostRepack), []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}).
		WithParameterNames("ptr", "len", "out", "cap").
		Export("repack").
		Instantiate(ctx)
}

func (b *Bridge) hostCount(_ context.Context, mod api.Module, stack []uint64) {
	ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])

	mem := mod.Memory()
	if mem == nil {
		b.log.Debug("count: guest exports no memory", zap.String("module", mod.Name()))
		stack[0] = api.EncodeI32(StatusError)
		return
	}
	n, err := b.Count(NewGuestMemory(mem), ptr, length)
	if err != nil {
		b.log.Debug("count failed", zap.String("module", mod.Name()), zap.Error(err))
		stack[0] = api.EncodeI32(StatusError)
		return
	}
	stack[0] = api.EncodeI32(int32(n))
}

func (b *Bridge) hostRepack(_ context.Context, mod api.Module, stack []uint64) {
	ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	out, capacity := api.DecodeU32(stack[2]), api.DecodeU32(stack[3])

	mem := mod.Memory()
	if mem == nil {
		b.log.Debug("repack: guest exports no memory", zap.String("module", mod.Name()))
		stack[0] = api.EncodeI32(StatusError)
		return
	}
	n, err := b.Repack(NewGuestMemory(mem), ptr, length, out, capacity)
	if err != nil {
		b.log.Debug("repack failed", zap.String("module", mod.Name()), zap.Error(err))
		if errors.KindOf(err) == errors.KindCapacityExceeded {
			stack[0] = api.EncodeI32(StatusCapacity)
		} else {
			stack[0] = api.EncodeI32(StatusError)
		}
		return
	}
	stack[0] = api.EncodeI32(int32(n))
}

// Count returns the number of complete messages in the region. A trailing
// partial message is not counted.
func (b *Bridge) Count(mem Memory, ptr, length uint32) (int, error) {
	data, err := mem.Read(ptr, length)
	if err != nil {
		return 0, err
	}
	count := 0
	for len(data) > 0 {
		n, ok, err := wire.Complete(data)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		data = data[n:]
		count++
	}
	return count, nil
}

// ReadValues decodes every complete message in the region.
func (b *Bridge) ReadValues(mem Memory, ptr, length uint32) ([]value.Value, error) {
	data, err := mem.Read(ptr, length)
	if err != nil {
		return nil, err
	}
	return b.codec.Unpacker(data)
}

// WriteValues encodes values into the region and returns the bytes written.
// Nothing is written if the encoding does not fit in capacity.
func (b *Bridge) WriteValues(mem Memory, ptr, capacity uint32, values ...value.Value) (int, error) {
	data, err := b.codec.Pack(values...)
	if err != nil {
		return 0, err
	}
	if uint64(len(data)) > uint64(capacity) {
		return 0, errors.CapacityExceeded(errors.PhaseBridge, len(data), int(capacity))
	}
	if err := mem.Write(ptr, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Repack decodes the input region and writes the canonical encoding of the
// same values to the output region.
func (b *Bridge) Repack(mem Memory, ptr, length, out, capacity uint32) (int, error) {
	values, err := b.ReadValues(mem, ptr, length)
	if err != nil {
		return 0, err
	}
	return b.WriteValues(mem, out, capacity, values...)
}
