package codec

import (
	"sync"

	"github.com/google/uuid"
	"github.com/wippyai/mxpack/value"
	"github.com/wippyai/mxpack/wire"
	"go.uber.org/zap"
)

// Codec bundles a registry with encode and decode settings. Configure it
// with the With methods before use; afterwards it is safe for concurrent use.
type Codec struct {
	reg           *Registry
	log           *zap.Logger
	metrics       *Metrics
	maxDepth      int
	recordHeaders bool
}

// New creates a codec over reg. A nil reg selects DefaultRegistry.
func New(reg *Registry) *Codec {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Codec{reg: reg, maxDepth: wire.DefaultMaxDepth}
}

var (
	defaultCodec     *Codec
	defaultCodecOnce sync.Once
)

// Default returns the process-wide codec over DefaultRegistry.
func Default() *Codec {
	defaultCodecOnce.Do(func() {
		defaultCodec = New(nil)
	})
	return defaultCodec
}

// DecodeAll decodes every complete message in b with the default codec.
func DecodeAll(b []byte) ([]value.Value, error) {
	return Default().Unpacker(b)
}

// WithMaxDepth bounds container nesting on both encode and decode.
// n <= 0 restores the default.
func (c *Codec) WithMaxDepth(n int) *Codec {
	if n <= 0 {
		n = wire.DefaultMaxDepth
	}
	c.maxDepth = n
	return c
}

// WithRecordHeaders makes single-field structs encode with a map header so
// they decode back into a struct.
func (c *Codec) WithRecordHeaders(on bool) *Codec {
	c.recordHeaders = on
	return c
}

// WithLogger sets the logger. A nil logger falls back to the package logger.
func (c *Codec) WithLogger(l *zap.Logger) *Codec {
	c.log = l
	return c
}

// WithMetrics enables traffic metrics.
func (c *Codec) WithMetrics(m *Metrics) *Codec {
	c.metrics = m
	return c
}

// Registry returns the codec's dispatch registry.
func (c *Codec) Registry() *Registry {
	return c.reg
}

// MaxDepth returns the nesting limit.
func (c *Codec) MaxDepth() int {
	return c.maxDepth
}

func (c *Codec) logger() *zap.Logger {
	if c.log != nil {
		return c.log
	}
	return Logger()
}

// NewEncoder returns an encoder with the codec's settings writing to w.
func (c *Codec) NewEncoder(w *wire.Writer) *Encoder {
	e := NewEncoder(c.reg, w)
	e.log = c.logger()
	e.maxDepth = c.maxDepth
	e.recordHeaders = c.recordHeaders
	return e
}

// NewDecoder returns a decoder with the codec's settings.
func (c *Codec) NewDecoder() *Decoder {
	d := NewDecoder(c.reg)
	d.log = c.logger()
	d.maxDepth = c.maxDepth
	return d
}

// NewSession starts a streaming decode session.
func (c *Codec) NewSession() *Session {
	id := uuid.New()
	return &Session{
		codec: c,
		id:    id,
		log:   c.logger().With(zap.String("session", id.String())),
	}
}

// Pack encodes each value in order and returns the concatenated messages.
func (c *Codec) Pack(values ...value.Value) ([]byte, error) {
	w := wire.NewWriter()
	defer w.Release()

	e := c.NewEncoder(w)
	for _, v := range values {
		if err := e.Encode(v); err != nil {
			c.metrics.fail(directionEncode, err)
			return nil, err
		}
	}
	c.metrics.observe(directionEncode, len(values), w.Len())
	return append([]byte(nil), w.Bytes()...), nil
}

// AppendPack appends the encoding of values to b.
func (c *Codec) AppendPack(b []byte, values ...value.Value) ([]byte, error) {
	p, err := c.Pack(values...)
	if err != nil {
		return b, err
	}
	return append(b, p...), nil
}

// Unpack decodes the first message in b. Trailing bytes are ignored.
func (c *Codec) Unpack(b []byte) (value.Value, error) {
	wv, rest, err := wire.Read(b, c.maxDepth)
	if err != nil {
		c.metrics.fail(directionDecode, err)
		return nil, err
	}
	hv, err := c.NewDecoder().Decode(wv)
	if err != nil {
		c.metrics.fail(directionDecode, err)
		return nil, err
	}
	c.metrics.observe(directionDecode, 1, len(b)-len(rest))
	return hv, nil
}

// Unpacker decodes every complete message in b, in order. A trailing
// partial message is ignored.
func (c *Codec) Unpacker(b []byte) ([]value.Value, error) {
	out, _, err := c.decodeStream(b)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []value.Value{}
	}
	return out, nil
}
