package codec

import (
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/wippyai/mxpack/errors"
	"github.com/wippyai/mxpack/value"
	"github.com/wippyai/mxpack/wire"
	"go.uber.org/zap"
)

// Session decodes a stream of concatenated messages delivered in arbitrary
// chunks. A trailing partial message stays buffered until the next Feed.
// A Session is not safe for concurrent use.
type Session struct {
	codec *Codec
	log   *zap.Logger
	buf   []byte
	id    uuid.UUID
}

// ID identifies the session in log entries.
func (s *Session) ID() string {
	return s.id.String()
}

// Feed appends p to the session buffer.
func (s *Session) Feed(p []byte) {
	s.buf = append(s.buf, p...)
}

// Buffered returns the number of bytes waiting for a complete message.
func (s *Session) Buffered() int {
	return len(s.buf)
}

// Drain decodes every complete message in the buffer, in order. On error no
// values are returned and the buffer is discarded.
func (s *Session) Drain() ([]value.Value, error) {
	out, n, err := s.codec.decodeStream(s.buf)
	if err != nil {
		s.log.Debug("session drain failed", zap.Error(err), zap.Int("buffered", len(s.buf)))
		s.buf = s.buf[:0]
		return nil, err
	}
	rest := copy(s.buf, s.buf[n:])
	s.buf = s.buf[:rest]
	s.log.Debug("session drained",
		zap.Int("messages", len(out)),
		zap.Int("consumed", n),
		zap.Int("buffered", rest))
	return out, nil
}

// decodeStream decodes every complete message at the front of b and returns
// the number of bytes consumed.
func (c *Codec) decodeStream(b []byte) ([]value.Value, int, error) {
	var out []value.Value
	d := c.NewDecoder()
	off := 0
	for off < len(b) {
		n, ok, err := wire.Complete(b[off:])
		if err != nil {
			err = errors.Malformed(errors.PhaseStream, off, stderrors.Unwrap(err))
			c.metrics.fail(directionDecode, err)
			return nil, 0, err
		}
		if !ok {
			break
		}
		wv, _, err := wire.Read(b[off:off+n], c.maxDepth)
		if err != nil {
			c.metrics.fail(directionDecode, err)
			return nil, 0, err
		}
		hv, err := d.Decode(wv)
		if err != nil {
			c.metrics.fail(directionDecode, err)
			return nil, 0, err
		}
		out = append(out, hv)
		off += n
	}
	c.metrics.observe(directionDecode, len(out), off)
	return out, off, nil
}
