package mxpack

import (
	"github.com/wippyai/mxpack/codec"
	"github.com/wippyai/mxpack/value"
)

// Pack encodes each value in order and returns the concatenated messages.
func Pack(values ...value.Value) ([]byte, error) {
	return codec.Default().Pack(values...)
}

// Unpack decodes the first message in b. Trailing bytes are ignored; a
// buffer without a complete message is malformed input.
func Unpack(b []byte) (value.Value, error) {
	return codec.Default().Unpack(b)
}

// Unpacker decodes every complete message in b, in order.
func Unpacker(b []byte) ([]value.Value, error) {
	return codec.Default().Unpacker(b)
}

// NewSession starts a streaming decode session on the default codec.
func NewSession() *codec.Session {
	return codec.Default().NewSession()
}
