package wasmhost

import (
	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/mxpack/errors"
)

// Memory is guest linear memory.
type Memory interface {
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	Size() uint32
}

// GuestMemory wraps wazero memory to implement Memory.
type GuestMemory struct {
	mem api.Memory
}

func NewGuestMemory(mem api.Memory) *GuestMemory {
	return &GuestMemory{mem: mem}
}

// Read returns a view of guest memory. The view is invalidated if the guest
// grows its memory.
func (m *GuestMemory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseBridge, offset, length)
	}
	return data, nil
}

func (m *GuestMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseBridge, offset, uint32(len(data)))
	}
	return nil
}

func (m *GuestMemory) Size() uint32 {
	return m.mem.Size()
}
