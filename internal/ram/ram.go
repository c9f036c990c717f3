// Package ram provides a basic RAM implementation.
package ram

import "github.com/thelolagemann/dmgl/internal/types"

// RAM represents a fixed size block of RAM, addressed relative to
// its first byte. It is zeroed at construction.
type RAM struct {
	data []uint8
}

// NewRAM returns a new RAM of the given size.
func NewRAM(size int) *RAM {
	return &RAM{
		data: make([]uint8, size),
	}
}

// Size returns the number of bytes held by the RAM.
func (r *RAM) Size() int {
	return len(r.data)
}

// Read returns the value at the given address.
func (r *RAM) Read(address uint16) uint8 {
	return r.data[address]
}

// Write writes the value to the given address.
func (r *RAM) Write(address uint16, value uint8) {
	r.data[address] = value
}

// Reset zeroes the RAM.
func (r *RAM) Reset() {
	for i := range r.data {
		r.data[i] = 0
	}
}

var _ types.Stater = (*RAM)(nil)

func (r *RAM) Load(s *types.State) {
	s.ReadData(r.data)
}

func (r *RAM) Save(s *types.State) {
	s.WriteData(r.data)
}
