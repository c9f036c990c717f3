package cartridge

import (
	"fmt"

	"github.com/thelolagemann/dmgl/internal/types"
)

// MemoryBankController is the bank switching strategy of a
// cartridge. Addresses are absolute, within 0x0000-0x7FFF and
// 0xA000-0xBFFF, anything else reads as open bus.
type MemoryBankController interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	types.Resettable
	types.Stater
	Close()
}

// controllers holds the constructor of the MemoryBankController for
// every supported cartridge Type.
var controllers = map[Type]func(*Cartridge) (MemoryBankController, error){
	ROM: newROMController,
}

// Mapper wraps a Cartridge with the MemoryBankController selected
// by its cartridge type.
type Mapper struct {
	*Cartridge
	mbc MemoryBankController
}

// NewMapper validates the given image and returns a Mapper for it.
func NewMapper(data []byte) (*Mapper, error) {
	cart, err := NewCartridge(data)
	if err != nil {
		return nil, err
	}

	mbc, err := controllers[cart.Type()](cart)
	if err != nil {
		cart.Close()
		return nil, fmt.Errorf("cartridge failed to initialize %s controller: %w", cart.Type(), err)
	}

	return &Mapper{Cartridge: cart, mbc: mbc}, nil
}

// Read reads the value at the given address through the controller.
func (m *Mapper) Read(address uint16) uint8 {
	return m.mbc.Read(address)
}

// Write writes the value to the given address through the controller.
func (m *Mapper) Write(address uint16, value uint8) {
	m.mbc.Write(address, value)
}

// Reset resets the controller and refills the cartridge RAM.
func (m *Mapper) Reset() {
	m.mbc.Reset()
	m.Cartridge.Reset()
}

// Close releases the controller and the cartridge.
func (m *Mapper) Close() {
	if m.mbc != nil {
		m.mbc.Close()
	}
	if m.Cartridge != nil {
		m.Cartridge.Close()
	}
	*m = Mapper{}
}

var _ types.Stater = (*Mapper)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Cartridge RAM banks
//   - Controller registers
func (m *Mapper) Load(s *types.State) {
	m.Cartridge.Load(s)
	m.mbc.Load(s)
}

// Save implements the types.Stater interface.
func (m *Mapper) Save(s *types.State) {
	m.Cartridge.Save(s)
	m.mbc.Save(s)
}
