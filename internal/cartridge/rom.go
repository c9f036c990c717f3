package cartridge

import "github.com/thelolagemann/dmgl/internal/types"

// ROMController represents the controller of a ROM only cartridge.
// This cartridge type is the simplest cartridge type and has no bank
// switching, ROM bank 0 is mapped to 0x0000-0x3FFF, ROM bank 1 to
// 0x4000-0x7FFF and RAM bank 0 to 0xA000-0xBFFF.
type ROMController struct {
	cart *Cartridge
}

func newROMController(cart *Cartridge) (MemoryBankController, error) {
	return &ROMController{cart: cart}, nil
}

// Read returns the value at the given address.
func (r *ROMController) Read(address uint16) uint8 {
	switch {
	case types.ROMBank0Region.Contains(address):
		return r.cart.ReadROM(0, address-types.ROMBank0Region.Start)
	case types.ROMBankNRegion.Contains(address):
		return r.cart.ReadROM(1, address-types.ROMBankNRegion.Start)
	case types.ExternalRAMRegion.Contains(address):
		return r.cart.ReadRAM(0, address-types.ExternalRAMRegion.Start)
	}
	return 0xFF
}

// Write writes the value to the given address. Only the RAM
// window is writable.
func (r *ROMController) Write(address uint16, value uint8) {
	if types.ExternalRAMRegion.Contains(address) {
		r.cart.WriteRAM(0, address-types.ExternalRAMRegion.Start, value)
	}
}

// Reset does nothing as there are no controller registers.
func (r *ROMController) Reset() {}

// Close detaches the controller from the cartridge.
func (r *ROMController) Close() {
	r.cart = nil
}

func (r *ROMController) Load(s *types.State) {
	// do nothing as there are no controller registers
}

func (r *ROMController) Save(s *types.State) {
	// do nothing as there are no controller registers
}
