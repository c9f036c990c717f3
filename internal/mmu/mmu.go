// Package mmu provides a memory management unit for the Game Boy. The
// MMU is unaware of the processor, and decodes every memory read and
// write to the boot ROM, the cartridge or one of the internal RAMs.
package mmu

import (
	"github.com/thelolagemann/dmgl/internal/boot"
	"github.com/thelolagemann/dmgl/internal/cartridge"
	"github.com/thelolagemann/dmgl/internal/ram"
	"github.com/thelolagemann/dmgl/internal/types"
)

// address holds the handlers of a single memory address.
type address struct {
	Read  func(address uint16) uint8
	Write func(address uint16, value uint8)
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory, with the
// exception of the interrupt registers, which are owned by the CPU.
type MMU struct {
	// 64kB address space
	raw [65536]*address

	// 0x0000 - 0x00FF - BOOT ROM (256B)
	bootROM *boot.ROM

	// 0x0000 - 0x7FFF - ROM (32kB)
	// 0xA000 - 0xBFFF - External RAM (8kB)
	Cart *cartridge.Mapper

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	vRAM *ram.RAM

	// 0xC000 - 0xDFFF - Work RAM (8kB)
	// 0xE000 - 0xFDFF - Echo RAM (7.5kB)
	wRAM *WRAM

	// 0xFE00 - 0xFE9F - Sprite Attribute Table (160B)
	oam *ram.RAM

	// 0xFF80 - 0xFFFE - High RAM (127B)
	hRAM *ram.RAM
}

// NewMMU validates the given boot ROM (which may be nil) and
// cartridge images, and returns a new MMU. Both images are borrowed
// and must not be modified for the lifetime of the MMU.
func NewMMU(bootROM, rom []byte) (*MMU, error) {
	b, err := boot.NewROM(bootROM)
	if err != nil {
		return nil, err
	}
	cart, err := cartridge.NewMapper(rom)
	if err != nil {
		return nil, err
	}

	m := &MMU{
		bootROM: b,
		Cart:    cart,
		vRAM:    ram.NewRAM(types.VideoRAMRegion.Size()),
		wRAM:    NewWRAM(),
		oam:     ram.NewRAM(types.SpriteRAMRegion.Size()),
		hRAM:    ram.NewRAM(types.HighRAMRegion.Size()),
	}
	m.init()

	return m, nil
}

func (m *MMU) init() {
	addresses := []address{
		{Read: m.readCart, Write: m.Cart.Write},
		{Read: m.Cart.Read, Write: m.Cart.Write},
		{Read: readOffset(m.vRAM.Read, types.VideoRAMRegion.Start), Write: writeOffset(m.vRAM.Write, types.VideoRAMRegion.Start)},
		{Read: m.wRAM.Read, Write: m.wRAM.Write},
		{Read: readOffset(m.oam.Read, types.SpriteRAMRegion.Start), Write: writeOffset(m.oam.Write, types.SpriteRAMRegion.Start)},
		{Read: readOffset(m.hRAM.Read, types.HighRAMRegion.Start), Write: writeOffset(m.hRAM.Write, types.HighRAMRegion.Start)},
		{Read: m.Cart.Read, Write: func(uint16, uint8) {
			// it's assumed any write to this register will disable the boot rom
			m.bootROM.Disable()
		}},
	}

	// everything not decoded below falls through to the cartridge,
	// which reads as open bus outside of its windows
	for i := range m.raw {
		m.raw[i] = &addresses[1]
	}

	// 0x0000 - 0x00FF - BOOT ROM (256B)
	for i := int(types.BootROMRegion.Start); i <= int(types.BootROMRegion.End); i++ {
		m.raw[i] = &addresses[0]
	}

	// 0x8000 - 0x9FFF - VRAM (8kB)
	for i := int(types.VideoRAMRegion.Start); i <= int(types.VideoRAMRegion.End); i++ {
		m.raw[i] = &addresses[2]
	}

	// 0xC000 - 0xFDFF - internal RAM (8kB) and its echo
	for i := int(types.WorkRAMRegion.Start); i <= int(types.EchoRAMRegion.End); i++ {
		m.raw[i] = &addresses[3]
	}

	// 0xFE00 - 0xFE9F - sprite attribute table (OAM) (160B)
	for i := int(types.SpriteRAMRegion.Start); i <= int(types.SpriteRAMRegion.End); i++ {
		m.raw[i] = &addresses[4]
	}

	// 0xFF80 - 0xFFFE - High RAM (127B)
	for i := int(types.HighRAMRegion.Start); i <= int(types.HighRAMRegion.End); i++ {
		m.raw[i] = &addresses[5]
	}

	m.raw[types.BDIS] = &addresses[6]
}

func readOffset(read func(uint16) uint8, offset uint16) func(uint16) uint8 {
	return func(addr uint16) uint8 {
		return read(addr - offset)
	}
}

func writeOffset(write func(uint16, uint8), offset uint16) func(uint16, uint8) {
	return func(addr uint16, v uint8) {
		write(addr-offset, v)
	}
}

func (m *MMU) readCart(address uint16) uint8 {
	// handle the boot ROM (if enabled)
	if m.bootROM.Enabled() {
		return m.bootROM.Read(address)
	}

	return m.Cart.Read(address)
}

// Read returns the value at the given address. It handles the boot
// ROM overlay, mirroring and open bus.
func (m *MMU) Read(address uint16) uint8 {
	return m.raw[address].Read(address)
}

// Write writes the value to the given address.
func (m *MMU) Write(address uint16, value uint8) {
	m.raw[address].Write(address, value)
}

// HasBootloader returns true if the boot ROM is currently mapped.
func (m *MMU) HasBootloader() bool {
	return m.bootROM.Enabled()
}

// BootROM returns the boot ROM, which is nil if none was supplied.
func (m *MMU) BootROM() *boot.ROM {
	return m.bootROM
}

// Checksum returns the header checksum of the cartridge.
func (m *MMU) Checksum() uint8 {
	return m.Cart.Checksum()
}

// Title returns the title of the cartridge.
func (m *MMU) Title() string {
	return m.Cart.Title()
}

// Reset maps the boot ROM back in, refills the cartridge RAM and
// zeroes the internal RAMs.
func (m *MMU) Reset() {
	m.bootROM.Reset()
	m.Cart.Reset()
	m.vRAM.Reset()
	m.wRAM.Reset()
	m.oam.Reset()
	m.hRAM.Reset()
}

// Close releases the cartridge and the boot ROM. The MMU must not be
// used afterwards.
func (m *MMU) Close() {
	m.Cart.Close()
	m.bootROM.Close()
	*m = MMU{}
}

var _ types.Stater = (*MMU)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Boot ROM enabled flag
//   - Cartridge (RAM banks and controller)
//   - Video RAM
//   - Work RAM
//   - Sprite RAM
//   - High RAM
func (m *MMU) Load(s *types.State) {
	m.bootROM.Load(s)
	m.Cart.Load(s)
	m.vRAM.Load(s)
	m.wRAM.Load(s)
	m.oam.Load(s)
	m.hRAM.Load(s)
}

// Save implements the types.Stater interface.
func (m *MMU) Save(s *types.State) {
	m.bootROM.Save(s)
	m.Cart.Save(s)
	m.vRAM.Save(s)
	m.wRAM.Save(s)
	m.oam.Save(s)
	m.hRAM.Save(s)
}
