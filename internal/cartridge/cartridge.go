// Package cartridge provides the game cartridge for the DMG. The
// cartridge holds the game ROM and any external RAM, which are
// exposed to the MMU through a Mapper.
package cartridge

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/thelolagemann/dmgl/internal/types"
	"github.com/thelolagemann/dmgl/pkg/utils"
)

const (
	// ROMBankSize is the size of a single ROM bank.
	ROMBankSize = 16 * 1024
	// RAMBankSize is the size of a single RAM bank.
	RAMBankSize = 8 * 1024
)

var (
	ErrLength   = errors.New("cartridge length mismatch")
	ErrChecksum = errors.New("cartridge checksum mismatch")
	ErrCGBOnly  = errors.New("cartridge is CGB-only")
	ErrType     = errors.New("cartridge type is unsupported")
	ErrROMCount = errors.New("cartridge ROM count is unsupported")
	ErrRAMCount = errors.New("cartridge RAM count is unsupported")
)

var (
	// ramCount is the number of RAM banks, indexed by RAMCode.
	ramCount = []int{1, 1, 1, 4, 16, 8}
	// romCount is the number of ROM banks, indexed by ROMCode.
	romCount = []int{2, 4, 8, 16, 32, 64, 128, 256, 512}
)

// Cartridge represents a validated game cartridge. The ROM banks
// alias the image passed to NewCartridge, which must not be modified
// for the lifetime of the Cartridge. The RAM banks are owned.
type Cartridge struct {
	header Header

	rom [][]byte
	ram [][]byte

	fingerprint uint64
}

// validate validates the cartridge image against its header.
func validate(data []byte) (Header, error) {
	if len(data) < romCount[0]*ROMBankSize {
		return Header{}, fmt.Errorf("%w -- %.02f KB (%d bytes)", ErrLength, float32(len(data))/1024, len(data))
	}

	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, err
	}

	if checksum := utils.Checksum(data, checksumStart, checksumEnd); checksum != h.HeaderChecksum {
		return Header{}, fmt.Errorf("%w -- %02X", ErrChecksum, checksum)
	}

	if h.CGBOnly() {
		return Header{}, fmt.Errorf("%w -- %02X", ErrCGBOnly, h.CGBFlag)
	}

	if _, ok := controllers[h.CartridgeType]; !ok {
		return Header{}, fmt.Errorf("%w -- %d", ErrType, h.CartridgeType)
	}

	if int(h.ROMCode) >= len(romCount) {
		return Header{}, fmt.Errorf("%w -- %d", ErrROMCount, h.ROMCode)
	}

	if int(h.RAMCode) >= len(ramCount) {
		return Header{}, fmt.Errorf("%w -- %d", ErrRAMCount, h.RAMCode)
	}

	if len(data) != romCount[h.ROMCode]*ROMBankSize {
		return Header{}, fmt.Errorf("%w -- %.02f KB (%d bytes)", ErrLength, float32(len(data))/1024, len(data))
	}

	return h, nil
}

// NewCartridge validates the given image and returns a new Cartridge.
// The RAM banks are allocated according to the header and filled
// with 0xFF.
func NewCartridge(data []byte) (*Cartridge, error) {
	h, err := validate(data)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{
		header:      h,
		rom:         make([][]byte, romCount[h.ROMCode]),
		ram:         make([][]byte, ramCount[h.RAMCode]),
		fingerprint: xxhash.Sum64(data),
	}
	for i := range c.rom {
		c.rom[i] = data[i*ROMBankSize : (i+1)*ROMBankSize : (i+1)*ROMBankSize]
	}
	for i := range c.ram {
		c.ram[i] = make([]byte, RAMBankSize)
	}
	c.Reset()

	return c, nil
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Title returns the cartridge title.
func (c *Cartridge) Title() string {
	return c.header.Title
}

// Checksum returns the header checksum byte.
func (c *Cartridge) Checksum() uint8 {
	return c.header.HeaderChecksum
}

// Type returns the declared cartridge type.
func (c *Cartridge) Type() Type {
	return c.header.CartridgeType
}

// Fingerprint returns the xxhash of the ROM image, used to tie
// save states to a cartridge.
func (c *Cartridge) Fingerprint() uint64 {
	return c.fingerprint
}

// ROMCount returns the number of ROM banks.
func (c *Cartridge) ROMCount() int {
	return len(c.rom)
}

// RAMCount returns the number of RAM banks.
func (c *Cartridge) RAMCount() int {
	return len(c.ram)
}

// ReadROM reads from ROM bank index at the bank relative address.
func (c *Cartridge) ReadROM(index int, address uint16) uint8 {
	return c.rom[index][address]
}

// ReadRAM reads from RAM bank index at the bank relative address.
func (c *Cartridge) ReadRAM(index int, address uint16) uint8 {
	return c.ram[index][address]
}

// WriteRAM writes to RAM bank index at the bank relative address.
func (c *Cartridge) WriteRAM(index int, address uint16, value uint8) {
	c.ram[index][address] = value
}

// Reset fills the RAM banks with 0xFF.
func (c *Cartridge) Reset() {
	for _, bank := range c.ram {
		for i := range bank {
			bank[i] = 0xFF
		}
	}
}

// Close releases the banks. The Cartridge must not be used afterwards.
func (c *Cartridge) Close() {
	*c = Cartridge{}
}

var _ types.Stater = (*Cartridge)(nil)

// Load implements the types.Stater interface.
//
// The RAM banks are loaded in order, ROM is read-only
// and is not part of the state.
func (c *Cartridge) Load(s *types.State) {
	for _, bank := range c.ram {
		s.ReadData(bank)
	}
}

// Save implements the types.Stater interface.
func (c *Cartridge) Save(s *types.State) {
	for _, bank := range c.ram {
		s.WriteData(bank)
	}
}
