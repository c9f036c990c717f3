// Package boot provides the boot ROM of the Game Boy. Whilst this
// package is not strictly required for the emulator to function, it
// can be used to emulate the boot process of the Game Boy.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/thelolagemann/dmgl/internal/types"
	"github.com/thelolagemann/dmgl/pkg/utils"
)

const (
	// Size is the length of a DMG boot ROM.
	Size = 256
	// Checksum is the value every valid boot ROM image produces
	// when checksummed over its full length.
	Checksum = 0x92
)

var (
	ErrLength   = errors.New("bootloader length mismatch")
	ErrChecksum = errors.New("bootloader checksum mismatch")
)

// ROM represents a boot ROM for the Game Boy. When the Game Boy first
// powers on, the boot ROM is mapped to memory addresses 0x0000 -
// 0x00FF.
//
// The boot ROM performs a series of tasks, such as initializing the
// hardware, setting the stack pointer, scrolling the Nintendo logo, etc.
//
// Once the boot ROM has completed its tasks, it is unmapped from memory
// (by writing to the types.BDIS register), and the cartridge is mapped
// over the boot ROM, thus starting the cartridge execution, and preventing
// the boot ROM from being executed again until the next Reset.
type ROM struct {
	raw      []byte // the raw boot rom, borrowed from the caller
	checksum string // the MD5 checksum of the boot rom
	enabled  bool
}

// NewROM validates the given image and returns a new enabled ROM. A
// nil image yields a nil ROM and no error, which is treated as the
// absence of a boot ROM.
func NewROM(b []byte) (*ROM, error) {
	if b == nil {
		return nil, nil
	}
	if len(b) != Size {
		return nil, fmt.Errorf("%w -- %.02f KB (%d bytes)", ErrLength, float32(len(b))/1024, len(b))
	}
	if checksum := utils.Checksum(b, 0, Size-1); checksum != Checksum {
		return nil, fmt.Errorf("%w -- %02X", ErrChecksum, checksum)
	}

	sum := md5.Sum(b)
	return &ROM{
		raw:      b,
		checksum: hex.EncodeToString(sum[:]),
		enabled:  true,
	}, nil
}

// Enabled returns true if the boot ROM is mapped over the cartridge.
// A nil ROM is never enabled.
func (b *ROM) Enabled() bool {
	return b != nil && b.enabled
}

// Disable unmaps the boot ROM.
func (b *ROM) Disable() {
	if b != nil {
		b.enabled = false
	}
}

// Read returns the byte at the given address, or 0x00 if the address
// is outside the boot ROM or it has been disabled.
func (b *ROM) Read(addr uint16) byte {
	if !b.Enabled() || !types.BootROMRegion.Contains(addr) {
		return 0x00
	}
	return b.raw[addr]
}

// Reset maps the boot ROM back in.
func (b *ROM) Reset() {
	if b != nil && b.raw != nil {
		b.enabled = true
	}
}

// Close releases the image. The ROM reads as disabled afterwards.
func (b *ROM) Close() {
	if b != nil {
		*b = ROM{}
	}
}

// Checksum returns the MD5 checksum of the boot rom.
func (b *ROM) Checksum() string {
	if b == nil {
		return ""
	}
	return b.checksum
}

// Model returns the model of the boot rom. The model
// is determined by the checksum of the boot rom.
func (b *ROM) Model() string {
	if b == nil {
		return "none"
	}
	if model, ok := knownBootROMChecksums[b.checksum]; ok {
		return model
	}
	return "unknown"
}

var _ types.Stater = (*ROM)(nil)

// Load implements the types.Stater interface. Only the enabled flag
// is part of the state, the image itself is supplied by the caller.
func (b *ROM) Load(s *types.State) {
	enabled := s.ReadBool()
	if b != nil && b.raw != nil {
		b.enabled = enabled
	}
}

// Save implements the types.Stater interface.
func (b *ROM) Save(s *types.State) {
	s.WriteBool(b.Enabled())
}

// knownBootROMChecksums is a map of known boot rom checksums,
// with the key being the checksum, and the value being the
// model of the boot rom.
var knownBootROMChecksums = map[string]string{
	DMG0:         "Game Boy (DMG-0)",
	DMG:          "Game Boy (DMG-01)",
	MGB:          "Game Boy Pocket",
	SGB:          "Super Game Boy",
	SGB2:         "Super Game Boy 2",
	FORTUNE:      "Fortune/Bitman 3000B",
	GAME_FIGHTER: "Game Fighter",
	MAX_STATION:  "Max Station",
}

const (
	// DMG0 is the checksum of the DMG early boot ROM, found in very
	// early DMG units and only ever sold in Japan. On a boot failure
	// it flashes the screen, rather than hanging after the logo.
	DMG0 = "a8f84a0ac44da5d3f0ee19f9cea80a8c"
	// DMG is the checksum of the boot ROM found in most DMG-01 units.
	DMG = "32fbbd84168d3482956eb3c5051637f5"
	// MGB is the checksum of the MGB boot ROM, which differs only by
	// a single byte from the DMG boot ROM, loading 0xFF into the A
	// register rather than 0x01.
	MGB = "71a378e71ff30b2d8a1f02bf5c7896aa"
	// SGB is the checksum of the SGB boot ROM, which sends the
	// cartridge header to the SNES instead of scrolling the logo.
	SGB = "d574d4f9c12f305074798f54c091a8b4"
	// SGB2 is the checksum of the SGB2 boot ROM, loading 0xFF into
	// the A register rather than 0x01.
	SGB2 = "e0430bca9925fb9882148fd2dc2418c1"
	// FORTUNE is the checksum of the boot ROM found in the
	// Game Boy clone "Fortune/Bitman 3000B".
	FORTUNE = "92ed4eca17d61fcd53f8a64c3ce84743"
	// GAME_FIGHTER is the checksum of the boot ROM found in the
	// Game Boy clone "Game Fighter".
	GAME_FIGHTER = "6a7b8ee12a793f66a969c6a2b8926cc9"
	// MAX_STATION is the checksum of the boot ROM found in the
	// Game Boy clone "Maxstation".
	MAX_STATION = "77a7021db824010a678791f6d062943d"
)
