// Package tests provides in-memory cartridge and boot ROM images
// used by the component tests, along with the end to end scenarios
// exercising the whole system.
package tests

import "github.com/thelolagemann/dmgl/pkg/utils"

// ROM describes a cartridge image to build.
type ROM struct {
	Title    string
	Type     uint8
	ROMCode  uint8
	RAMCode  uint8
	CGBFlag  uint8
	Banks    int    // number of 16 KiB banks, 0 derives it from ROMCode
	Program  []byte // placed at Entry
	Entry    uint16 // defaults to 0x0150
	Corrupt  bool   // stores a wrong header checksum
	Contents func(rom []byte)
}

// Build returns the cartridge image described by r, with a valid
// header checksum unless r.Corrupt is set. The entry point at 0x0100
// jumps to r.Entry.
func (r ROM) Build() []byte {
	banks := r.Banks
	if banks == 0 {
		banks = 2 << r.ROMCode
	}
	entry := r.Entry
	if entry == 0 {
		entry = 0x0150
	}

	rom := make([]byte, banks*0x4000)
	if r.Contents != nil {
		r.Contents(rom)
	}

	// NOP; JP entry
	copy(rom[0x0100:], []byte{0x00, 0xC3, uint8(entry), uint8(entry >> 8)})
	copy(rom[0x0104:0x0134], Logo[:])
	title := make([]byte, 11)
	copy(title, r.Title)
	copy(rom[0x0134:0x013F], title)
	rom[0x0143] = r.CGBFlag
	rom[0x0147] = r.Type
	rom[0x0148] = r.ROMCode
	rom[0x0149] = r.RAMCode
	rom[0x014A] = 0x01
	rom[0x014D] = utils.Checksum(rom, 0x0134, 0x014C)
	if r.Corrupt {
		rom[0x014D]++
	}
	copy(rom[entry:], r.Program)

	return rom
}

// Logo is the Nintendo logo bitmap found at 0x0104-0x0133.
var Logo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83,
	0x00, 0x0C, 0x00, 0x0D, 0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99, 0xBB, 0xBB, 0x67, 0x63,
	0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// BootChecksum is the checksum every boot ROM image must produce.
const BootChecksum = 0x92

// BootROM returns a 256 byte boot ROM image starting with program,
// padded with NOPs, whose last byte is adjusted so the image passes
// checksum validation.
func BootROM(program []byte) []byte {
	boot := make([]byte, 256)
	copy(boot, program)
	boot[255] = 0
	boot[255] = utils.Checksum(boot, 0, 255) - BootChecksum
	return boot
}
