package cartridge

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// HeaderStart is the offset of the header in the ROM image.
	HeaderStart = 0x0100
	// HeaderEnd is the offset after the last byte of the header.
	HeaderEnd = 0x0150

	// checksumStart and checksumEnd are the inclusive bounds of the
	// bytes covered by the header checksum.
	checksumStart = 0x0134
	checksumEnd   = 0x014C
)

// Type represents the hardware present in a Cartridge, as declared
// by header byte 0x0147.
type Type uint8

const (
	ROM Type = 0x00 // ROM only, no memory bank controller
)

func (t Type) String() string {
	switch t {
	case ROM:
		return "ROM"
	}
	return fmt.Sprintf("Type(%02X)", uint8(t))
}

// Header represents the header of a cartridge, each cartridge has a header and is
// located at the address space 0x0100-0x014F. The header contains information about
// the cartridge itself, and the hardware it expects to run on.
//
// credits: https://gbdev.io/pandocs/The_Cartridge_Header.html
type Header struct {
	Entry            [4]byte  // $0100-$0103 entry point, usually NOP; JP $0150
	Logo             [48]byte // $0104-$0133 Nintendo logo bitmap
	Title            string   // $0134-$013E title of the game in uppercase ASCII
	ManufacturerCode string   // $013F-$0142 4-character manufacturer code
	CGBFlag          uint8    // $0143 level of CGB support, 0xC0 is CGB only
	NewLicenseeCode  string   // $0144-$0145 2-character ASCII licensee code
	SGBFlag          uint8    // $0146 0x03 when the game supports SGB functions
	CartridgeType    Type     // $0147 hardware present on the cartridge
	ROMCode          uint8    // $0148 ROM size code, 32 KiB x (1<<value)
	RAMCode          uint8    // $0149 RAM size code
	DestinationCode  uint8    // $014A 0x00 Japan, 0x01 elsewhere
	OldLicenseeCode  uint8    // $014B publisher, see NewLicenseeCode if 0x33
	MaskROMVersion   uint8    // $014C version of the game, usually 0x00
	HeaderChecksum   uint8    // $014D 8-bit checksum of bytes $0134-$014C
	GlobalChecksum   uint16   // $014E-$014F 16-bit (big endian) checksum of the ROM
}

// ParseHeader parses the header from the given ROM image, which
// must be at least HeaderEnd bytes long.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < HeaderEnd {
		return Header{}, fmt.Errorf("%w -- %d bytes, header requires %d", ErrLength, len(rom), HeaderEnd)
	}

	h := Header{
		Title:            strings.TrimRight(string(rom[0x0134:0x013F]), "\x00"),
		ManufacturerCode: string(rom[0x013F:0x0143]),
		CGBFlag:          rom[0x0143],
		NewLicenseeCode:  string(rom[0x0144:0x0146]),
		SGBFlag:          rom[0x0146],
		CartridgeType:    Type(rom[0x0147]),
		ROMCode:          rom[0x0148],
		RAMCode:          rom[0x0149],
		DestinationCode:  rom[0x014A],
		OldLicenseeCode:  rom[0x014B],
		MaskROMVersion:   rom[0x014C],
		HeaderChecksum:   rom[0x014D],
		GlobalChecksum:   binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}
	copy(h.Entry[:], rom[0x0100:0x0104])
	copy(h.Logo[:], rom[0x0104:0x0134])

	return h, nil
}

// CGBOnly returns true if the cartridge refuses to run on a DMG.
func (h Header) CGBOnly() bool {
	return h.CGBFlag&0xC0 == 0xC0
}

// Destination returns the region the cartridge was sold in.
func (h Header) Destination() string {
	if h.DestinationCode == 0x00 {
		return "Japanese"
	}
	return "Non-Japanese"
}

func (h Header) String() string {
	return fmt.Sprintf("%s | %s | %d ROM banks | %d RAM banks | %s", h.Title, h.CartridgeType, romBanks(h.ROMCode), ramBanks(h.RAMCode), h.Destination())
}

// romBanks returns the number of 16 KiB ROM banks for the code, or
// 0 if the code is unsupported.
func romBanks(code uint8) int {
	if int(code) >= len(romCount) {
		return 0
	}
	return romCount[code]
}

// ramBanks returns the number of 8 KiB RAM banks for the code, or
// 0 if the code is unsupported.
func ramBanks(code uint8) int {
	if int(code) >= len(ramCount) {
		return 0
	}
	return ramCount[code]
}
