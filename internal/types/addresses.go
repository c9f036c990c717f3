package types

// HardwareAddress represents the address of a hardware
// register of the Game Boy that is handled by a component
// other than plain memory.
type HardwareAddress = uint16

const (
	// IF is the address of the IF hardware register. The IF
	// hardware register is used to request interrupts. Writing a 1
	// to a bit in IF requests an interrupt, and writing a 0 clears
	// the request. The upper 3 bits always read back as 1.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F
	// BDIS is the address of the BDIS hardware register. Writing
	// any value to BDIS unmaps the boot ROM, which can not be
	// mapped again until the next power cycle.
	BDIS HardwareAddress = 0xFF50
	// IE is the address of the IE hardware register. Each bit
	// of IE enables the interrupt of the same bit in IF.
	IE HardwareAddress = 0xFFFF
)

const (
	Bit0 = 1 << iota // 0b0000_0001
	Bit1             // 0b0000_0010
	Bit2             // 0b0000_0100
	Bit3             // 0b0000_1000
	Bit4             // 0b0001_0000
	Bit5             // 0b0010_0000
	Bit6             // 0b0100_0000
	Bit7             // 0b1000_0000
)

// Region describes an inclusive range of the 16-bit address space.
type Region struct {
	Start, End uint16
}

// Contains returns true if the address falls within the region.
func (r Region) Contains(address uint16) bool {
	return address >= r.Start && address <= r.End
}

// Size returns the number of addressable bytes in the region.
func (r Region) Size() int {
	return int(r.End-r.Start) + 1
}

var (
	// BootROMRegion is overlaid by the boot ROM until BDIS is written.
	BootROMRegion = Region{0x0000, 0x00FF}
	// ROMBank0Region is the fixed cartridge ROM bank.
	ROMBank0Region = Region{0x0000, 0x3FFF}
	// ROMBankNRegion is the switchable cartridge ROM bank.
	ROMBankNRegion = Region{0x4000, 0x7FFF}
	// VideoRAMRegion is the 8 KiB of video RAM.
	VideoRAMRegion = Region{0x8000, 0x9FFF}
	// ExternalRAMRegion is the cartridge RAM window.
	ExternalRAMRegion = Region{0xA000, 0xBFFF}
	// WorkRAMRegion is the 8 KiB of work RAM.
	WorkRAMRegion = Region{0xC000, 0xDFFF}
	// EchoRAMRegion mirrors WorkRAMRegion.
	EchoRAMRegion = Region{0xE000, 0xFDFF}
	// SpriteRAMRegion is the object attribute memory.
	SpriteRAMRegion = Region{0xFE00, 0xFE9F}
	// HighRAMRegion is the zero page RAM.
	HighRAMRegion = Region{0xFF80, 0xFFFE}
)
