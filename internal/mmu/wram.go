package mmu

import "github.com/thelolagemann/dmgl/internal/types"

// WRAM is the 8kB of work RAM found at 0xC000 - 0xDFFF. The echo
// region at 0xE000 - 0xFDFF mirrors the same storage.
type WRAM struct {
	raw [0x2000]uint8
}

// NewWRAM returns a new zeroed WRAM.
func NewWRAM() *WRAM {
	return &WRAM{}
}

// offset maps a work or echo RAM address to the backing storage.
func offset(addr uint16) uint16 {
	if types.EchoRAMRegion.Contains(addr) {
		return addr - types.EchoRAMRegion.Start
	}
	return addr - types.WorkRAMRegion.Start
}

func (w *WRAM) Read(addr uint16) uint8 {
	return w.raw[offset(addr)]
}

func (w *WRAM) Write(addr uint16, v uint8) {
	w.raw[offset(addr)] = v
}

func (w *WRAM) Reset() {
	w.raw = [0x2000]uint8{}
}

func (w *WRAM) Load(s *types.State) {
	s.ReadData(w.raw[:])
}

func (w *WRAM) Save(s *types.State) {
	s.WriteData(w.raw[:])
}
