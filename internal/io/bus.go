// Package io provides the system bus of the Game Boy, connecting the
// CPU to the MMU and pacing the emulation in frames.
package io

import (
	"github.com/thelolagemann/dmgl/internal/cpu"
	"github.com/thelolagemann/dmgl/internal/interrupts"
	"github.com/thelolagemann/dmgl/internal/mmu"
	"github.com/thelolagemann/dmgl/internal/types"
)

// CyclesPerFrame is the number of oscillator ticks per frame, at a
// target rate of 60 frames per second.
const CyclesPerFrame = cpu.ClockSpeed / 60

// Status is the outcome of a single Bus.Clock.
type Status uint8

const (
	// StatusSuccess is returned for every tick within a frame.
	StatusSuccess Status = iota
	// StatusFrameComplete is returned on the last tick of a frame, the
	// caller may present the frame and poll input before continuing.
	StatusFrameComplete
	// StatusFailure is returned once the CPU has faulted.
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFrameComplete:
		return "frame complete"
	case StatusFailure:
		return "failure"
	}
	return "unknown"
}

// Bus routes the memory accesses of the CPU. The interrupt registers
// are owned by the CPU, everything else is decoded by the MMU.
type Bus struct {
	cpu *cpu.CPU
	mmu *mmu.MMU

	// ticks elapsed in the current frame
	ticks uint32
}

// NewBus validates the given boot ROM (which may be nil) and
// cartridge images, and returns a Bus with the CPU in its power-on
// state.
func NewBus(bootROM, rom []byte) (*Bus, error) {
	m, err := mmu.NewMMU(bootROM, rom)
	if err != nil {
		return nil, err
	}

	b := &Bus{mmu: m}
	b.cpu = cpu.NewCPU(b)
	b.cpu.Initialize(m.HasBootloader(), m.Checksum())

	return b, nil
}

// Read reads the value at the given address.
func (b *Bus) Read(address uint16) uint8 {
	switch address {
	case types.IF, types.IE:
		return b.cpu.Read(address)
	}
	return b.mmu.Read(address)
}

// Write writes the value to the given address.
func (b *Bus) Write(address uint16, value uint8) {
	switch address {
	case types.IF, types.IE:
		b.cpu.Write(address, value)
		return
	}
	b.mmu.Write(address, value)
}

// Interrupt requests the interrupt of the given source, by setting its
// bit in the IF register.
func (b *Bus) Interrupt(source interrupts.Source) {
	b.Write(types.IF, b.Read(types.IF)|interrupts.Flag(source))
}

// Clock advances the system by a single oscillator tick.
func (b *Bus) Clock() (Status, error) {
	if err := b.cpu.Clock(); err != nil {
		return StatusFailure, err
	}

	b.ticks++
	if b.ticks == CyclesPerFrame {
		b.ticks = 0
		return StatusFrameComplete, nil
	}
	return StatusSuccess, nil
}

// CPU returns the CPU attached to the bus.
func (b *Bus) CPU() *cpu.CPU {
	return b.cpu
}

// MMU returns the MMU attached to the bus.
func (b *Bus) MMU() *mmu.MMU {
	return b.mmu
}

// Title returns the title of the cartridge.
func (b *Bus) Title() string {
	return b.mmu.Title()
}

// Reset puts the system back in its power-on state, keeping the
// loaded images.
func (b *Bus) Reset() {
	b.mmu.Reset()
	b.cpu.Reset()
	b.ticks = 0
}

// Close releases the images held by the bus. The bus must not be used
// afterwards.
func (b *Bus) Close() {
	b.cpu.Close()
	b.mmu.Close()
	b.ticks = 0
}

var _ types.Stater = (*Bus)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Ticks elapsed in the current frame
//   - CPU
//   - MMU
func (b *Bus) Load(s *types.State) {
	b.ticks = s.Read32() % CyclesPerFrame
	b.cpu.Load(s)
	b.mmu.Load(s)
}

// Save implements the types.Stater interface.
func (b *Bus) Save(s *types.State) {
	s.Write32(b.ticks)
	b.cpu.Save(s)
	b.mmu.Save(s)
}
