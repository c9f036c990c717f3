// Package interrupts provides the interrupt controller of the CPU,
// holding the IF and IE registers, and the interrupt master enable.
package interrupts

import (
	"github.com/thelolagemann/dmgl/internal/types"
)

// Source is the index of an interrupt source, in priority order.
// The service routine of a source is found at 0x0040 + 8*Source.
type Source = uint8

const (
	// VBlank is requested every time the PPU enters VBlank mode.
	VBlank Source = iota
	// LCD is requested by the LCD STAT register when certain
	// conditions are met.
	LCD
	// Timer is requested when the timer overflows.
	Timer
	// Serial is requested when a serial transfer is completed.
	Serial
	// Joypad is requested when any of the selected buttons go
	// from high to low. It is the only source that wakes the
	// CPU from STOP.
	Joypad

	// Count is the number of interrupt sources.
	Count
)

const (
	VBlankFlag = types.Bit0
	LCDFlag    = types.Bit1
	TimerFlag  = types.Bit2
	SerialFlag = types.Bit3
	JoypadFlag = types.Bit4

	// mask covers the implemented bits of IF and IE.
	mask = 0x1F
	// unused are the bits of IF that always read as set.
	unused = 0xE0
)

// Flag returns the IF/IE bit of the given source.
func Flag(source Source) uint8 {
	return 1 << source
}

// Service is the interrupt service, used to request
// interrupts and to get the current interrupt vector.
//
// When an interrupt is requested, the corresponding bit
// in the Flag register is set. When an interrupt is
// enabled, the corresponding bit in the Enable register
// is set. When an interrupt is requested and enabled,
// and the IME is set, the CPU will jump to the interrupt
// vector, and the corresponding bit in the Flag register
// will be cleared.
//
// The IME is set by the EI and RETI instructions, and
// cleared by the DI instruction and by the dispatch of an
// interrupt. EI takes effect after the following
// instruction.
type Service struct {
	Flag   uint8 // interrupt Flag (types.IF)
	Enable uint8 // interrupt Enable (types.IE)
	IME    bool  // interrupt master enable

	enabling uint8 // fetches remaining until EI takes effect
}

// NewService returns a new Service with no requested interrupts.
func NewService() *Service {
	return &Service{Flag: unused}
}

// Pending returns the interrupts that are both requested and
// enabled, regardless of the IME.
func (s *Service) Pending() uint8 {
	return s.Flag & s.Enable & mask
}

// Request requests the given interrupt source.
func (s *Service) Request(source Source) {
	s.Flag |= Flag(source)
}

// WriteFlag writes the IF register. The upper 3 bits are always set.
func (s *Service) WriteFlag(value uint8) {
	s.Flag = value | unused
}

// EnableDelayed arms the IME to be set on the second fetch from
// now, so that the instruction following EI runs first.
func (s *Service) EnableDelayed() {
	s.enabling = 2
}

// Enabling returns true if an EI is waiting to take effect.
func (s *Service) Enabling() bool {
	return s.enabling != 0
}

// Disable clears the IME, cancelling a pending EI.
func (s *Service) Disable() {
	s.IME = false
	s.enabling = 0
}

// Fetched advances a pending EI, and is called on every opcode fetch.
func (s *Service) Fetched() {
	if s.enabling > 0 {
		s.enabling--
		if s.enabling == 0 {
			s.IME = true
		}
	}
}

// Vector returns the vector of the highest priority pending
// interrupt, or 0 if none is pending. The IF bit of the
// serviced interrupt is cleared, as is the IME.
func (s *Service) Vector() (uint16, Source, bool) {
	s.IME = false
	pending := s.Pending()
	for i := Source(0); i < Count; i++ {
		// check if the interrupt is requested and enabled
		if pending&Flag(i) != 0 {
			// clear the interrupt flag and return the vector
			s.Flag &^= Flag(i)
			return 0x0040 + uint16(i)*8, i, true
		}
	}

	return 0, 0, false
}

// Reset clears every request, enable and the IME.
func (s *Service) Reset() {
	*s = Service{Flag: unused}
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Flag (uint8)
//   - Enable (uint8)
//   - IME (bool)
//   - enabling (uint8)
func (s *Service) Load(st *types.State) {
	s.Flag = st.Read8()
	s.Enable = st.Read8()
	s.IME = st.ReadBool()
	s.enabling = st.Read8()
}

// Save implements the types.Stater interface.
func (s *Service) Save(st *types.State) {
	st.Write8(s.Flag)
	st.Write8(s.Enable)
	st.WriteBool(s.IME)
	st.Write8(s.enabling)
}
