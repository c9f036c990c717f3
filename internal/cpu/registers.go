package cpu

import "github.com/thelolagemann/dmgl/pkg/bits"

// Register is a 16-bit register pair, which can be accessed as a
// whole word, or as its high and low 8-bit halves. Writing one half
// never disturbs the other.
type Register uint16

// Word returns the full 16-bit value of the register.
func (r Register) Word() uint16 {
	return uint16(r)
}

// SetWord sets the full 16-bit value of the register.
func (r *Register) SetWord(value uint16) {
	*r = Register(value)
}

// High returns the upper 8 bits of the register.
func (r Register) High() uint8 {
	high, _ := bits.Split(uint16(r))
	return high
}

// SetHigh sets the upper 8 bits of the register.
func (r *Register) SetHigh(value uint8) {
	*r = Register(bits.Join(value, r.Low()))
}

// Low returns the lower 8 bits of the register.
func (r Register) Low() uint8 {
	_, low := bits.Split(uint16(r))
	return low
}

// SetLow sets the lower 8 bits of the register.
func (r *Register) SetLow(value uint8) {
	*r = Register(bits.Join(r.High(), value))
}

// Flag is the bit position of a flag in the F register.
type Flag = uint8

const (
	FlagZero      Flag = 7
	FlagSubtract  Flag = 6
	FlagHalfCarry Flag = 5
	FlagCarry     Flag = 4
)

// AF is the accumulator and flags register pair. The lower nibble
// of F is not implemented and always reads as zero.
type AF struct {
	Register
}

// SetWord sets A and F, masking away the unimplemented bits of F.
func (r *AF) SetWord(value uint16) {
	r.Register.SetWord(value & 0xFFF0)
}

// SetLow sets F, masking away its unimplemented bits.
func (r *AF) SetLow(value uint8) {
	r.Register.SetLow(value & 0xF0)
}

// Flag returns true if the given flag is set.
func (r AF) Flag(flag Flag) bool {
	return bits.Test(r.Low(), flag)
}

// SetFlag sets or clears the given flag.
func (r *AF) SetFlag(flag Flag, value bool) {
	r.Register.SetLow(bits.Assign(r.Low(), flag, value))
}

func (r AF) Zero() bool      { return r.Flag(FlagZero) }
func (r AF) Subtract() bool  { return r.Flag(FlagSubtract) }
func (r AF) HalfCarry() bool { return r.Flag(FlagHalfCarry) }
func (r AF) Carry() bool     { return r.Flag(FlagCarry) }

// Registers is the register file of the CPU.
type Registers struct {
	AF AF
	BC Register
	DE Register
	HL Register
	PC Register // PC is the program counter, it points to the next byte to be fetched
	SP Register // SP is the stack pointer, it points to the top of the stack
}

// registerNames holds the names of the 8-bit operands in encoding
// order, as used by the register indexed opcodes.
var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// register returns the 8-bit register at the given encoding index.
// Index 6, which encodes (HL), is handled by the callers.
func (r *Registers) register(index uint8) uint8 {
	switch index {
	case 0:
		return r.BC.High()
	case 1:
		return r.BC.Low()
	case 2:
		return r.DE.High()
	case 3:
		return r.DE.Low()
	case 4:
		return r.HL.High()
	case 5:
		return r.HL.Low()
	case 7:
		return r.AF.High()
	}
	panic("cpu: register index 6 encodes (HL)")
}

// setRegister sets the 8-bit register at the given encoding index.
func (r *Registers) setRegister(index uint8, value uint8) {
	switch index {
	case 0:
		r.BC.SetHigh(value)
	case 1:
		r.BC.SetLow(value)
	case 2:
		r.DE.SetHigh(value)
	case 3:
		r.DE.SetLow(value)
	case 4:
		r.HL.SetHigh(value)
	case 5:
		r.HL.SetLow(value)
	case 7:
		r.AF.SetHigh(value)
	default:
		panic("cpu: register index 6 encodes (HL)")
	}
}

// pairNames holds register pair names for the rr encoded opcodes.
var pairNames = [4]string{"BC", "DE", "HL", "SP"}

// pair returns the register pair at the given rr encoding index.
func (r *Registers) pair(index uint8) *Register {
	switch index {
	case 0:
		return &r.BC
	case 1:
		return &r.DE
	case 2:
		return &r.HL
	}
	return &r.SP
}
