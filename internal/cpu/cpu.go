// Package cpu provides the Sharp LR35902 CPU of the Game Boy. The CPU
// is clocked once per oscillator tick, and performs one machine cycle
// of work every 4 ticks: either a step of the current instruction, or
// a step of the interrupt service sequence.
package cpu

import (
	"fmt"

	"github.com/thelolagemann/dmgl/internal/interrupts"
	"github.com/thelolagemann/dmgl/internal/types"
)

const (
	// ClockSpeed is the clock speed of the CPU.
	ClockSpeed = 4194304
	// TicksPerCycle is the number of oscillator ticks per machine cycle.
	TicksPerCycle = 4
)

// Bus is the interface that the CPU uses to access memory. Reads and
// writes of types.IF and types.IE are expected to be routed back to
// CPU.Read and CPU.Write.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU represents the Game Boy CPU. It is responsible for executing
// instructions and servicing interrupts.
type CPU struct {
	// Registers contains the 16-bit register pairs.
	Registers

	bus Bus
	irq *interrupts.Service

	// cycle counts the ticks of the current machine cycle, work is
	// performed when it reaches 3
	cycle uint8

	halt struct {
		bug     bool // the next fetch does not advance PC
		enabled bool
	}
	stop struct {
		code    uint8 // the byte following STOP
		enabled bool
	}
	instruction struct {
		address  uint16 // address the opcode was fetched from
		operand  uint16 // scratch value carried between steps
		opcode   uint8
		cycle    uint8 // machine cycles elapsed in the current instruction
		extended bool  // CB prefixed
	}
	dispatch struct {
		address uint16 // vector of the serviced interrupt
		cycle   uint8  // machine cycles elapsed in the service sequence
	}

	// latched by Initialize for Reset
	checksum      uint8
	hasBootloader bool

	err error
}

// NewCPU creates a new CPU attached to the given bus. The CPU must be
// initialized before being clocked.
func NewCPU(bus Bus) *CPU {
	return &CPU{
		bus: bus,
		irq: interrupts.NewService(),
	}
}

// Initialize puts the CPU in its power-on state. Without a boot ROM
// the registers are preset to the values the boot ROM would leave
// behind, where the half carry and carry flags depend on the header
// checksum of the cartridge.
func (c *CPU) Initialize(hasBootloader bool, checksum uint8) {
	c.hasBootloader = hasBootloader
	c.checksum = checksum
	c.Reset()
}

// Reset re-applies the power-on state latched by Initialize. The CPU
// starts with a NOP latched, so the first machine cycle fetches the
// opcode at PC.
func (c *CPU) Reset() {
	c.Registers = Registers{}
	c.irq.Reset()
	c.halt.bug, c.halt.enabled = false, false
	c.stop.code, c.stop.enabled = 0, false
	c.instruction.address, c.instruction.operand = 0, 0
	c.instruction.opcode, c.instruction.cycle, c.instruction.extended = 0x00, 0, false
	c.dispatch.address, c.dispatch.cycle = 0, 0
	c.err = nil

	if !c.hasBootloader {
		c.AF.SetHigh(0x01)
		c.AF.SetFlag(FlagZero, true)
		c.AF.SetFlag(FlagHalfCarry, c.checksum != 0)
		c.AF.SetFlag(FlagCarry, c.checksum != 0)
		c.BC.SetWord(0x0013)
		c.DE.SetWord(0x00D8)
		c.HL.SetWord(0x014D)
		c.PC.SetWord(0x0100)
		c.SP.SetWord(0xFFFE)
		c.irq.WriteFlag(interrupts.VBlankFlag)
	}

	c.cycle = 3
}

// Close detaches the CPU from the bus and zeroes its state.
func (c *CPU) Close() {
	*c = CPU{irq: interrupts.NewService()}
}

// Clock advances the CPU by a single oscillator tick. Once a fault has
// occurred, it is returned by every subsequent call.
func (c *CPU) Clock() error {
	if c.err != nil {
		return c.err
	}

	if c.cycle != 3 {
		c.cycle++
		return nil
	}
	c.cycle = 0
	c.step()

	return c.err
}

// Interrupts returns the interrupt service of the CPU.
func (c *CPU) Interrupts() *interrupts.Service {
	return c.irq
}

// Halted returns true if the CPU is waiting in HALT.
func (c *CPU) Halted() bool {
	return c.halt.enabled
}

// Stopped returns true if the CPU is waiting in STOP.
func (c *CPU) Stopped() bool {
	return c.stop.enabled
}

// Read reads the IF and IE registers, any other address reads 0.
func (c *CPU) Read(address uint16) uint8 {
	switch address {
	case types.IF:
		return c.irq.Flag
	case types.IE:
		return c.irq.Enable
	}
	return 0
}

// Write writes the IF and IE registers, any other address is ignored.
func (c *CPU) Write(address uint16, value uint8) {
	switch address {
	case types.IF:
		c.irq.WriteFlag(value)
	case types.IE:
		c.irq.Enable = value
	}
}

// step performs a single machine cycle of work.
func (c *CPU) step() {
	pending := c.irq.Pending()

	// any pending interrupt wakes the CPU from HALT, even with the IME
	// clear, whereas only the joypad wakes it from STOP
	if c.halt.enabled && pending != 0 {
		c.halt.enabled = false
	}
	if c.stop.enabled && pending&interrupts.JoypadFlag != 0 {
		c.stop.enabled = false
	}

	if c.instruction.cycle == 0 {
		if (c.irq.IME && pending != 0) || c.dispatch.cycle != 0 {
			c.interrupt()
			return
		}
		if c.halt.enabled || c.stop.enabled {
			return
		}
	}

	c.execute()
}

// execute performs a single step of the latched instruction, fetching
// the next opcode once the instruction has completed.
func (c *CPU) execute() {
	var more bool
	if c.instruction.extended && c.instruction.cycle > 0 {
		more = InstructionSetCB[c.instruction.opcode].fn(c, c.instruction.cycle-1)
	} else {
		more = InstructionSet[c.instruction.opcode].fn(c, c.instruction.cycle)
	}
	if c.err != nil {
		return
	}

	if more {
		c.instruction.cycle++
		return
	}
	c.fetch()
}

// fetch latches the opcode at PC as the next instruction.
func (c *CPU) fetch() {
	c.instruction.address = c.PC.Word()
	c.instruction.opcode = c.readOperand()
	c.instruction.extended = c.instruction.opcode == 0xCB
	c.instruction.operand = 0
	c.instruction.cycle = 0

	if c.halt.bug {
		c.PC.SetWord(c.PC.Word() - 1)
		c.halt.bug = false
	}
	c.irq.Fetched()
}

// interrupt performs a single step of the interrupt service sequence.
func (c *CPU) interrupt() {
	switch c.dispatch.cycle {
	case 0:
		c.halt.enabled = false
		if c.irq.Pending()&interrupts.JoypadFlag != 0 {
			c.stop.enabled = false
		}
		// the opcode fetched at the end of the last instruction is
		// discarded, so that it is returned to
		c.PC.SetWord(c.PC.Word() - 1)
	case 1:
		c.dispatch.address, _, _ = c.irq.Vector()
	case 2:
		c.push(c.PC.High())
	case 3:
		c.push(c.PC.Low())
	case 4:
		c.PC.SetWord(c.dispatch.address)
		c.dispatch.cycle = 0
		c.fetch()
		return
	}
	c.dispatch.cycle++
}

// readOperand reads the byte at PC and increments PC.
func (c *CPU) readOperand() uint8 {
	value := c.bus.Read(c.PC.Word())
	c.PC.SetWord(c.PC.Word() + 1)
	return value
}

// readByte reads a byte from memory.
func (c *CPU) readByte(address uint16) uint8 {
	return c.bus.Read(address)
}

// writeByte writes the given value to the given address.
func (c *CPU) writeByte(address uint16, value uint8) {
	c.bus.Write(address, value)
}

// push decrements SP and writes the value to the top of the stack.
func (c *CPU) push(value uint8) {
	c.SP.SetWord(c.SP.Word() - 1)
	c.bus.Write(c.SP.Word(), value)
}

// pop reads the value at the top of the stack and increments SP.
func (c *CPU) pop() uint8 {
	value := c.bus.Read(c.SP.Word())
	c.SP.SetWord(c.SP.Word() + 1)
	return value
}

// String returns the register file, and the instruction being executed.
func (c *CPU) String() string {
	name := InstructionSet[c.instruction.opcode].name
	if c.instruction.extended && c.instruction.cycle > 0 {
		name = InstructionSetCB[c.instruction.opcode].name
	}
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X IF=%02X IE=%02X IME=%t | %04X %s",
		c.AF.Word(), c.BC.Word(), c.DE.Word(), c.HL.Word(), c.SP.Word(), c.PC.Word(),
		c.irq.Flag, c.irq.Enable, c.irq.IME, c.instruction.address, name)
}

var _ types.Stater = (*CPU)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Registers (AF, BC, DE, HL, PC, SP)
//   - Machine cycle phase
//   - Halt, stop, instruction and dispatch state
//   - Interrupt service
func (c *CPU) Load(s *types.State) {
	c.AF.SetWord(s.Read16())
	c.BC.SetWord(s.Read16())
	c.DE.SetWord(s.Read16())
	c.HL.SetWord(s.Read16())
	c.PC.SetWord(s.Read16())
	c.SP.SetWord(s.Read16())
	c.cycle = s.Read8() & 3
	c.halt.bug = s.ReadBool()
	c.halt.enabled = s.ReadBool()
	c.stop.code = s.Read8()
	c.stop.enabled = s.ReadBool()
	c.instruction.address = s.Read16()
	c.instruction.operand = s.Read16()
	c.instruction.opcode = s.Read8()
	c.instruction.cycle = s.Read8()
	c.instruction.extended = s.ReadBool()
	c.dispatch.address = s.Read16()
	c.dispatch.cycle = s.Read8()
	c.irq.Load(s)
	c.err = nil
}

// Save implements the types.Stater interface.
func (c *CPU) Save(s *types.State) {
	s.Write16(c.AF.Word())
	s.Write16(c.BC.Word())
	s.Write16(c.DE.Word())
	s.Write16(c.HL.Word())
	s.Write16(c.PC.Word())
	s.Write16(c.SP.Word())
	s.Write8(c.cycle)
	s.WriteBool(c.halt.bug)
	s.WriteBool(c.halt.enabled)
	s.Write8(c.stop.code)
	s.WriteBool(c.stop.enabled)
	s.Write16(c.instruction.address)
	s.Write16(c.instruction.operand)
	s.Write8(c.instruction.opcode)
	s.Write8(c.instruction.cycle)
	s.WriteBool(c.instruction.extended)
	s.Write16(c.dispatch.address)
	s.Write8(c.dispatch.cycle)
	c.irq.Save(s)
}
