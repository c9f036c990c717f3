package cpu

import "fmt"

// Instruction represents a single instruction of the CPU.
//
// fn is called once for every machine cycle of the instruction, with
// step being the number of machine cycles already elapsed, and reports
// whether the instruction has more work to perform. The opcode of the
// next instruction is fetched as part of the last step.
type Instruction struct {
	name string                        // name of the instruction
	fn   func(c *CPU, step uint8) bool // fn called when executing the instruction
}

// Name returns the mnemonic of the instruction.
func (i Instruction) Name() string {
	return i.name
}

// InstructionSet holds the first 256 instructions.
var InstructionSet [256]Instruction

// InstructionSetCB holds the 256 instructions prefixed by 0xCB.
var InstructionSetCB [256]Instruction

// DefineInstruction defines the instruction in the InstructionSet,
// with the provided opcode.
func DefineInstruction(opcode uint8, name string, fn func(c *CPU, step uint8) bool) {
	InstructionSet[opcode] = Instruction{name: name, fn: fn}
}

// DefineInstructionCB defines the instruction in the
// InstructionSetCB, with the provided opcode.
func DefineInstructionCB(opcode uint8, name string, fn func(c *CPU, step uint8) bool) {
	InstructionSetCB[opcode] = Instruction{name: name, fn: fn}
}

// IllegalOpcodeError is returned by CPU.Clock once one of the
// undefined opcodes has been executed.
type IllegalOpcodeError struct {
	Opcode  uint8
	Address uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode %02X at %04X", e.Opcode, e.Address)
}

// disallowedOpcodes are the opcodes that have no instruction. On
// hardware, executing any of them locks the CPU up.
var disallowedOpcodes = []uint8{
	0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD,
}

func disallowedOpcode(c *CPU, _ uint8) bool {
	c.err = &IllegalOpcodeError{Opcode: c.instruction.opcode, Address: c.instruction.address}
	return false
}

// condition returns the outcome of the given cc encoded condition.
func (c *CPU) condition(index uint8) bool {
	switch index {
	case 0:
		return !c.AF.Zero()
	case 1:
		return c.AF.Zero()
	case 2:
		return !c.AF.Carry()
	}
	return c.AF.Carry()
}

var conditionNames = [4]string{"NZ", "Z", "NC", "C"}

// readLow reads the low byte of an immediate word into the operand.
func (c *CPU) readLow() {
	c.instruction.operand = uint16(c.readOperand())
}

// readHigh reads the high byte of an immediate word into the operand.
func (c *CPU) readHigh() {
	c.instruction.operand |= uint16(c.readOperand()) << 8
}

// operand8 returns the low byte of the operand.
func (c *CPU) operand8() uint8 {
	return uint8(c.instruction.operand)
}

// relative adds the signed 8-bit operand to PC.
func (c *CPU) relative() {
	c.PC.SetWord(c.PC.Word() + uint16(int8(c.operand8())))
}

// indirect returns the address of the (rr) encoded operand, applying
// the post increment or decrement of (HL+) and (HL-).
func (c *CPU) indirect(index uint8) uint16 {
	switch index {
	case 0:
		return c.BC.Word()
	case 1:
		return c.DE.Word()
	}
	hl := c.HL.Word()
	if index == 2 {
		c.HL.SetWord(hl + 1)
	} else {
		c.HL.SetWord(hl - 1)
	}
	return hl
}

var indirectNames = [4]string{"(BC)", "(DE)", "(HL+)", "(HL-)"}
