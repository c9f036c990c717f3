package cpu

import "fmt"

// The CB table is fully regular, every opcode encodes an operation in
// bits 3-7 and an operand in bits 0-2 (B, C, D, E, H, L, (HL), A).
// Steps are counted from the machine cycle after the 0xCB prefix
// fetched the opcode.
func init() {
	generateShiftInstructions()
	generateBitInstructions()
}

func generateShiftInstructions() {
	// 0x00 - 0x3F - RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL
	for i := uint8(0); i < 8; i++ {
		op := shiftOperations[i]
		for j := uint8(0); j < 8; j++ {
			r := j
			opcode := i<<3 | r
			name := fmt.Sprintf("%s %s", op.name, registerNames[r])

			// (HL) needs to be handled differently as it is a memory address
			if r == 6 {
				DefineInstructionCB(opcode, name, readModifyWrite(op.fn))
				continue
			}
			DefineInstructionCB(opcode, name, func(c *CPU, step uint8) bool {
				c.setRegister(r, op.fn(c, c.register(r)))
				return false
			})
		}
	}
}

func generateBitInstructions() {
	for b := uint8(0); b < 8; b++ {
		bit := b
		for j := uint8(0); j < 8; j++ {
			r := j

			// 0x40 - 0x7F - BIT b, r
			if r == 6 {
				DefineInstructionCB(0x40|bit<<3|r, fmt.Sprintf("BIT %d, (HL)", bit), func(c *CPU, step uint8) bool {
					if step == 0 {
						c.instruction.operand = uint16(c.readByte(c.HL.Word()))
						return true
					}
					c.testBit(c.operand8(), bit)
					return false
				})
			} else {
				DefineInstructionCB(0x40|bit<<3|r, fmt.Sprintf("BIT %d, %s", bit, registerNames[r]), func(c *CPU, step uint8) bool {
					c.testBit(c.register(r), bit)
					return false
				})
			}

			// 0x80 - 0xBF - RES b, r
			// 0xC0 - 0xFF - SET b, r
			for _, set := range []bool{false, true} {
				set := set
				opcode, name := uint8(0x80), "RES"
				if set {
					opcode, name = 0xC0, "SET"
				}
				opcode |= bit<<3 | r
				name = fmt.Sprintf("%s %d, %s", name, bit, registerNames[r])

				modify := func(c *CPU, n uint8) uint8 {
					if set {
						return n | 1<<bit
					}
					return n &^ (1 << bit)
				}
				if r == 6 {
					DefineInstructionCB(opcode, name, readModifyWrite(modify))
					continue
				}
				DefineInstructionCB(opcode, name, func(c *CPU, step uint8) bool {
					c.setRegister(r, modify(c, c.register(r)))
					return false
				})
			}
		}
	}
}
