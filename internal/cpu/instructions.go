package cpu

import "fmt"

func init() {
	// 0x00 - NOP
	DefineInstruction(0x00, "NOP", func(c *CPU, step uint8) bool {
		return false
	})

	// 0x10 - STOP, the following byte is consumed
	DefineInstruction(0x10, "STOP", func(c *CPU, step uint8) bool {
		c.stop.code = c.readOperand()
		c.stop.enabled = true
		return false
	})

	// 0x76 - HALT
	DefineInstruction(0x76, "HALT", func(c *CPU, step uint8) bool {
		if !c.irq.IME && c.irq.Pending() != 0 {
			// HALT does not halt, and PC fails to advance past the
			// next opcode
			c.halt.bug = true
		} else {
			c.halt.enabled = true
		}
		return false
	})

	// 0xF3 - DI
	DefineInstruction(0xF3, "DI", func(c *CPU, step uint8) bool {
		c.irq.Disable()
		return false
	})

	// 0xFB - EI
	DefineInstruction(0xFB, "EI", func(c *CPU, step uint8) bool {
		c.irq.EnableDelayed()
		return false
	})

	// 0xCB - PREFIX CB, the second opcode is fetched and executed
	// from InstructionSetCB
	DefineInstruction(0xCB, "PREFIX CB", func(c *CPU, step uint8) bool {
		c.instruction.opcode = c.readOperand()
		return true
	})

	generateLoadInstructions()
	generateArithmeticInstructions()
	generateJumpInstructions()
	generateStackInstructions()
	generateMiscInstructions()

	for _, opcode := range disallowedOpcodes {
		DefineInstruction(opcode, fmt.Sprintf("disallowed opcode %02X", opcode), disallowedOpcode)
	}
}

func generateLoadInstructions() {
	for i := uint8(0); i < 4; i++ {
		rr := i

		// 0x01, 0x11, 0x21, 0x31 - LD rr, d16
		DefineInstruction(0x01+rr<<4, fmt.Sprintf("LD %s, d16", pairNames[rr]), func(c *CPU, step uint8) bool {
			switch step {
			case 0:
				c.readLow()
			case 1:
				c.readHigh()
			default:
				c.pair(rr).SetWord(c.instruction.operand)
				return false
			}
			return true
		})

		// 0x02, 0x12, 0x22, 0x32 - LD (rr), A
		DefineInstruction(0x02+rr<<4, fmt.Sprintf("LD %s, A", indirectNames[rr]), func(c *CPU, step uint8) bool {
			if step == 0 {
				c.writeByte(c.indirect(rr), c.AF.High())
				return true
			}
			return false
		})

		// 0x0A, 0x1A, 0x2A, 0x3A - LD A, (rr)
		DefineInstruction(0x0A+rr<<4, fmt.Sprintf("LD A, %s", indirectNames[rr]), func(c *CPU, step uint8) bool {
			if step == 0 {
				c.instruction.operand = uint16(c.readByte(c.indirect(rr)))
				return true
			}
			c.AF.SetHigh(c.operand8())
			return false
		})
	}

	for i := uint8(0); i < 8; i++ {
		r := i

		// 0x06, 0x0E, ..., 0x3E - LD r, d8
		if r == 6 {
			DefineInstruction(0x36, "LD (HL), d8", func(c *CPU, step uint8) bool {
				switch step {
				case 0:
					c.readLow()
				case 1:
					c.writeByte(c.HL.Word(), c.operand8())
				default:
					return false
				}
				return true
			})
		} else {
			DefineInstruction(0x06+r<<3, fmt.Sprintf("LD %s, d8", registerNames[r]), func(c *CPU, step uint8) bool {
				if step == 0 {
					c.readLow()
					return true
				}
				c.setRegister(r, c.operand8())
				return false
			})
		}

		// 0x40 - 0x7F - LD r, r' (with the exception of 0x76 - HALT)
		for j := uint8(0); j < 8; j++ {
			src := j
			opcode := 0x40 + r<<3 + src
			name := fmt.Sprintf("LD %s, %s", registerNames[r], registerNames[src])
			switch {
			case r == 6 && src == 6:
				continue
			case r == 6:
				DefineInstruction(opcode, name, func(c *CPU, step uint8) bool {
					if step == 0 {
						c.writeByte(c.HL.Word(), c.register(src))
						return true
					}
					return false
				})
			case src == 6:
				DefineInstruction(opcode, name, func(c *CPU, step uint8) bool {
					if step == 0 {
						c.instruction.operand = uint16(c.readByte(c.HL.Word()))
						return true
					}
					c.setRegister(r, c.operand8())
					return false
				})
			default:
				DefineInstruction(opcode, name, func(c *CPU, step uint8) bool {
					c.setRegister(r, c.register(src))
					return false
				})
			}
		}
	}

	// 0x08 - LD (a16), SP
	DefineInstruction(0x08, "LD (a16), SP", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.readHigh()
		case 2:
			c.writeByte(c.instruction.operand, c.SP.Low())
		case 3:
			c.writeByte(c.instruction.operand+1, c.SP.High())
		default:
			return false
		}
		return true
	})

	// 0xE0 - LDH (a8), A
	DefineInstruction(0xE0, "LDH (a8), A", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.writeByte(0xFF00+c.instruction.operand, c.AF.High())
		default:
			return false
		}
		return true
	})

	// 0xF0 - LDH A, (a8)
	DefineInstruction(0xF0, "LDH A, (a8)", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.instruction.operand = uint16(c.readByte(0xFF00 + c.instruction.operand))
		default:
			c.AF.SetHigh(c.operand8())
			return false
		}
		return true
	})

	// 0xE2 - LD (C), A
	DefineInstruction(0xE2, "LD (C), A", func(c *CPU, step uint8) bool {
		if step == 0 {
			c.writeByte(0xFF00+uint16(c.BC.Low()), c.AF.High())
			return true
		}
		return false
	})

	// 0xF2 - LD A, (C)
	DefineInstruction(0xF2, "LD A, (C)", func(c *CPU, step uint8) bool {
		if step == 0 {
			c.instruction.operand = uint16(c.readByte(0xFF00 + uint16(c.BC.Low())))
			return true
		}
		c.AF.SetHigh(c.operand8())
		return false
	})

	// 0xEA - LD (a16), A
	DefineInstruction(0xEA, "LD (a16), A", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.readHigh()
		case 2:
			c.writeByte(c.instruction.operand, c.AF.High())
		default:
			return false
		}
		return true
	})

	// 0xFA - LD A, (a16)
	DefineInstruction(0xFA, "LD A, (a16)", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.readHigh()
		case 2:
			c.instruction.operand = uint16(c.readByte(c.instruction.operand))
		default:
			c.AF.SetHigh(c.operand8())
			return false
		}
		return true
	})

	// 0xF8 - LD HL, SP+e
	DefineInstruction(0xF8, "LD HL, SP+e", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.HL.SetWord(c.addSP(c.operand8()))
		default:
			return false
		}
		return true
	})

	// 0xF9 - LD SP, HL
	DefineInstruction(0xF9, "LD SP, HL", func(c *CPU, step uint8) bool {
		if step == 0 {
			c.SP.SetWord(c.HL.Word())
			return true
		}
		return false
	})
}

func generateArithmeticInstructions() {
	for i := uint8(0); i < 4; i++ {
		rr := i

		// 0x03, 0x13, 0x23, 0x33 - INC rr
		DefineInstruction(0x03+rr<<4, fmt.Sprintf("INC %s", pairNames[rr]), func(c *CPU, step uint8) bool {
			if step == 0 {
				c.pair(rr).SetWord(c.pair(rr).Word() + 1)
				return true
			}
			return false
		})

		// 0x0B, 0x1B, 0x2B, 0x3B - DEC rr
		DefineInstruction(0x0B+rr<<4, fmt.Sprintf("DEC %s", pairNames[rr]), func(c *CPU, step uint8) bool {
			if step == 0 {
				c.pair(rr).SetWord(c.pair(rr).Word() - 1)
				return true
			}
			return false
		})

		// 0x09, 0x19, 0x29, 0x39 - ADD HL, rr
		DefineInstruction(0x09+rr<<4, fmt.Sprintf("ADD HL, %s", pairNames[rr]), func(c *CPU, step uint8) bool {
			if step == 0 {
				c.addHL(c.pair(rr).Word())
				return true
			}
			return false
		})
	}

	for i := uint8(0); i < 8; i++ {
		r := i

		// INC r, DEC r
		if r == 6 {
			// 0x34 - INC (HL)
			DefineInstruction(0x34, "INC (HL)", readModifyWrite(func(c *CPU, n uint8) uint8 {
				return c.increment(n)
			}))
			// 0x35 - DEC (HL)
			DefineInstruction(0x35, "DEC (HL)", readModifyWrite(func(c *CPU, n uint8) uint8 {
				return c.decrement(n)
			}))
		} else {
			DefineInstruction(0x04+r<<3, fmt.Sprintf("INC %s", registerNames[r]), func(c *CPU, step uint8) bool {
				c.setRegister(r, c.increment(c.register(r)))
				return false
			})
			DefineInstruction(0x05+r<<3, fmt.Sprintf("DEC %s", registerNames[r]), func(c *CPU, step uint8) bool {
				c.setRegister(r, c.decrement(c.register(r)))
				return false
			})
		}

		// 0x80 - 0xBF - ALU A, r
		op := aluOperations[r]
		for j := uint8(0); j < 8; j++ {
			src := j
			name := fmt.Sprintf("%s %s", op.name, registerNames[src])
			if src == 6 {
				DefineInstruction(0x80+r<<3+src, name, func(c *CPU, step uint8) bool {
					if step == 0 {
						c.instruction.operand = uint16(c.readByte(c.HL.Word()))
						return true
					}
					op.fn(c, c.operand8())
					return false
				})
				continue
			}
			DefineInstruction(0x80+r<<3+src, name, func(c *CPU, step uint8) bool {
				op.fn(c, c.register(src))
				return false
			})
		}

		// 0xC6, 0xCE, ..., 0xFE - ALU A, d8
		DefineInstruction(0xC6+r<<3, fmt.Sprintf("%s d8", op.name), func(c *CPU, step uint8) bool {
			if step == 0 {
				c.readLow()
				return true
			}
			op.fn(c, c.operand8())
			return false
		})
	}

	// 0xE8 - ADD SP, e
	DefineInstruction(0xE8, "ADD SP, e", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.instruction.operand = c.addSP(c.operand8())
		case 2:
			c.SP.SetWord(c.instruction.operand)
		default:
			return false
		}
		return true
	})

	// 0x27 - DAA
	DefineInstruction(0x27, "DAA", func(c *CPU, step uint8) bool {
		c.decimalAdjust()
		return false
	})
	// 0x2F - CPL
	DefineInstruction(0x2F, "CPL", func(c *CPU, step uint8) bool {
		c.complement()
		return false
	})
	// 0x37 - SCF
	DefineInstruction(0x37, "SCF", func(c *CPU, step uint8) bool {
		c.setFlags(c.AF.Zero(), false, false, true)
		return false
	})
	// 0x3F - CCF
	DefineInstruction(0x3F, "CCF", func(c *CPU, step uint8) bool {
		c.setFlags(c.AF.Zero(), false, false, !c.AF.Carry())
		return false
	})
}

// readModifyWrite returns the handler of an instruction reading (HL),
// and writing back the result of fn on the following machine cycle.
func readModifyWrite(fn func(c *CPU, n uint8) uint8) func(c *CPU, step uint8) bool {
	return func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.instruction.operand = uint16(c.readByte(c.HL.Word()))
		case 1:
			c.writeByte(c.HL.Word(), fn(c, c.operand8()))
		default:
			return false
		}
		return true
	}
}

func generateJumpInstructions() {
	// 0x18 - JR e
	DefineInstruction(0x18, "JR e", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.relative()
		default:
			return false
		}
		return true
	})

	// 0xC3 - JP a16
	DefineInstruction(0xC3, "JP a16", func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.readHigh()
		case 2:
			c.PC.SetWord(c.instruction.operand)
		default:
			return false
		}
		return true
	})

	// 0xE9 - JP HL
	DefineInstruction(0xE9, "JP HL", func(c *CPU, step uint8) bool {
		c.PC.SetWord(c.HL.Word())
		return false
	})

	// 0xCD - CALL a16
	DefineInstruction(0xCD, "CALL a16", call(func(c *CPU) bool { return true }))

	for i := uint8(0); i < 4; i++ {
		cc := i

		// 0x20, 0x28, 0x30, 0x38 - JR cc, e
		DefineInstruction(0x20+cc<<3, fmt.Sprintf("JR %s, e", conditionNames[cc]), func(c *CPU, step uint8) bool {
			switch step {
			case 0:
				c.readLow()
			case 1:
				if !c.condition(cc) {
					return false
				}
				c.relative()
			default:
				return false
			}
			return true
		})

		// 0xC2, 0xCA, 0xD2, 0xDA - JP cc, a16
		DefineInstruction(0xC2+cc<<3, fmt.Sprintf("JP %s, a16", conditionNames[cc]), func(c *CPU, step uint8) bool {
			switch step {
			case 0:
				c.readLow()
			case 1:
				c.readHigh()
			case 2:
				if !c.condition(cc) {
					return false
				}
				c.PC.SetWord(c.instruction.operand)
			default:
				return false
			}
			return true
		})

		// 0xC4, 0xCC, 0xD4, 0xDC - CALL cc, a16
		DefineInstruction(0xC4+cc<<3, fmt.Sprintf("CALL %s, a16", conditionNames[cc]), call(func(c *CPU) bool {
			return c.condition(cc)
		}))

		// 0xC0, 0xC8, 0xD0, 0xD8 - RET cc
		DefineInstruction(0xC0+cc<<3, fmt.Sprintf("RET %s", conditionNames[cc]), func(c *CPU, step uint8) bool {
			if step == 0 {
				return true
			}
			if step == 1 && !c.condition(cc) {
				return false
			}
			return ret(c, step-1)
		})
	}

	// 0xC9 - RET
	DefineInstruction(0xC9, "RET", ret)

	// 0xD9 - RETI
	DefineInstruction(0xD9, "RETI", func(c *CPU, step uint8) bool {
		if !ret(c, step) {
			c.irq.IME = true
			return false
		}
		return true
	})

	for i := uint8(0); i < 8; i++ {
		vector := uint16(i) << 3

		// 0xC7, 0xCF, ..., 0xFF - RST n
		DefineInstruction(0xC7+i<<3, fmt.Sprintf("RST %02XH", vector), func(c *CPU, step uint8) bool {
			switch step {
			case 0:
			case 1:
				c.push(c.PC.High())
			case 2:
				c.push(c.PC.Low())
			default:
				c.PC.SetWord(vector)
				return false
			}
			return true
		})
	}
}

// call returns the handler of a CALL instruction, taken when cond
// returns true.
func call(cond func(c *CPU) bool) func(c *CPU, step uint8) bool {
	return func(c *CPU, step uint8) bool {
		switch step {
		case 0:
			c.readLow()
		case 1:
			c.readHigh()
		case 2:
			if !cond(c) {
				return false
			}
		case 3:
			c.push(c.PC.High())
		case 4:
			c.push(c.PC.Low())
		default:
			c.PC.SetWord(c.instruction.operand)
			return false
		}
		return true
	}
}

// ret pops PC from the stack.
func ret(c *CPU, step uint8) bool {
	switch step {
	case 0:
		c.readLowFrom(c.pop())
	case 1:
		c.readHighFrom(c.pop())
	case 2:
		c.PC.SetWord(c.instruction.operand)
	default:
		return false
	}
	return true
}

// readLowFrom sets the low byte of the operand.
func (c *CPU) readLowFrom(value uint8) {
	c.instruction.operand = uint16(value)
}

// readHighFrom sets the high byte of the operand.
func (c *CPU) readHighFrom(value uint8) {
	c.instruction.operand |= uint16(value) << 8
}

func generateStackInstructions() {
	// stack pairs are BC, DE, HL and AF
	pairs := [4]struct {
		name string
		get  func(c *CPU) uint16
		set  func(c *CPU, v uint16)
	}{
		{"BC", func(c *CPU) uint16 { return c.BC.Word() }, func(c *CPU, v uint16) { c.BC.SetWord(v) }},
		{"DE", func(c *CPU) uint16 { return c.DE.Word() }, func(c *CPU, v uint16) { c.DE.SetWord(v) }},
		{"HL", func(c *CPU) uint16 { return c.HL.Word() }, func(c *CPU, v uint16) { c.HL.SetWord(v) }},
		{"AF", func(c *CPU) uint16 { return c.AF.Word() }, func(c *CPU, v uint16) { c.AF.SetWord(v) }},
	}

	for i := uint8(0); i < 4; i++ {
		p := pairs[i]

		// 0xC1, 0xD1, 0xE1, 0xF1 - POP rr
		DefineInstruction(0xC1+i<<4, fmt.Sprintf("POP %s", p.name), func(c *CPU, step uint8) bool {
			switch step {
			case 0:
				c.readLowFrom(c.pop())
			case 1:
				c.readHighFrom(c.pop())
			default:
				p.set(c, c.instruction.operand)
				return false
			}
			return true
		})

		// 0xC5, 0xD5, 0xE5, 0xF5 - PUSH rr
		DefineInstruction(0xC5+i<<4, fmt.Sprintf("PUSH %s", p.name), func(c *CPU, step uint8) bool {
			switch step {
			case 0:
			case 1:
				c.push(uint8(p.get(c) >> 8))
			case 2:
				c.push(uint8(p.get(c)))
			default:
				return false
			}
			return true
		})
	}
}

func generateMiscInstructions() {
	// 0x07 - RLCA
	DefineInstruction(0x07, "RLCA", accumulator((*CPU).rotateLeft))
	// 0x0F - RRCA
	DefineInstruction(0x0F, "RRCA", accumulator((*CPU).rotateRight))
	// 0x17 - RLA
	DefineInstruction(0x17, "RLA", accumulator((*CPU).rotateLeftThroughCarry))
	// 0x1F - RRA
	DefineInstruction(0x1F, "RRA", accumulator((*CPU).rotateRightThroughCarry))
}

// accumulator returns the handler of a rotate on the A Register,
// which unlike the CB variants always resets the zero flag.
func accumulator(fn func(c *CPU, n uint8) uint8) func(c *CPU, step uint8) bool {
	return func(c *CPU, step uint8) bool {
		c.AF.SetHigh(fn(c, c.AF.High()))
		c.AF.SetFlag(FlagZero, false)
		return false
	}
}
