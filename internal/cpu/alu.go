package cpu

// setFlags sets every flag of the F register at once.
func (c *CPU) setFlags(zero, subtract, halfCarry, carry bool) {
	c.AF.SetFlag(FlagZero, zero)
	c.AF.SetFlag(FlagSubtract, subtract)
	c.AF.SetFlag(FlagHalfCarry, halfCarry)
	c.AF.SetFlag(FlagCarry, carry)
}

// carryBit returns the carry flag as a 0 or 1.
func (c *CPU) carryBit() uint8 {
	if c.AF.Carry() {
		return 1
	}
	return 0
}

// add adds n to the A Register.
//
//	ADD A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) add(n uint8) {
	a := c.AF.High()
	sum := uint16(a) + uint16(n)
	c.AF.SetHigh(uint8(sum))
	c.setFlags(uint8(sum) == 0, false, a&0xF+n&0xF > 0xF, sum > 0xFF)
}

// addCarry adds n plus the carry flag to the A Register.
//
//	ADC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) addCarry(n uint8) {
	a, carry := c.AF.High(), c.carryBit()
	sum := uint16(a) + uint16(n) + uint16(carry)
	c.AF.SetHigh(uint8(sum))
	c.setFlags(uint8(sum) == 0, false, a&0xF+n&0xF+carry > 0xF, sum > 0xFF)
}

// sub subtracts n from the A Register.
//
//	SUB n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func (c *CPU) sub(n uint8) {
	a := c.AF.High()
	c.AF.SetHigh(a - n)
	c.setFlags(a == n, true, n&0xF > a&0xF, n > a)
}

// subCarry subtracts n plus the carry flag from the A Register.
//
//	SBC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func (c *CPU) subCarry(n uint8) {
	a, carry := c.AF.High(), c.carryBit()
	result := a - n - carry
	c.AF.SetHigh(result)
	c.setFlags(result == 0, true, uint16(n&0xF)+uint16(carry) > uint16(a&0xF), uint16(n)+uint16(carry) > uint16(a))
}

// and performs a bitwise AND operation on n and the A Register.
//
//	AND n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set.
//	C - Reset.
func (c *CPU) and(n uint8) {
	c.AF.SetHigh(c.AF.High() & n)
	c.setFlags(c.AF.High() == 0, false, true, false)
}

// xor performs a bitwise XOR operation on n and the A Register.
//
//	XOR n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) xor(n uint8) {
	c.AF.SetHigh(c.AF.High() ^ n)
	c.setFlags(c.AF.High() == 0, false, false, false)
}

// or performs a bitwise OR operation on n and the A Register.
//
//	OR n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) or(n uint8) {
	c.AF.SetHigh(c.AF.High() | n)
	c.setFlags(c.AF.High() == 0, false, false, false)
}

// compare compares n to the A Register, as sub without storing
// the result.
//
//	CP n
//	n = d8, B, C, D, E, H, L, (HL), A
func (c *CPU) compare(n uint8) {
	a := c.AF.High()
	c.setFlags(a == n, true, n&0xF > a&0xF, n > a)
}

// aluOperations are the 8 accumulator operations in encoding order,
// as used by opcodes 0x80 - 0xBF and 0xC6 - 0xFE.
var aluOperations = [8]struct {
	name string
	fn   func(c *CPU, n uint8)
}{
	{"ADD A,", (*CPU).add},
	{"ADC A,", (*CPU).addCarry},
	{"SUB", (*CPU).sub},
	{"SBC A,", (*CPU).subCarry},
	{"AND", (*CPU).and},
	{"XOR", (*CPU).xor},
	{"OR", (*CPU).or},
	{"CP", (*CPU).compare},
}

// increment n by 1 and set the flags accordingly.
//
//	INC n
//	n = B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Not affected.
func (c *CPU) increment(n uint8) uint8 {
	result := n + 1
	c.setFlags(result == 0, false, n&0xF == 0xF, c.AF.Carry())
	return result
}

// decrement n by 1 and set the flags accordingly.
//
//	DEC n
//	n = B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Not affected.
func (c *CPU) decrement(n uint8) uint8 {
	result := n - 1
	c.setFlags(result == 0, true, n&0xF == 0, c.AF.Carry())
	return result
}

// addHL adds n to the HL Register.
//
//	ADD HL, nn
//	nn = BC, DE, HL, SP
//
// Flags affected:
//
//	Z - Not affected.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func (c *CPU) addHL(n uint16) {
	hl := c.HL.Word()
	sum := uint32(hl) + uint32(n)
	c.HL.SetWord(uint16(sum))
	c.setFlags(c.AF.Zero(), false, hl&0xFFF+n&0xFFF > 0xFFF, sum > 0xFFFF)
}

// addSP returns SP plus the signed 8-bit value e. The carries are
// computed from the unsigned low byte.
//
//	ADD SP, e
//	LD HL, SP+e
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) addSP(e uint8) uint16 {
	sp := c.SP.Word()
	c.setFlags(false, false, sp&0xF+uint16(e&0xF) > 0xF, sp&0xFF+uint16(e) > 0xFF)
	return sp + uint16(int8(e))
}

// decimalAdjust adjusts the A Register to a binary coded decimal
// after an addition or subtraction.
//
//	DAA
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Not affected.
//	H - Reset.
//	C - Set or reset according to operation.
func (c *CPU) decimalAdjust() {
	a := c.AF.High()
	carry := c.AF.Carry()
	var adjust uint8
	if !c.AF.Subtract() {
		if c.AF.HalfCarry() || a&0xF > 0x9 {
			adjust |= 0x06
		}
		if carry || a > 0x99 {
			adjust |= 0x60
			carry = true
		}
		a += adjust
	} else {
		if c.AF.HalfCarry() {
			adjust |= 0x06
		}
		if carry {
			adjust |= 0x60
		}
		a -= adjust
	}
	c.AF.SetHigh(a)
	c.setFlags(a == 0, c.AF.Subtract(), false, carry)
}

// complement flips every bit of the A Register.
//
//	CPL
//
// Flags affected:
//
//	Z - Not affected.
//	N - Set.
//	H - Set.
//	C - Not affected.
func (c *CPU) complement() {
	c.AF.SetHigh(^c.AF.High())
	c.setFlags(c.AF.Zero(), true, true, c.AF.Carry())
}

// rotateLeft rotates n left, bit 7 moving into the carry and bit 0.
//
//	RLC n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 7 data.
func (c *CPU) rotateLeft(n uint8) uint8 {
	result := n<<1 | n>>7
	c.setFlags(result == 0, false, false, n&0x80 != 0)
	return result
}

// rotateRight rotates n right, bit 0 moving into the carry and bit 7.
//
//	RRC n
func (c *CPU) rotateRight(n uint8) uint8 {
	result := n>>1 | n<<7
	c.setFlags(result == 0, false, false, n&0x01 != 0)
	return result
}

// rotateLeftThroughCarry rotates n left through the carry flag.
//
//	RL n
func (c *CPU) rotateLeftThroughCarry(n uint8) uint8 {
	result := n<<1 | c.carryBit()
	c.setFlags(result == 0, false, false, n&0x80 != 0)
	return result
}

// rotateRightThroughCarry rotates n right through the carry flag.
//
//	RR n
func (c *CPU) rotateRightThroughCarry(n uint8) uint8 {
	result := n>>1 | c.carryBit()<<7
	c.setFlags(result == 0, false, false, n&0x01 != 0)
	return result
}

// shiftLeftIntoCarry shifts n left, bit 7 moving into the carry.
//
//	SLA n
func (c *CPU) shiftLeftIntoCarry(n uint8) uint8 {
	result := n << 1
	c.setFlags(result == 0, false, false, n&0x80 != 0)
	return result
}

// shiftRightIntoCarry shifts n right, bit 7 is preserved.
//
//	SRA n
func (c *CPU) shiftRightIntoCarry(n uint8) uint8 {
	result := n>>1 | n&0x80
	c.setFlags(result == 0, false, false, n&0x01 != 0)
	return result
}

// shiftRightLogical shifts n right, bit 7 is reset.
//
//	SRL n
func (c *CPU) shiftRightLogical(n uint8) uint8 {
	result := n >> 1
	c.setFlags(result == 0, false, false, n&0x01 != 0)
	return result
}

// swap the upper and lower nibbles of a byte.
//
//	SWAP n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) swap(n uint8) uint8 {
	c.setFlags(n == 0, false, false, false)
	return n<<4 | n>>4
}

// shiftOperations are the 8 rotate and shift operations of the CB
// table in encoding order, as used by opcodes 0x00 - 0x3F.
var shiftOperations = [8]struct {
	name string
	fn   func(c *CPU, n uint8) uint8
}{
	{"RLC", (*CPU).rotateLeft},
	{"RRC", (*CPU).rotateRight},
	{"RL", (*CPU).rotateLeftThroughCarry},
	{"RR", (*CPU).rotateRightThroughCarry},
	{"SLA", (*CPU).shiftLeftIntoCarry},
	{"SRA", (*CPU).shiftRightIntoCarry},
	{"SWAP", (*CPU).swap},
	{"SRL", (*CPU).shiftRightLogical},
}

// testBit tests the bit b of n.
//
//	BIT b, n
//	b = 0-7
//	n = B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if bit b of n is 0.
//	N - Reset.
//	H - Set.
//	C - Not affected.
func (c *CPU) testBit(n uint8, b uint8) {
	c.setFlags(n&(1<<b) == 0, false, true, c.AF.Carry())
}
