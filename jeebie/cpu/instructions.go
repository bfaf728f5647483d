package cpu

import "github.com/valerio/go-jeebie-core/jeebie/bit"

// operand locations, in the order the opcode encoding uses them
const (
	locB uint8 = iota
	locC
	locD
	locE
	locH
	locL
	locHL // (HL)
	locA
)

var locationRegs = [8]Reg8{B, C, D, E, H, L, 0, A}

var locationNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func (c *CPU) setFlagToCondition(flag Flag, cond bool) {
	c.regs.SetFlag(flag, cond)
}

// setFlags overwrites all four flags at once.
func (c *CPU) setFlags(z, n, h, cy bool) {
	c.setFlagToCondition(ZeroFlag, z)
	c.setFlagToCondition(SubFlag, n)
	c.setFlagToCondition(HalfCarryFlag, h)
	c.setFlagToCondition(CarryFlag, cy)
}

// load8 reads an operand location. (HL) costs a memory access.
func (c *CPU) load8(loc uint8) uint8 {
	if loc == locHL {
		return c.read(c.regs.Get16(HL))
	}
	return c.regs.Get8(locationRegs[loc])
}

func (c *CPU) store8(loc uint8, value uint8) {
	if loc == locHL {
		c.write(c.regs.Get16(HL), value)
		return
	}
	c.regs.Set8(locationRegs[loc], value)
}

func (c *CPU) inc(value uint8) uint8 {
	result := value + 1
	c.setFlagToCondition(ZeroFlag, result == 0)
	c.setFlagToCondition(SubFlag, false)
	c.setFlagToCondition(HalfCarryFlag, value&0xF == 0xF)
	return result
}

func (c *CPU) dec(value uint8) uint8 {
	result := value - 1
	c.setFlagToCondition(ZeroFlag, result == 0)
	c.setFlagToCondition(SubFlag, true)
	c.setFlagToCondition(HalfCarryFlag, value&0xF == 0)
	return result
}

// aluOp identifies the eight accumulator operations, in encoding order.
type aluOp uint8

const (
	aluAdd aluOp = iota
	aluAdc
	aluSub
	aluSbc
	aluAnd
	aluXor
	aluOr
	aluCp
)

var aluNames = [8]string{"ADD A,", "ADC A,", "SUB", "SBC A,", "AND", "XOR", "OR", "CP"}

// alu applies op to A and value, storing the result in A (except for CP).
func (c *CPU) alu(op aluOp, value uint8) {
	a := c.regs.Get8(A)
	var result uint8

	switch op {
	case aluAdd, aluAdc:
		var carry uint8
		if op == aluAdc {
			carry = c.regs.flagBit(CarryFlag)
		}
		result = a + value + carry
		c.setFlags(result == 0, false, bit.HalfCarryAdd(a, value, carry), bit.CarryAdd(a, value, carry))
	case aluSub, aluSbc, aluCp:
		var carry uint8
		if op == aluSbc {
			carry = c.regs.flagBit(CarryFlag)
		}
		result = a - value - carry
		c.setFlags(result == 0, true, bit.HalfCarrySub(a, value, carry), bit.CarrySub(a, value, carry))
		if op == aluCp {
			return
		}
	case aluAnd:
		result = a & value
		c.setFlags(result == 0, false, true, false)
	case aluXor:
		result = a ^ value
		c.setFlags(result == 0, false, false, false)
	case aluOr:
		result = a | value
		c.setFlags(result == 0, false, false, false)
	}

	c.regs.Set8(A, result)
}

// addToHL adds a 16 bit value to HL. Z is left untouched.
func (c *CPU) addToHL(value uint16) {
	hl := c.regs.Get16(HL)
	result := uint32(hl) + uint32(value)

	c.setFlagToCondition(SubFlag, false)
	c.setFlagToCondition(HalfCarryFlag, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.setFlagToCondition(CarryFlag, result > 0xFFFF)

	c.regs.Set16(HL, uint16(result))
}

// addSPSigned returns SP plus a signed offset. H and C come from the unsigned
// addition of the low byte of SP and the offset byte.
func (c *CPU) addSPSigned(offset uint8) uint16 {
	sp := c.regs.sp
	low := bit.Low(sp)
	c.setFlags(false, false, bit.HalfCarryAdd(low, offset, 0), bit.CarryAdd(low, offset, 0))
	return sp + uint16(int8(offset))
}

// daa adjusts A to packed BCD after an addition or subtraction.
func (c *CPU) daa() {
	a := c.regs.Get8(A)
	carry := c.regs.Flag(CarryFlag)

	if !c.regs.Flag(SubFlag) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.regs.Flag(HalfCarryFlag) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if c.regs.Flag(HalfCarryFlag) {
			a -= 0x06
		}
	}

	c.setFlagToCondition(ZeroFlag, a == 0)
	c.setFlagToCondition(HalfCarryFlag, false)
	c.setFlagToCondition(CarryFlag, carry)
	c.regs.Set8(A, a)
}

// shiftOp identifies the eight CB-prefixed rotate and shift operations.
type shiftOp uint8

const (
	opRLC shiftOp = iota
	opRRC
	opRL
	opRR
	opSLA
	opSRA
	opSWAP
	opSRL
)

var shiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

// shift applies a rotate/shift to value and sets all flags, Z from the result.
func (c *CPU) shift(op shiftOp, value uint8) uint8 {
	var result uint8
	var carry bool

	switch op {
	case opRLC:
		result = value<<1 | value>>7
		carry = value&0x80 != 0
	case opRRC:
		result = value>>1 | value<<7
		carry = value&0x01 != 0
	case opRL:
		result = value<<1 | c.regs.flagBit(CarryFlag)
		carry = value&0x80 != 0
	case opRR:
		result = value>>1 | c.regs.flagBit(CarryFlag)<<7
		carry = value&0x01 != 0
	case opSLA:
		result = value << 1
		carry = value&0x80 != 0
	case opSRA:
		result = value>>1 | value&0x80
		carry = value&0x01 != 0
	case opSWAP:
		result = value<<4 | value>>4
	case opSRL:
		result = value >> 1
		carry = value&0x01 != 0
	}

	c.setFlags(result == 0, false, false, carry)
	return result
}

// rotateA implements RLCA, RRCA, RLA and RRA, which always clear Z.
func (c *CPU) rotateA(op shiftOp) {
	c.regs.Set8(A, c.shift(op, c.regs.Get8(A)))
	c.setFlagToCondition(ZeroFlag, false)
}

func (c *CPU) bitTest(index, value uint8) {
	c.setFlagToCondition(ZeroFlag, !bit.IsSet(index, value))
	c.setFlagToCondition(SubFlag, false)
	c.setFlagToCondition(HalfCarryFlag, true)
}

// condition codes NZ, Z, NC, C in encoding order
var conditionNames = [4]string{"NZ", "Z", "NC", "C"}

func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !c.regs.Flag(ZeroFlag)
	case 1:
		return c.regs.Flag(ZeroFlag)
	case 2:
		return !c.regs.Flag(CarryFlag)
	default:
		return c.regs.Flag(CarryFlag)
	}
}

// jr adds the signed offset to PC, with one internal cycle.
func (c *CPU) jr(offset uint16) {
	c.tick()
	c.regs.pc += uint16(int8(uint8(offset)))
}

func (c *CPU) jp(address uint16) {
	c.tick()
	c.regs.pc = address
}

func (c *CPU) call(address uint16) {
	c.tick()
	c.push(c.regs.pc)
	c.regs.pc = address
}

func (c *CPU) ret() {
	c.regs.pc = c.pop()
	c.tick()
}
