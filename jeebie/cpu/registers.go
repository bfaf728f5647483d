package cpu

import (
	"fmt"

	"github.com/valerio/go-jeebie-core/jeebie/bit"
)

// Reg8 selects one of the 8-bit registers.
type Reg8 uint8

// The order places the high half of every pair just before its low half.
const (
	A Reg8 = iota
	F
	B
	C
	D
	E
	H
	L
)

var reg8Names = [...]string{"A", "F", "B", "C", "D", "E", "H", "L"}

func (r Reg8) String() string {
	return reg8Names[r]
}

// Reg16 selects a register pair or one of the 16-bit registers.
type Reg16 uint8

const (
	AF Reg16 = iota
	BC
	DE
	HL
	SP
	PC
)

var reg16Names = [...]string{"AF", "BC", "DE", "HL", "SP", "PC"}

func (r Reg16) String() string {
	return reg16Names[r]
}

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	ZeroFlag      Flag = 0x80
	SubFlag       Flag = 0x40
	HalfCarryFlag Flag = 0x20
	CarryFlag     Flag = 0x10
)

// Registers is the register file. Pairs are views over adjacent 8-bit slots.
type Registers struct {
	r  [8]uint8
	sp uint16
	pc uint16
}

func (r *Registers) Get8(reg Reg8) uint8 {
	return r.r[reg]
}

// Set8 writes an 8-bit register. The low nibble of F always reads as zero.
func (r *Registers) Set8(reg Reg8, value uint8) {
	if reg == F {
		value &= 0xF0
	}
	r.r[reg] = value
}

func (r *Registers) Get16(reg Reg16) uint16 {
	switch reg {
	case SP:
		return r.sp
	case PC:
		return r.pc
	}
	high := Reg8(reg) * 2
	return bit.Combine(r.r[high], r.r[high+1])
}

func (r *Registers) Set16(reg Reg16, value uint16) {
	switch reg {
	case SP:
		r.sp = value
	case PC:
		r.pc = value
	default:
		high := Reg8(reg) * 2
		r.Set8(high, bit.High(value))
		r.Set8(high+1, bit.Low(value))
	}
}

func (r *Registers) Flag(flag Flag) bool {
	return r.r[F]&uint8(flag) != 0
}

func (r *Registers) SetFlag(flag Flag, set bool) {
	if set {
		r.r[F] |= uint8(flag)
	} else {
		r.r[F] &^= uint8(flag)
	}
}

// flagBit returns 1 if the passed flag is set, 0 otherwise
func (r *Registers) flagBit(flag Flag) uint8 {
	if r.Flag(flag) {
		return 1
	}
	return 0
}

func (r *Registers) flagString() string {
	flags := []byte("----")
	for i, f := range []struct {
		flag Flag
		name byte
	}{{ZeroFlag, 'Z'}, {SubFlag, 'N'}, {HalfCarryFlag, 'H'}, {CarryFlag, 'C'}} {
		if r.Flag(f.flag) {
			flags[i] = f.name
		}
	}
	return string(flags)
}

func (r *Registers) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X [%s]",
		r.Get16(AF), r.Get16(BC), r.Get16(DE), r.Get16(HL), r.sp, r.pc, r.flagString())
}

// setPostBoot loads the register values the DMG boot ROM leaves behind.
func (r *Registers) setPostBoot() {
	r.Set16(AF, 0x01B0)
	r.Set16(BC, 0x0013)
	r.Set16(DE, 0x00D8)
	r.Set16(HL, 0x014D)
	r.sp = 0xFFFE
	r.pc = 0x0100
}
