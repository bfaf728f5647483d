package cpu

import "fmt"

// Operand describes the immediate bytes that follow an opcode.
type Operand uint8

const (
	None Operand = iota
	Imm8
	Imm16
	Rel8
)

func (o Operand) String() string {
	switch o {
	case None:
		return "None"
	case Imm8:
		return "Imm8"
	case Imm16:
		return "Imm16"
	case Rel8:
		return "Rel8"
	}
	return fmt.Sprintf("Operand(%d)", uint8(o))
}

// Size returns the number of operand bytes.
func (o Operand) Size() int {
	switch o {
	case Imm8, Rel8:
		return 1
	case Imm16:
		return 2
	}
	return 0
}

const cbPrefix = 0xCB

// Instruction is a decode table entry.
//
// Mnemonics are upper case; the lower case placeholders n, nn and e stand for
// an immediate byte, an immediate word and a signed displacement.
type Instruction struct {
	Opcode   uint8
	Prefixed bool
	Mnemonic string
	Operand  Operand
	// Length in bytes, including the prefix and any padding byte.
	Length int
	// Cycles is the cost in ticks, or the not-taken cost of a conditional.
	Cycles int
	// TakenCycles is the cost of a conditional when its branch is taken, zero otherwise.
	TakenCycles int
	Illegal     bool

	exec func(c *CPU, operand uint16)
}

// Conditional reports whether the instruction has a taken and a not-taken cost.
func (i Instruction) Conditional() bool {
	return i.TakenCycles != 0
}

func (i Instruction) String() string {
	if i.Prefixed {
		return fmt.Sprintf("0xCB%02X %s", i.Opcode, i.Mnemonic)
	}
	return fmt.Sprintf("0x%02X %s", i.Opcode, i.Mnemonic)
}

var (
	baseTable [256]Instruction
	cbTable   [256]Instruction
)

// Lookup returns the base table entry for opcode.
func Lookup(opcode uint8) Instruction {
	return baseTable[opcode]
}

// LookupCB returns the entry for the CB-prefixed opcode.
func LookupCB(opcode uint8) Instruction {
	return cbTable[opcode]
}

func define(opcode uint8, mnemonic string, operand Operand, cycles int, exec func(*CPU, uint16)) {
	baseTable[opcode] = Instruction{
		Opcode:   opcode,
		Mnemonic: mnemonic,
		Operand:  operand,
		Length:   1 + operand.Size(),
		Cycles:   cycles,
		exec:     exec,
	}
}

func defineBranch(opcode uint8, mnemonic string, operand Operand, cycles, taken int, exec func(*CPU, uint16)) {
	define(opcode, mnemonic, operand, cycles, exec)
	baseTable[opcode].TakenCycles = taken
}

func defineCB(opcode uint8, mnemonic string, cycles int, exec func(*CPU, uint16)) {
	cbTable[opcode] = Instruction{
		Opcode:   opcode,
		Prefixed: true,
		Mnemonic: mnemonic,
		Length:   2,
		Cycles:   cycles,
		exec:     exec,
	}
}
