package disasm

import (
	"fmt"
	"strings"

	"github.com/valerio/go-jeebie-core/jeebie/bit"
	"github.com/valerio/go-jeebie-core/jeebie/cpu"
)

// Reader is the memory the disassembler decodes from.
type Reader interface {
	Read(address uint16) byte
}

// Line represents a single disassembled instruction
type Line struct {
	Address     uint16
	Bytes       []byte
	Instruction string
	Length      int
}

func (l Line) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("%04X  %-8s  %s", l.Address, strings.Join(hex, " "), l.Instruction)
}

// DisassembleAt disassembles the instruction at the given program counter.
// Immediates are read from r; the address space wraps at 0xFFFF.
func DisassembleAt(pc uint16, r Reader) Line {
	opcode := r.Read(pc)
	instr := cpu.Lookup(opcode)
	if opcode == 0xCB {
		instr = cpu.LookupCB(r.Read(pc + 1))
	}

	line := Line{Address: pc, Length: instr.Length}
	for i := 0; i < instr.Length; i++ {
		line.Bytes = append(line.Bytes, r.Read(pc+uint16(i)))
	}

	text := instr.Mnemonic
	operandAt := pc + 1
	switch instr.Operand {
	case cpu.Imm8:
		text = strings.Replace(text, "n", fmt.Sprintf("$%02X", r.Read(operandAt)), 1)
	case cpu.Imm16:
		nn := bit.Combine(r.Read(operandAt+1), r.Read(operandAt))
		text = strings.Replace(text, "nn", fmt.Sprintf("$%04X", nn), 1)
	case cpu.Rel8:
		e := int8(r.Read(operandAt))
		if strings.HasPrefix(text, "JR") {
			target := pc + uint16(instr.Length) + uint16(e)
			text = strings.Replace(text, "e", fmt.Sprintf("$%04X", target), 1)
		} else {
			text = strings.Replace(text, "e", fmt.Sprintf("%d", e), 1)
		}
	}
	if instr.Illegal {
		text = fmt.Sprintf("%s $%02X", text, opcode)
	}

	line.Instruction = text
	return line
}

// Disassemble decodes count consecutive instructions starting at start.
func Disassemble(start uint16, count int, r Reader) []Line {
	lines := make([]Line, 0, count)
	pc := start
	for i := 0; i < count; i++ {
		line := DisassembleAt(pc, r)
		lines = append(lines, line)
		pc += uint16(line.Length)
	}
	return lines
}
