// Package debug captures machine state for post-mortem inspection: registers,
// interrupt state and the code around PC.
package debug

import (
	"fmt"
	"io"
)

// CPUState contains all CPU register information for debugging
type CPUState struct {
	A uint8
	F uint8
	B uint8
	C uint8
	D uint8
	E uint8
	H uint8
	L uint8

	SP     uint16
	PC     uint16
	IME    bool
	Halted bool
	Locked bool
	Cycles uint64
}

func (s CPUState) String() string {
	return fmt.Sprintf("A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X PC=%04X IME=%t",
		s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L, s.SP, s.PC, s.IME)
}

// Data contains all debug information captured at one instruction boundary.
type Data struct {
	CPU             *CPUState
	Memory          *MemorySnapshot
	InterruptEnable uint8 // IE register at 0xFFFF
	InterruptFlags  uint8 // IF register at 0xFF0F
	LY              uint8
	Frames          uint64
}

// Dump writes a human readable report: registers, interrupts and the
// disassembly around PC.
func (d *Data) Dump(w io.Writer, lines int) error {
	if d == nil || d.CPU == nil {
		_, err := fmt.Fprintln(w, "no debug data")
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\nIE=%02X IF=%02X LY=%d frame=%d cycles=%d\n",
		d.CPU, d.InterruptEnable, d.InterruptFlags, d.LY, d.Frames, d.CPU.Cycles); err != nil {
		return err
	}

	for _, line := range CreateDisassembly(d.Memory, d.CPU.PC, lines) {
		marker := "  "
		if line.IsCurrent {
			marker = "> "
		}
		if _, err := fmt.Fprintf(w, "%s%04X  %s\n", marker, line.Address, line.Instruction); err != nil {
			return err
		}
	}
	return nil
}
