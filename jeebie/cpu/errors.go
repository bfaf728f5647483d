package cpu

import "fmt"

// UnimplementedOpcodeError is returned by Step when the fetched opcode has no handler.
type UnimplementedOpcodeError struct {
	Opcode   uint8
	Prefixed bool
	Address  uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("unimplemented opcode 0xCB%02X at 0x%04X", e.Opcode, e.Address)
	}
	return fmt.Sprintf("unimplemented opcode 0x%02X at 0x%04X", e.Opcode, e.Address)
}
