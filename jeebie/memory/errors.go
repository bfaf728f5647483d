package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalWrite is returned by a bank controller when a write lands on
	// read-only cartridge space. Hardware ignores such writes, so callers log
	// and drop the byte.
	ErrIllegalWrite = errors.New("illegal write to read-only cartridge memory")
	// ErrUnsupportedCartridge is returned for cartridge type bytes with no controller.
	ErrUnsupportedCartridge = errors.New("unsupported cartridge type")
	// ErrInvalidHeader is returned for images too small to hold a cartridge header.
	ErrInvalidHeader = errors.New("invalid cartridge header")
	// ErrInvalidBootROM is returned for boot ROM images shorter than 256 bytes.
	ErrInvalidBootROM = errors.New("invalid boot ROM")
)

// AddressError reports an address that the region map could not route.
// The routing table is total, so this signals a programming defect; the MMU
// panics with it and the CPU turns it back into an error at the instruction boundary.
type AddressError struct {
	Address uint16
	Write   bool
}

func (e *AddressError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("unmapped %s at address 0x%04X", op, e.Address)
}
