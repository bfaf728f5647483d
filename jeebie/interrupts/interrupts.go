// Package interrupts models the DMG interrupt controller: the IE and IF
// registers and the fixed-priority vector selection used by the CPU.
package interrupts

import "fmt"

// Source is one of the five interrupt lines, stored as its IE/IF bit mask.
type Source uint8

const (
	// VBlank is requested when the PPU enters vertical blank (LY=144).
	VBlank Source = 1 << iota
	// LCDStat is requested on a rising edge of the STAT interrupt line.
	LCDStat
	// Timer is requested when TIMA overflows.
	Timer
	// Serial is requested when a serial transfer completes.
	Serial
	// Joypad is requested when one of the selected P1 input lines goes low.
	Joypad
)

// Mask covers the five implemented interrupt bits.
const Mask uint8 = 0x1F

const baseVector uint16 = 0x40

// Sources lists every interrupt line in servicing priority order.
var Sources = [...]Source{VBlank, LCDStat, Timer, Serial, Joypad}

func (s Source) String() string {
	switch s {
	case VBlank:
		return "VBlank"
	case LCDStat:
		return "LCDStat"
	case Timer:
		return "Timer"
	case Serial:
		return "Serial"
	case Joypad:
		return "Joypad"
	}
	return fmt.Sprintf("Source(0x%02X)", uint8(s))
}

// Vector returns the fixed service routine address for the source.
// Handlers are 8 bytes apart: 0x40, 0x48, 0x50, 0x58, 0x60.
func Vector(s Source) uint16 {
	for i, src := range Sources {
		if src == s {
			return baseVector + uint16(i)*8
		}
	}
	return 0
}

// Controller holds the interrupt enable (IE) and interrupt flag (IF) registers.
//
// An interrupt is serviceable only when both its enabled and requested
// bits are set. The master enable (IME) is CPU state and lives in the cpu package.
type Controller struct {
	enabled   uint8 // IE, 0xFFFF
	requested uint8 // IF, 0xFF0F
}

// New returns a controller with no interrupts enabled or requested.
func New() *Controller {
	return &Controller{}
}

// Request sets the requested bit of the given source.
func (c *Controller) Request(s Source) {
	c.requested |= uint8(s) & Mask
}

// Enabled returns the raw IE register.
func (c *Controller) Enabled() uint8 {
	return c.enabled
}

// SetEnabled writes IE. All 8 bits are stored, only the low 5 are used.
func (c *Controller) SetEnabled(value uint8) {
	c.enabled = value
}

// Requested returns IF as seen on the bus: the unused upper 3 bits read as 1.
func (c *Controller) Requested() uint8 {
	return c.requested | ^Mask
}

// SetRequested writes IF.
func (c *Controller) SetRequested(value uint8) {
	c.requested = value & Mask
}

// Pending returns the interrupts that are both enabled and requested,
// regardless of IME. Has no side effects.
func (c *Controller) Pending() uint8 {
	return c.enabled & c.requested & Mask
}

// IsRequested reports whether the source's IF bit is set.
func (c *Controller) IsRequested(s Source) bool {
	return c.requested&uint8(s) != 0
}

// NextVector picks the highest priority interrupt that is enabled and
// requested, clears its requested bit and returns its vector.
// It consumes the interrupt, so it must be called at most once per dispatch.
func (c *Controller) NextVector() (uint16, bool) {
	pending := c.Pending()
	if pending == 0 {
		return 0, false
	}

	for i, src := range Sources {
		if pending&uint8(src) != 0 {
			c.requested &^= uint8(src)
			return baseVector + uint16(i)*8, true
		}
	}

	return 0, false
}

// Reset clears both registers.
func (c *Controller) Reset() {
	c.enabled = 0
	c.requested = 0
}
