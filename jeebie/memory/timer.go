package memory

import (
	"github.com/valerio/go-jeebie-core/jeebie/addr"
	"github.com/valerio/go-jeebie-core/jeebie/bit"
)

// tacLookup maps TAC input clock select (bits 1–0) to the bit position
// of the 16‑bit internal divider (systemCounter) used as the timer's
// clock source. The timer increments on falling edges of this selected
// bit ANDed with the enable bit (TAC bit 2).
//
// Mapping per Pan Docs (DMG):
//
//	00 -> bit 9  (4096 Hz)
//	01 -> bit 3  (262144 Hz)
//	10 -> bit 5  (65536 Hz)
//	11 -> bit 7  (16384 Hz)
var tacLookup = [4]uint8{9, 3, 5, 7}

// timaReloadDelay is the number of ticks TIMA reads 0x00 after overflowing,
// before TMA is loaded and the interrupt raised.
const timaReloadDelay = 4

// postBootDivider is the internal counter value when the DMG boot ROM hands over.
const postBootDivider = 0xABCC

// Timer encapsulates the Game Boy timer/DIV/TIMA/TMA/TAC behavior.
type Timer struct {
	systemCounter uint16 // Internal 16-bit counter, DIV is upper 8 bits
	lastSignal    bool   // Previous state of the timer input for edge detection
	timaOverflow  int    // Ticks remaining before TMA is reloaded

	// Timer registers
	tima byte
	tma  byte
	tac  byte

	// IRQ requester callback
	TimerInterruptHandler func()
}

// SetSeed initializes the internal divider counter and writes DIV accordingly.
func (t *Timer) SetSeed(seed uint16) {
	t.systemCounter = seed
	t.lastSignal = t.signal()
	t.timaOverflow = 0
}

// signal is the input of the falling edge detector.
func (t *Timer) signal() bool {
	return bit.IsSet(2, t.tac) && bit.IsSet16(tacLookup[t.tac&0x03], t.systemCounter)
}

// detectEdge increments TIMA when the timer input falls. Resetting DIV and
// rewriting TAC go through here too, so both can clock TIMA once.
func (t *Timer) detectEdge() {
	current := t.signal()
	if t.lastSignal && !current {
		t.incrementTIMA()
	}
	t.lastSignal = current
}

func (t *Timer) Tick(cycles int) {
	for range cycles {
		if t.timaOverflow > 0 {
			t.timaOverflow--
			if t.timaOverflow == 0 {
				t.tima = t.tma
				if t.TimerInterruptHandler != nil {
					t.TimerInterruptHandler()
				}
			}
		}

		t.systemCounter++
		t.detectEdge()
	}
}

func (t *Timer) incrementTIMA() {
	if t.tima == 0xFF {
		t.timaOverflow = timaReloadDelay
	}
	t.tima++
}

// ResetDivider clears the internal counter, as a DIV write or STOP does.
func (t *Timer) ResetDivider() {
	t.systemCounter = 0
	t.detectEdge()
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return byte(t.systemCounter >> 8)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.ResetDivider()
	case addr.TIMA:
		// a write during the reload delay cancels the reload
		t.tima = value
		t.timaOverflow = 0
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
		t.detectEdge()
	}
}
