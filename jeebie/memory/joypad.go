package memory

import "github.com/valerio/go-jeebie-core/jeebie/bit"

// JoypadKey represents a key on the Gameboy joypad
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

var joypadKeyNames = [...]string{"right", "left", "up", "down", "a", "b", "select", "start"}

func (k JoypadKey) String() string {
	if int(k) < len(joypadKeyNames) {
		return joypadKeyNames[k]
	}
	return "unknown"
}

// Joypad tracks the P1 register. The register itself is just a selector
// (bits 4-5) for which set of buttons is mapped to the low bits (0-3):
//   - if bit 4 is clear, bits 0-3 are mapped to the 4 d-pad directions
//   - if bit 5 is clear, bits 0-3 are mapped to A, B, Select, Start
//   - if both are clear, hw does an AND of both button sets
//   - if neither are clear, bits 0-3 read 0x0F
//
// Note that 1 -> button released, 0 -> button pressed.
// Bits 6-7 are unused, they always read as 1 on real hardware.
type Joypad struct {
	buttons uint8 // A/B/Select/Start
	dpad    uint8
	selects uint8 // bits 4-5 as last written

	// IRQ requester callback, called when an input line goes from high to low
	InterruptHandler func()
}

// NewJoypad creates a new Joypad with nothing pressed and nothing selected.
func NewJoypad() *Joypad {
	return &Joypad{
		buttons: 0x0F,
		dpad:    0x0F,
		selects: 0x30,
	}
}

// lines returns the state of the four input lines as seen through the selection.
func (j *Joypad) lines() uint8 {
	result := uint8(0x0F)
	if !bit.IsSet(4, j.selects) {
		result &= j.dpad
	}
	if !bit.IsSet(5, j.selects) {
		result &= j.buttons
	}
	return result
}

// update runs fn and raises the joypad interrupt if any input line fell.
func (j *Joypad) update(fn func()) {
	before := j.lines()
	fn()
	if before&^j.lines() != 0 && j.InterruptHandler != nil {
		j.InterruptHandler()
	}
}

// Read returns the P1 register.
func (j *Joypad) Read() uint8 {
	return 0xC0 | j.selects | j.lines()
}

// Write sets the selection bits, the only writable part of P1.
func (j *Joypad) Write(value uint8) {
	j.update(func() { j.selects = value & 0x30 })
}

// Press updates the joypad state when a key is pressed
func (j *Joypad) Press(key JoypadKey) {
	j.update(func() {
		if key <= JoypadDown {
			j.dpad = bit.Reset(uint8(key), j.dpad)
		} else {
			j.buttons = bit.Reset(uint8(key-JoypadA), j.buttons)
		}
	})
}

// Release updates the joypad state when a key is released
func (j *Joypad) Release(key JoypadKey) {
	if key <= JoypadDown {
		j.dpad = bit.Set(uint8(key), j.dpad)
	} else {
		j.buttons = bit.Set(uint8(key-JoypadA), j.buttons)
	}
}
