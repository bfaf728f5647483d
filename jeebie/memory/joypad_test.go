package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoypadSelection(t *testing.T) {
	testCases := []struct {
		desc     string
		pressed  []JoypadKey
		selects  uint8
		expected uint8
	}{
		{desc: "nothing selected", pressed: []JoypadKey{JoypadA, JoypadUp}, selects: 0x30, expected: 0xFF},
		{desc: "d-pad selected", pressed: []JoypadKey{JoypadA, JoypadUp}, selects: 0x20, expected: 0xEB},
		{desc: "buttons selected", pressed: []JoypadKey{JoypadA, JoypadStart}, selects: 0x10, expected: 0xD6},
		{desc: "both selected", pressed: []JoypadKey{JoypadB, JoypadRight}, selects: 0x00, expected: 0xCC},
		{desc: "no keys", selects: 0x00, expected: 0xCF},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			j := NewJoypad()
			j.Write(tC.selects)
			for _, k := range tC.pressed {
				j.Press(k)
			}
			assert.Equal(t, tC.expected, j.Read())
		})
	}
}

func TestJoypadInterruptOnFallingEdge(t *testing.T) {
	irqs := 0
	j := NewJoypad()
	j.InterruptHandler = func() { irqs++ }

	j.Press(JoypadA)
	assert.Equal(t, 0, irqs, "unselected keys do not raise the interrupt")

	j.Write(0x10)
	assert.Equal(t, 1, irqs, "selecting a group with a held key pulls a line low")

	j.Press(JoypadB)
	assert.Equal(t, 2, irqs)

	j.Release(JoypadA)
	j.Release(JoypadB)
	assert.Equal(t, 2, irqs, "releasing keys never raises the interrupt")

	j.Press(JoypadLeft)
	assert.Equal(t, 2, irqs)
}

func TestJoypadRelease(t *testing.T) {
	j := NewJoypad()
	j.Write(0x20)
	j.Press(JoypadDown)
	assert.Equal(t, uint8(0xE7), j.Read())
	j.Release(JoypadDown)
	assert.Equal(t, uint8(0xEF), j.Read())
}
