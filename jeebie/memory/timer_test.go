package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-jeebie-core/jeebie/addr"
)

func newTestTimer() (*Timer, *int) {
	irqs := 0
	t := &Timer{}
	t.TimerInterruptHandler = func() { irqs++ }
	return t, &irqs
}

func TestTimerDIV(t *testing.T) {
	timer, _ := newTestTimer()

	timer.Tick(255)
	assert.Equal(t, uint8(0), timer.Read(addr.DIV))
	timer.Tick(1)
	assert.Equal(t, uint8(1), timer.Read(addr.DIV))

	timer.Write(addr.DIV, 0x42)
	assert.Equal(t, uint8(0), timer.Read(addr.DIV), "any write resets DIV")
}

func TestTimerFrequencies(t *testing.T) {
	testCases := []struct {
		desc   string
		tac    uint8
		period int
	}{
		{desc: "4096 Hz", tac: 0x04, period: 1024},
		{desc: "262144 Hz", tac: 0x05, period: 16},
		{desc: "65536 Hz", tac: 0x06, period: 64},
		{desc: "16384 Hz", tac: 0x07, period: 256},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			timer, _ := newTestTimer()
			timer.Write(addr.TAC, tC.tac)

			timer.Tick(tC.period - 1)
			assert.Equal(t, uint8(0), timer.Read(addr.TIMA))
			timer.Tick(1)
			assert.Equal(t, uint8(1), timer.Read(addr.TIMA))
			timer.Tick(10 * tC.period)
			assert.Equal(t, uint8(11), timer.Read(addr.TIMA))
		})
	}
}

func TestTimerDisabled(t *testing.T) {
	timer, _ := newTestTimer()
	timer.Write(addr.TAC, 0x01)
	timer.Tick(4096)
	assert.Equal(t, uint8(0), timer.Read(addr.TIMA))
	assert.Equal(t, uint8(0xF9), timer.Read(addr.TAC))
}

func TestTimerOverflowReload(t *testing.T) {
	timer, irqs := newTestTimer()
	timer.Write(addr.TMA, 0xAB)
	timer.Write(addr.TIMA, 0xFF)
	timer.Write(addr.TAC, 0x05)

	timer.Tick(16)
	assert.Equal(t, uint8(0x00), timer.Read(addr.TIMA), "TIMA reads 0 during the reload delay")
	assert.Equal(t, 0, *irqs)

	timer.Tick(timaReloadDelay)
	assert.Equal(t, uint8(0xAB), timer.Read(addr.TIMA))
	assert.Equal(t, 1, *irqs)
}

func TestTimerWriteDuringReloadCancels(t *testing.T) {
	timer, irqs := newTestTimer()
	timer.Write(addr.TMA, 0xAB)
	timer.Write(addr.TIMA, 0xFF)
	timer.Write(addr.TAC, 0x05)

	timer.Tick(16)
	timer.Write(addr.TIMA, 0x10)
	timer.Tick(timaReloadDelay)

	assert.Equal(t, uint8(0x10), timer.Read(addr.TIMA))
	assert.Equal(t, 0, *irqs)
}

func TestTimerDIVResetClocksTIMA(t *testing.T) {
	timer, _ := newTestTimer()
	timer.Write(addr.TAC, 0x05) // bit 3

	timer.Tick(8) // bit 3 now high
	assert.Equal(t, uint8(0), timer.Read(addr.TIMA))

	timer.Write(addr.DIV, 0)
	assert.Equal(t, uint8(1), timer.Read(addr.TIMA), "falling edge from the reset counts")
}

func TestTimerDisablingClocksTIMA(t *testing.T) {
	timer, _ := newTestTimer()
	timer.Write(addr.TAC, 0x05)
	timer.Tick(8)

	timer.Write(addr.TAC, 0x01)
	assert.Equal(t, uint8(1), timer.Read(addr.TIMA))
}
