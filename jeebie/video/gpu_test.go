package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-jeebie-core/jeebie/addr"
	"github.com/valerio/go-jeebie-core/jeebie/interrupts"
)

type recordingIRQ struct {
	requests []interrupts.Source
}

func (r *recordingIRQ) Request(s interrupts.Source) {
	r.requests = append(r.requests, s)
}

func (r *recordingIRQ) count(s interrupts.Source) int {
	n := 0
	for _, req := range r.requests {
		if req == s {
			n++
		}
	}
	return n
}

func newEnabledGPU() (*GPU, *recordingIRQ) {
	irq := &recordingIRQ{}
	g := NewGPU(irq)
	g.Write(addr.LCDC, 0x91)
	return g, irq
}

func TestGPUModeSequence(t *testing.T) {
	g, _ := newEnabledGPU()

	testCases := []struct {
		desc  string
		ticks int
		mode  Mode
		ly    uint8
	}{
		{desc: "line starts in OAM scan", ticks: 0, mode: OAMRead, ly: 0},
		{desc: "last OAM tick", ticks: 79, mode: OAMRead, ly: 0},
		{desc: "pixel transfer", ticks: 1, mode: VRAMRead, ly: 0},
		{desc: "last pixel transfer tick", ticks: 171, mode: VRAMRead, ly: 0},
		{desc: "hblank", ticks: 1, mode: HBlank, ly: 0},
		{desc: "next line", ticks: 204, mode: OAMRead, ly: 1},
		{desc: "vblank starts at line 144", ticks: 143 * scanlineCycles, mode: VBlank, ly: 144},
		{desc: "last vblank line", ticks: 9 * scanlineCycles, mode: VBlank, ly: 153},
		{desc: "wraps to line 0", ticks: scanlineCycles, mode: OAMRead, ly: 0},
	}
	for _, tC := range testCases {
		g.Tick(tC.ticks)
		assert.Equal(t, tC.mode, g.Mode(), tC.desc)
		assert.Equal(t, tC.ly, g.Read(addr.LY), tC.desc)
		assert.Equal(t, uint8(tC.mode), g.Read(addr.STAT)&0x03, tC.desc)
	}
}

func TestGPUEvents(t *testing.T) {
	g, irq := newEnabledGPU()

	g.Tick(scanlineCycles - 4)
	assert.Equal(t, Event(0), g.TakeEvents())
	g.Tick(4)
	assert.Equal(t, ScanlineDone, g.TakeEvents())
	assert.Equal(t, Event(0), g.TakeEvents(), "events are cleared once taken")

	g.Tick(FrameCycles - scanlineCycles)
	assert.Equal(t, ScanlineDone|FrameDone, g.TakeEvents())
	assert.Equal(t, uint64(1), g.Frames())
	assert.Equal(t, 1, irq.count(interrupts.VBlank))
}

func TestGPULCDOffKeepsPacing(t *testing.T) {
	irq := &recordingIRQ{}
	g := NewGPU(irq)

	g.Tick(FrameCycles)
	assert.Equal(t, ScanlineDone|FrameDone, g.TakeEvents())
	assert.Equal(t, uint8(0), g.Read(addr.LY))
	assert.Equal(t, HBlank, g.Mode())
	assert.Empty(t, irq.requests)
}

func TestGPUTurningLCDOffResetsLY(t *testing.T) {
	g, _ := newEnabledGPU()
	g.Tick(10 * scanlineCycles)
	require.Equal(t, uint8(10), g.Read(addr.LY))

	g.Write(addr.LCDC, 0x11)
	assert.Equal(t, uint8(0), g.Read(addr.LY))
	assert.Equal(t, uint8(0x80), g.Read(addr.STAT))
}

func TestGPUStatInterrupts(t *testing.T) {
	testCases := []struct {
		desc     string
		stat     uint8
		lyc      uint8
		ticks    int
		expected int
	}{
		{desc: "hblank source fires once per line", stat: 0x08, ticks: 3 * scanlineCycles, expected: 3},
		{desc: "oam source fires per visible line", stat: 0x20, ticks: scanlineCycles, expected: 1},
		{desc: "vblank source fires once per frame", stat: 0x10, ticks: FrameCycles, expected: 1},
		{desc: "lyc source fires on match", stat: 0x40, lyc: 5, ticks: 6 * scanlineCycles, expected: 1},
		{desc: "disabled sources never fire", stat: 0x00, ticks: FrameCycles, expected: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			g, irq := newEnabledGPU()
			g.Write(addr.LYC, tC.lyc)
			g.Write(addr.STAT, tC.stat)
			irq.requests = nil

			g.Tick(tC.ticks)
			assert.Equal(t, tC.expected, irq.count(interrupts.LCDStat))
		})
	}
}

func TestGPUStatLineIsEdgeTriggered(t *testing.T) {
	g, irq := newEnabledGPU()
	// LYC=0 matches through line 0, so entering hblank on the same line
	// keeps the combined line high and must not fire again.
	g.Write(addr.STAT, 0x48)
	require.Equal(t, 1, irq.count(interrupts.LCDStat))

	g.Tick(oamScanlineCycles + vramScanlineCycles)
	assert.Equal(t, HBlank, g.Mode())
	assert.Equal(t, 1, irq.count(interrupts.LCDStat))
}

func TestGPUCoincidenceFlag(t *testing.T) {
	g, _ := newEnabledGPU()
	g.Write(addr.LYC, 2)
	assert.False(t, g.Read(addr.STAT)&0x04 != 0)

	g.Tick(2 * scanlineCycles)
	assert.True(t, g.Read(addr.STAT)&0x04 != 0)
}

func TestGPUMemoryAccessWindows(t *testing.T) {
	g, _ := newEnabledGPU()

	// OAM scan: VRAM accessible, OAM blocked
	g.Write(0x8000, 0x12)
	g.Write(0xFE00, 0x34)
	assert.Equal(t, uint8(0x12), g.Read(0x8000))
	assert.Equal(t, uint8(0xFF), g.Read(0xFE00))

	// pixel transfer: both blocked
	g.Tick(oamScanlineCycles)
	require.Equal(t, VRAMRead, g.Mode())
	g.Write(0x8001, 0x56)
	assert.Equal(t, uint8(0xFF), g.Read(0x8000))

	// hblank: both accessible
	g.Tick(vramScanlineCycles)
	require.Equal(t, HBlank, g.Mode())
	assert.Equal(t, uint8(0x00), g.Read(0x8001), "write during pixel transfer is dropped")
	assert.Equal(t, uint8(0x00), g.Read(0xFE00), "write during OAM scan is dropped")

	g.WriteOAM(0, 0x77)
	assert.Equal(t, uint8(0x77), g.Read(0xFE00))
}

func TestGPURegisters(t *testing.T) {
	g, _ := newEnabledGPU()
	for _, address := range []uint16{addr.SCY, addr.SCX, addr.BGP, addr.OBP0, addr.OBP1, addr.WY, addr.WX} {
		g.Write(address, 0xA5)
		assert.Equal(t, uint8(0xA5), g.Read(address))
	}

	g.Write(addr.LY, 0x42)
	assert.Equal(t, uint8(0x00), g.Read(addr.LY), "LY is read-only")
}
