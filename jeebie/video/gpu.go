// Package video implements the timing of the DMG pixel pipeline: LCD modes,
// LY/STAT bookkeeping and the interrupts they raise. No pixels are produced.
package video

import (
	"github.com/valerio/go-jeebie-core/jeebie/addr"
	"github.com/valerio/go-jeebie-core/jeebie/bit"
	"github.com/valerio/go-jeebie-core/jeebie/interrupts"
)

// Mode is the LCD mode, encoded as it appears in STAT bits 0-1.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMRead
	VRAMRead
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "hblank"
	case VBlank:
		return "vblank"
	case OAMRead:
		return "oam"
	case VRAMRead:
		return "vram"
	}
	return "unknown"
}

const (
	hblankCycles       = 204
	oamScanlineCycles  = 80
	vramScanlineCycles = 172
	scanlineCycles     = oamScanlineCycles + vramScanlineCycles + hblankCycles

	visibleLines = 144
	totalLines   = 154

	// FrameCycles is the length of a full frame in ticks.
	FrameCycles = scanlineCycles * totalLines
)

// Event reports boundaries crossed since the last TakeEvents call.
type Event uint8

const (
	ScanlineDone Event = 1 << iota
	FrameDone
)

// LCDC (LCD Control) Register bit values
// Bit 7 - LCD Display Enable (0=Off, 1=On)
// Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 5 - Window Display Enable (0=Off, 1=On)
// Bit 4 - BG & Window Tile Data Select (0=8800-97FF, 1=8000-8FFF)
// Bit 3 - BG Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 2 - OBJ (Sprite) Size (0=8x8, 1=8x16)
// Bit 1 - OBJ (Sprite) Display Enable (0=Off, 1=On)
// Bit 0 - BG Display (0=Off, 1=On)
const lcdDisplayEnable = 7

// STAT interrupt source bits.
const (
	statHBlankSource  = 3
	statVBlankSource  = 4
	statOAMSource     = 5
	statLYCSource     = 6
	statWritableMask  = 0x78
	statUnusedBitMask = 0x80
)

// InterruptRequester is the part of the interrupt controller the GPU drives.
type InterruptRequester interface {
	Request(interrupts.Source)
}

// GPU owns VRAM, OAM and the LCD registers and advances the LCD mode state machine.
type GPU struct {
	irq InterruptRequester

	vram [0x2000]uint8
	oam  [0xA0]uint8

	lcdc, stat, scy, scx, lyc uint8
	bgp, obp0, obp1, wy, wx   uint8

	line     uint8
	mode     Mode
	cycles   int
	offLine  int // scanline counter while the LCD is off
	statLine bool
	events   Event
	frames   uint64
}

// NewGPU creates a GPU with the LCD off.
func NewGPU(irq InterruptRequester) *GPU {
	return &GPU{irq: irq, mode: HBlank}
}

func (g *GPU) enabled() bool {
	return bit.IsSet(lcdDisplayEnable, g.lcdc)
}

// Tick simulates gpu behaviour for a certain amount of clock cycles.
func (g *GPU) Tick(cycles int) {
	for range cycles {
		g.step()
	}
}

func (g *GPU) step() {
	g.cycles++

	if !g.enabled() {
		// the panel is blank but frame pacing continues
		if g.cycles == scanlineCycles {
			g.cycles = 0
			g.events |= ScanlineDone
			g.offLine++
			if g.offLine == totalLines {
				g.offLine = 0
				g.frameDone()
			}
		}
		return
	}

	switch {
	case g.mode == OAMRead && g.cycles == oamScanlineCycles:
		g.mode = VRAMRead
	case g.mode == VRAMRead && g.cycles == oamScanlineCycles+vramScanlineCycles:
		g.mode = HBlank
	case g.cycles == scanlineCycles:
		g.cycles = 0
		g.events |= ScanlineDone
		g.line++

		switch {
		case g.line == visibleLines:
			g.mode = VBlank
			g.irq.Request(interrupts.VBlank)
		case g.line == totalLines:
			g.line = 0
			g.mode = OAMRead
			g.frameDone()
		case g.line < visibleLines:
			g.mode = OAMRead
		}
	default:
		return
	}

	g.updateStatLine()
}

func (g *GPU) frameDone() {
	g.events |= FrameDone
	g.frames++
}

// updateStatLine requests LCDStat on the rising edge of the OR of all enabled sources.
func (g *GPU) updateStatLine() {
	line := false
	if g.enabled() {
		line = (bit.IsSet(statHBlankSource, g.stat) && g.mode == HBlank) ||
			(bit.IsSet(statVBlankSource, g.stat) && g.mode == VBlank) ||
			(bit.IsSet(statOAMSource, g.stat) && g.mode == OAMRead) ||
			(bit.IsSet(statLYCSource, g.stat) && g.line == g.lyc)
	}

	if line && !g.statLine {
		g.irq.Request(interrupts.LCDStat)
	}
	g.statLine = line
}

// TakeEvents returns the events latched since the previous call and clears them.
func (g *GPU) TakeEvents() Event {
	e := g.events
	g.events = 0
	return e
}

// Mode returns the current LCD mode.
func (g *GPU) Mode() Mode {
	return g.mode
}

// LY returns the scanline being processed.
func (g *GPU) LY() uint8 {
	return g.line
}

// Frames returns the number of completed frames.
func (g *GPU) Frames() uint64 {
	return g.frames
}

func (g *GPU) vramBlocked() bool {
	return g.enabled() && g.mode == VRAMRead
}

func (g *GPU) oamBlocked() bool {
	return g.enabled() && (g.mode == OAMRead || g.mode == VRAMRead)
}

// Read handles CPU reads of VRAM, OAM and the LCD registers.
// VRAM is inaccessible while pixels are transferred, OAM during OAM scan as well.
func (g *GPU) Read(address uint16) uint8 {
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		if g.vramBlocked() {
			return 0xFF
		}
		return g.vram[address-addr.VRAMStart]
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		if g.oamBlocked() {
			return 0xFF
		}
		return g.oam[address-addr.OAMStart]
	}

	switch address {
	case addr.LCDC:
		return g.lcdc
	case addr.STAT:
		stat := statUnusedBitMask | g.stat&statWritableMask | uint8(g.mode)
		if g.enabled() {
			stat = bit.SetTo(2, stat, g.line == g.lyc)
		}
		return stat
	case addr.SCY:
		return g.scy
	case addr.SCX:
		return g.scx
	case addr.LY:
		return g.line
	case addr.LYC:
		return g.lyc
	case addr.BGP:
		return g.bgp
	case addr.OBP0:
		return g.obp0
	case addr.OBP1:
		return g.obp1
	case addr.WY:
		return g.wy
	case addr.WX:
		return g.wx
	}
	return 0xFF
}

// Write handles CPU writes to VRAM, OAM and the LCD registers. LY is read-only.
func (g *GPU) Write(address uint16, value uint8) {
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		if !g.vramBlocked() {
			g.vram[address-addr.VRAMStart] = value
		}
		return
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		if !g.oamBlocked() {
			g.oam[address-addr.OAMStart] = value
		}
		return
	}

	switch address {
	case addr.LCDC:
		g.writeLCDC(value)
	case addr.STAT:
		g.stat = value & statWritableMask
		g.updateStatLine()
	case addr.SCY:
		g.scy = value
	case addr.SCX:
		g.scx = value
	case addr.LYC:
		g.lyc = value
		g.updateStatLine()
	case addr.BGP:
		g.bgp = value
	case addr.OBP0:
		g.obp0 = value
	case addr.OBP1:
		g.obp1 = value
	case addr.WY:
		g.wy = value
	case addr.WX:
		g.wx = value
	}
}

func (g *GPU) writeLCDC(value uint8) {
	wasEnabled := g.enabled()
	g.lcdc = value

	switch {
	case wasEnabled && !g.enabled():
		g.line = 0
		g.cycles = 0
		g.offLine = 0
		g.mode = HBlank
		g.statLine = false
	case !wasEnabled && g.enabled():
		g.line = 0
		g.cycles = 0
		g.mode = OAMRead
		g.updateStatLine()
	}
}

// WriteOAM stores a byte copied by OAM DMA. DMA has priority over the PPU.
func (g *GPU) WriteOAM(index uint8, value uint8) {
	if int(index) < len(g.oam) {
		g.oam[index] = value
	}
}
