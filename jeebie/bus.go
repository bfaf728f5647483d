package jeebie

import (
	"github.com/valerio/go-jeebie-core/jeebie/cpu"
	"github.com/valerio/go-jeebie-core/jeebie/memory"
	"github.com/valerio/go-jeebie-core/jeebie/video"
)

// Bus provides centralized component communication.
// The CPU charges every access through Tick before performing it, so the MMU
// and the GPU are always caught up to the access cycle.
type Bus struct {
	MMU *memory.MMU
	GPU *video.GPU

	events video.Event
	ticks  uint64
}

var _ cpu.Bus = (*Bus)(nil)
var _ cpu.DividerResetter = (*Bus)(nil)

func NewBus(mmu *memory.MMU, gpu *video.GPU) *Bus {
	return &Bus{MMU: mmu, GPU: gpu}
}

func (b *Bus) Read(address uint16) byte {
	return b.MMU.Read(address)
}

func (b *Bus) Write(address uint16, value byte) {
	b.MMU.Write(address, value)
}

// Tick advances the timer, serial port, OAM DMA and the LCD by cycles ticks and
// latches the scanline and frame boundaries crossed.
func (b *Bus) Tick(cycles int) {
	b.MMU.Tick(cycles)
	b.GPU.Tick(cycles)
	b.events |= b.GPU.TakeEvents()
	b.ticks += uint64(cycles)
}

// ResetDivider clears the timer divider, used by STOP.
func (b *Bus) ResetDivider() {
	b.MMU.ResetDivider()
}

// TakeEvents returns the events latched since the previous call and clears them.
func (b *Bus) TakeEvents() video.Event {
	e := b.events
	b.events = 0
	return e
}

// Ticks returns the total ticks the bus has been advanced by.
func (b *Bus) Ticks() uint64 {
	return b.ticks
}
