package memory

// oamDMALength is the number of bytes an OAM DMA transfer copies.
const oamDMALength = 0xA0

// dmaCyclesPerByte is one M-cycle per byte, 640 ticks for the whole transfer.
const dmaCyclesPerByte = 4

// dma tracks a running OAM DMA transfer started by a write to 0xFF46.
type dma struct {
	register uint8
	active   bool
	source   uint16
	index    uint8
	cycles   int
}

func (d *dma) start(value uint8) {
	d.register = value
	d.source = uint16(value) << 8
	if d.source >= 0xE000 {
		// sources past work RAM read its echo
		d.source -= 0x2000
	}
	d.active = true
	d.index = 0
	d.cycles = 0
}

// tick advances the transfer and calls copyByte for every byte due.
func (d *dma) tick(cycles int, copyByte func(src uint16, index uint8)) {
	if !d.active {
		return
	}
	d.cycles += cycles
	for d.active && d.cycles >= dmaCyclesPerByte {
		d.cycles -= dmaCyclesPerByte
		copyByte(d.source+uint16(d.index), d.index)
		d.index++
		if d.index == oamDMALength {
			d.active = false
		}
	}
}
