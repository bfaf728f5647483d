package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-jeebie-core/jeebie/addr"
	"github.com/valerio/go-jeebie-core/jeebie/audio"
	"github.com/valerio/go-jeebie-core/jeebie/interrupts"
	"github.com/valerio/go-jeebie-core/jeebie/serial"
)

type memRegion uint8

const (
	regionUnmapped memRegion = iota
	regionROM
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// BootROMSize is the size of the DMG boot ROM.
const BootROMSize = 0x100

// SerialPort is the minimal interface for a serial device connected to SB/SC.
// Implementations MUST only accept reads/writes to addr.SB and addr.SC.
type SerialPort interface {
	Write(address uint16, value byte)
	Read(address uint16) byte
	Tick(cycles int)
	Reset()
}

// VideoDevice owns VRAM, OAM and the LCD registers (0xFF40-0xFF4B except DMA).
type VideoDevice interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	// WriteOAM stores a byte copied by OAM DMA, bypassing mode restrictions.
	WriteOAM(index uint8, value uint8)
}

// MMU allows access to all memory mapped I/O and data/registers
type MMU struct {
	cart      *Cartridge
	mbc       MBC
	regionMap [256]memRegion

	bootROM    []byte
	bootActive bool

	wram [0x2000]uint8
	hram [0x7F]uint8

	irq    *interrupts.Controller
	video  VideoDevice
	APU    *audio.APU
	serial SerialPort
	timer  Timer
	joypad *Joypad
	dma    dma

	clock  Clock
	logger *slog.Logger
}

// Option configures an MMU.
type Option func(*MMU)

// WithBootROM maps the boot ROM over 0x0000-0x00FF until 0xFF50 is written.
func WithBootROM(rom []byte) Option {
	return func(m *MMU) {
		m.bootROM = rom
		m.bootActive = len(rom) > 0
	}
}

// WithVideo routes VRAM, OAM and the LCD registers to v.
func WithVideo(v VideoDevice) Option {
	return func(m *MMU) { m.video = v }
}

// WithSerial replaces the default logging serial device.
func WithSerial(s SerialPort) Option {
	return func(m *MMU) { m.serial = s }
}

// WithClock sets the time source for cartridge real time clocks.
func WithClock(c Clock) Option {
	return func(m *MMU) { m.clock = c }
}

// WithLogger sets the logger used for dropped writes and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *MMU) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a new memory unit with default data, i.e. no cartridge loaded.
// Equivalent to turning on a Gameboy without a cartridge in.
func New(irq *interrupts.Controller, opts ...Option) *MMU {
	mmu := &MMU{
		cart:   NewCartridge(),
		irq:    irq,
		APU:    audio.New(),
		joypad: NewJoypad(),
		clock:  SystemClock,
		logger: slog.Default(),
	}
	mmu.mbc = NewNoMBC(mmu.cart.data, 0)

	for _, opt := range opts {
		opt(mmu)
	}

	if mmu.serial == nil {
		mmu.serial = serial.NewLogSink(func() { irq.Request(interrupts.Serial) }, serial.WithLogger(mmu.logger))
	}
	if mmu.video == nil {
		mmu.video = &flatVideo{}
	}
	mmu.timer.TimerInterruptHandler = func() { irq.Request(interrupts.Timer) }
	mmu.joypad.InterruptHandler = func() { irq.Request(interrupts.Joypad) }

	initRegionMap(mmu)
	return mmu
}

// NewWithCartridge creates a new memory unit with the provided cartridge loaded.
// Equivalent to turning on a Gameboy with a cartridge in.
func NewWithCartridge(cart *Cartridge, irq *interrupts.Controller, opts ...Option) (*MMU, error) {
	mmu := New(irq, opts...)

	if mmu.bootActive && len(mmu.bootROM) < BootROMSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidBootROM, len(mmu.bootROM), BootROMSize)
	}

	mbc, err := NewMBC(cart, mmu.clock)
	if err != nil {
		return nil, err
	}
	mmu.cart = cart
	mmu.mbc = mbc

	return mmu, nil
}

func initRegionMap(m *MMU) {
	// ROM: 0x0000-0x7FFF
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	// VRAM: 0x8000-0x9FFF
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	// External RAM: 0xA000-0xBFFF
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	// Work RAM: 0xC000-0xDFFF
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	// Echo RAM: 0xE000-0xFDFF
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	// OAM: 0xFE00-0xFE9F, Unusable: 0xFEA0-0xFEFF
	m.regionMap[0xFE] = regionOAM
	// IO + HRAM + IE: 0xFF00-0xFFFF
	m.regionMap[0xFF] = regionIO
}

// Cartridge returns the loaded cartridge.
func (m *MMU) Cartridge() *Cartridge {
	return m.cart
}

// MBC returns the bank controller of the loaded cartridge.
func (m *MMU) MBC() MBC {
	return m.mbc
}

// BootROMActive reports whether the boot ROM is still mapped at 0x0000.
func (m *MMU) BootROMActive() bool {
	return m.bootActive
}

// DMAActive reports whether an OAM DMA transfer is running.
func (m *MMU) DMAActive() bool {
	return m.dma.active
}

// Tick advances any i/o that needs it.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	m.serial.Tick(cycles)
	m.dma.tick(cycles, func(src uint16, index uint8) {
		m.video.WriteOAM(index, m.read(src))
	})
}

// ResetDivider clears the timer divider. STOP does this on entry.
func (m *MMU) ResetDivider() {
	m.timer.ResetDivider()
}

// RequestInterrupt sets the requested bit of the chosen interrupt in IF.
func (m *MMU) RequestInterrupt(source interrupts.Source) {
	m.irq.Request(source)
}

// HandleKeyPress marks key as held down.
func (m *MMU) HandleKeyPress(key JoypadKey) {
	m.joypad.Press(key)
}

// HandleKeyRelease marks key as released.
func (m *MMU) HandleKeyRelease(key JoypadKey) {
	m.joypad.Release(key)
}

// InitPostBoot writes the I/O register values the DMG boot ROM leaves behind,
// for starting directly at 0x0100 without one.
func (m *MMU) InitPostBoot() {
	m.timer.SetSeed(postBootDivider)
	m.APU.Reset()

	m.Write(addr.P1, 0xCF)
	m.Write(addr.TIMA, 0x00)
	m.Write(addr.TMA, 0x00)
	m.Write(addr.TAC, 0x00)
	m.Write(addr.LCDC, 0x91)
	m.Write(addr.STAT, 0x85)
	m.Write(addr.SCY, 0x00)
	m.Write(addr.SCX, 0x00)
	m.Write(addr.LYC, 0x00)
	m.Write(addr.BGP, 0xFC)
	m.Write(addr.OBP0, 0xFF)
	m.Write(addr.OBP1, 0xFF)
	m.Write(addr.WY, 0x00)
	m.Write(addr.WX, 0x00)
	m.Write(addr.IF, 0xE1)
	m.Write(addr.IE, 0x00)
	m.bootActive = false
}

// Read is the CPU view of the address space. While OAM DMA runs the CPU can
// only reach 0xFF00-0xFFFF, everything else reads 0xFF.
func (m *MMU) Read(address uint16) byte {
	if m.dma.active && address < addr.IOStart {
		return 0xFF
	}
	return m.read(address)
}

// Write is the CPU view of the address space, see Read.
func (m *MMU) Write(address uint16, value byte) {
	if m.dma.active && address < addr.IOStart {
		return
	}
	m.write(address, value)
}

func (m *MMU) read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM:
		if m.bootActive && address <= addr.BootROMEnd && int(address) < len(m.bootROM) {
			return m.bootROM[address]
		}
		return m.mbc.Read(address)
	case regionExtRAM:
		return m.mbc.Read(address)
	case regionVRAM:
		return m.video.Read(address)
	case regionWRAM:
		return m.wram[address-addr.WRAMStart]
	case regionEcho:
		return m.wram[address-addr.EchoStart]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.video.Read(address)
		}
		return 0xFF
	case regionIO:
		return m.readIO(address)
	}
	panic(&AddressError{Address: address})
}

func (m *MMU) write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if err := m.mbc.Write(address, value); err != nil {
			m.logger.Debug("Dropped cartridge write",
				"addr", fmt.Sprintf("0x%04X", address),
				"value", fmt.Sprintf("0x%02X", value),
				"err", err)
		}
	case regionVRAM:
		m.video.Write(address, value)
	case regionWRAM:
		m.wram[address-addr.WRAMStart] = value
	case regionEcho:
		m.wram[address-addr.EchoStart] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.video.Write(address, value)
		}
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(&AddressError{Address: address, Write: true})
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF:
		return m.irq.Requested()
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return m.APU.ReadRegister(address)
	case address == addr.DMA:
		return m.dma.register
	case address >= addr.LCDC && address <= addr.WX:
		return m.video.Read(address)
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		return m.hram[address-addr.HRAMStart]
	case address == addr.IE:
		return m.irq.Enabled()
	}
	// unimplemented registers, including BOOT
	return 0xFF
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		m.irq.SetRequested(value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		m.APU.WriteRegister(address, value)
	case address == addr.DMA:
		m.dma.start(value)
	case address >= addr.LCDC && address <= addr.WX:
		m.video.Write(address, value)
	case address == addr.BOOT:
		if value != 0 && m.bootActive {
			m.bootActive = false
			m.logger.Debug("Boot ROM unmapped")
		}
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		m.hram[address-addr.HRAMStart] = value
	case address == addr.IE:
		m.irq.SetEnabled(value)
	}
}

// flatVideo backs VRAM, OAM and the LCD registers with plain storage when no
// pixel pipeline is attached.
type flatVideo struct {
	vram [0x2000]uint8
	oam  [0xA0]uint8
	regs [0x0C]uint8
}

func (f *flatVideo) Read(address uint16) uint8 {
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		return f.vram[address-addr.VRAMStart]
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		return f.oam[address-addr.OAMStart]
	case address >= addr.LCDC && address <= addr.WX:
		return f.regs[address-addr.LCDC]
	}
	return 0xFF
}

func (f *flatVideo) Write(address uint16, value uint8) {
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		f.vram[address-addr.VRAMStart] = value
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		f.oam[address-addr.OAMStart] = value
	case address >= addr.LCDC && address <= addr.WX:
		f.regs[address-addr.LCDC] = value
	}
}

func (f *flatVideo) WriteOAM(index uint8, value uint8) {
	if int(index) < len(f.oam) {
		f.oam[index] = value
	}
}
