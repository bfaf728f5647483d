package jeebie

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/valerio/go-jeebie-core/jeebie/addr"
	"github.com/valerio/go-jeebie-core/jeebie/cpu"
	"github.com/valerio/go-jeebie-core/jeebie/debug"
	"github.com/valerio/go-jeebie-core/jeebie/interrupts"
	"github.com/valerio/go-jeebie-core/jeebie/memory"
	"github.com/valerio/go-jeebie-core/jeebie/rom"
	"github.com/valerio/go-jeebie-core/jeebie/serial"
	"github.com/valerio/go-jeebie-core/jeebie/video"
)

// StepMode selects how far a call to Step runs the machine.
type StepMode int

const (
	// StepInstruction runs one instruction, plus the interrupt dispatch that may follow it.
	StepInstruction StepMode = iota
	// StepScanline runs until the LCD finishes a scanline.
	StepScanline
	// StepFrame runs until the LCD finishes a frame.
	StepFrame
)

var stepModeNames = [...]string{"instruction", "scanline", "frame"}

func (m StepMode) String() string {
	if int(m) < len(stepModeNames) {
		return stepModeNames[m]
	}
	return fmt.Sprintf("StepMode(%d)", int(m))
}

// ParseStepMode is the inverse of StepMode.String.
func ParseStepMode(s string) (StepMode, error) {
	for i, name := range stepModeNames {
		if name == s {
			return StepMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step mode %q", s)
}

// Report describes the work done by one call to Step.
type Report struct {
	Instructions int
	// Interrupts counts the dispatches; each is a unit of work of its own.
	Interrupts int
	// Vector is the handler address of the last dispatch.
	Vector uint16
	Ticks  int
	Events video.Event
}

// Option configures a DMG.
type Option func(*config)

type config struct {
	bootROM   []byte
	logger    *slog.Logger
	serialOut io.Writer
	clock     memory.Clock
}

// WithBootROM starts execution at 0x0000 in the given boot ROM instead of
// skipping straight to the post-boot state.
func WithBootROM(data []byte) Option {
	return func(c *config) { c.bootROM = data }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSerialWriter mirrors every byte sent over the link port to w.
func WithSerialWriter(w io.Writer) Option {
	return func(c *config) { c.serialOut = w }
}

// WithClock sets the time source of cartridge real time clocks.
func WithClock(clock memory.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// DMG is the machine: CPU, memory, LCD and interrupt controller advanced in
// lock step. It is safe for concurrent use; every operation holds one mutex.
type DMG struct {
	mu sync.Mutex

	cpu    *cpu.CPU
	mmu    *memory.MMU
	gpu    *video.GPU
	irq    *interrupts.Controller
	bus    *Bus
	serial *serial.LogSink
	logger *slog.Logger

	instructions uint64
}

// New creates a machine with the given cartridge inserted.
func New(cart *memory.Cartridge, opts ...Option) (*DMG, error) {
	cfg := config{
		logger: slog.Default(),
		clock:  memory.SystemClock,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	irq := interrupts.New()
	gpu := video.NewGPU(irq)

	sinkOpts := []serial.LogSinkOption{serial.WithLogger(cfg.logger)}
	if cfg.serialOut != nil {
		sinkOpts = append(sinkOpts, serial.WithWriter(cfg.serialOut))
	}
	sink := serial.NewLogSink(func() { irq.Request(interrupts.Serial) }, sinkOpts...)

	mmuOpts := []memory.Option{
		memory.WithVideo(gpu),
		memory.WithSerial(sink),
		memory.WithClock(cfg.clock),
		memory.WithLogger(cfg.logger),
	}
	if len(cfg.bootROM) > 0 {
		mmuOpts = append(mmuOpts, memory.WithBootROM(cfg.bootROM))
	}

	mmu, err := memory.NewWithCartridge(cart, irq, mmuOpts...)
	if err != nil {
		return nil, err
	}

	d := &DMG{
		mmu:    mmu,
		gpu:    gpu,
		irq:    irq,
		bus:    NewBus(mmu, gpu),
		serial: sink,
		logger: cfg.logger,
	}

	if mmu.BootROMActive() {
		d.cpu = cpu.New(d.bus, irq)
	} else {
		mmu.InitPostBoot()
		d.cpu = cpu.NewPostBoot(d.bus, irq)
	}

	d.logger.Debug("machine created",
		"title", cart.Title,
		"mbc", cart.MBCType,
		"boot_rom", mmu.BootROMActive(),
		"pc", fmt.Sprintf("0x%04X", d.cpu.PC()))

	return d, nil
}

// NewWithData creates a machine from a raw cartridge image.
func NewWithData(data []byte, opts ...Option) (*DMG, error) {
	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return nil, err
	}
	return New(cart, opts...)
}

// NewWithFile creates a new emulator instance and loads the file specified into it.
func NewWithFile(path string, opts ...Option) (*DMG, error) {
	data, err := rom.Load(path)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded rom",
		"path", path,
		"bytes", len(data),
		"fingerprint", fmt.Sprintf("%016x", rom.Fingerprint(data)))

	return NewWithData(data, opts...)
}

// Step runs the machine according to mode. After every instruction a pending
// interrupt is dispatched and reported as its own unit of work.
// An instruction error stops the run and is returned with the partial report.
func (d *DMG) Step(mode StepMode) (Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var report Report
	for {
		if err := d.step(&report); err != nil {
			return report, err
		}

		switch mode {
		case StepScanline:
			if report.Events&video.ScanlineDone == 0 {
				continue
			}
		case StepFrame:
			if report.Events&video.FrameDone == 0 {
				continue
			}
		}
		return report, nil
	}
}

func (d *DMG) step(report *Report) error {
	pc := d.cpu.PC()
	ticks, err := d.cpu.Step()
	report.Instructions++
	d.instructions++
	d.account(report, ticks)
	if err != nil {
		return fmt.Errorf("step at 0x%04X: %w", pc, err)
	}

	if ticks, ok := d.cpu.ServiceInterrupt(); ok {
		report.Interrupts++
		report.Vector = d.cpu.PC()
		d.account(report, ticks)
	}
	return nil
}

func (d *DMG) account(report *Report, ticks int) {
	report.Ticks += ticks
	report.Events |= d.bus.TakeEvents()
}

// RunUntilFrame runs until the LCD completes the current frame.
func (d *DMG) RunUntilFrame() error {
	_, err := d.Step(StepFrame)
	return err
}

// RunFrames runs n complete frames.
func (d *DMG) RunFrames(n int) error {
	for i := 0; i < n; i++ {
		if err := d.RunUntilFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Press marks a joypad key as held down.
func (d *DMG) Press(key memory.JoypadKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mmu.HandleKeyPress(key)
}

// Release marks a joypad key as no longer held.
func (d *DMG) Release(key memory.JoypadKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mmu.HandleKeyRelease(key)
}

// Flush writes out any partial line buffered by the serial log.
func (d *DMG) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.serial.Flush()
}

// The accessors below hand out the live components. Callers must not use them
// concurrently with Step.

func (d *DMG) CPU() *cpu.CPU                      { return d.cpu }
func (d *DMG) MMU() *memory.MMU                   { return d.mmu }
func (d *DMG) Video() *video.GPU                  { return d.gpu }
func (d *DMG) Interrupts() *interrupts.Controller { return d.irq }
func (d *DMG) Cartridge() *memory.Cartridge       { return d.mmu.Cartridge() }

// Frames returns the number of frames the LCD has completed.
func (d *DMG) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gpu.Frames()
}

// Instructions returns the number of CPU steps taken, idle HALT steps included.
func (d *DMG) Instructions() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.instructions
}

// Ticks returns the total number of ticks the machine has run.
func (d *DMG) Ticks() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bus.Ticks()
}

// snapshotBefore is how many bytes ahead of PC a debug snapshot starts.
const snapshotBefore = 32

// ExtractDebugData captures the registers, interrupt state and the memory
// around PC.
func (d *DMG) ExtractDebugData() *debug.Data {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cpu == nil || d.mmu == nil {
		return nil
	}

	regs := d.cpu.Registers()
	return &debug.Data{
		CPU: &debug.CPUState{
			A:      regs.Get8(cpu.A),
			F:      regs.Get8(cpu.F),
			B:      regs.Get8(cpu.B),
			C:      regs.Get8(cpu.C),
			D:      regs.Get8(cpu.D),
			E:      regs.Get8(cpu.E),
			H:      regs.Get8(cpu.H),
			L:      regs.Get8(cpu.L),
			SP:     regs.Get16(cpu.SP),
			PC:     regs.Get16(cpu.PC),
			IME:    d.cpu.IME(),
			Halted: d.cpu.Halted(),
			Locked: d.cpu.Locked(),
			Cycles: d.cpu.Cycles(),
		},
		Memory:          debug.SnapshotAround(d.mmu, d.cpu.PC(), snapshotBefore, 4*snapshotBefore),
		InterruptEnable: d.mmu.Read(addr.IE),
		InterruptFlags:  d.mmu.Read(addr.IF),
		LY:              d.gpu.LY(),
		Frames:          d.gpu.Frames(),
	}
}
