package cpu

import (
	"github.com/valerio/go-jeebie-core/jeebie/bit"
	"github.com/valerio/go-jeebie-core/jeebie/interrupts"
	"github.com/valerio/go-jeebie-core/jeebie/memory"
)

// mCycle is the number of ticks every memory access and internal delay takes.
const mCycle = 4

// Bus provides the interface for component communication.
// Tick advances every other component and is always called before the access
// it accounts for, so devices observe the access at its own tick.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Tick(cycles int)
}

// DividerResetter is implemented by buses whose timer divider is cleared by STOP.
type DividerResetter interface {
	ResetDivider()
}

// InterruptController is the part of the interrupt controller the CPU consults.
type InterruptController interface {
	// Pending returns IE & IF, ignoring IME.
	Pending() uint8
	// IsRequested reports whether the source's IF bit is set.
	IsRequested(interrupts.Source) bool
	// NextVector acknowledges the highest priority pending interrupt.
	NextVector() (uint16, bool)
}

// CPU is the main struct holding the SM83 state
type CPU struct {
	regs Registers
	bus  Bus
	irq  InterruptController

	ime     bool
	eiDelay int // instructions left until EI takes effect
	halted  bool
	stopped bool
	locked  bool

	// haltBug makes the next opcode fetch skip the PC increment. Set by HALT
	// when IME=0 and an interrupt is already pending.
	haltBug bool

	elapsed int    // ticks spent by the current Step
	cycles  uint64 // total ticks
}

// New returns a CPU in the power-on state: every register zero, execution
// starting at 0x0000 in the boot ROM.
func New(bus Bus, irq InterruptController) *CPU {
	return &CPU{
		bus: bus,
		irq: irq,
	}
}

// NewPostBoot returns a CPU in the state the DMG boot ROM leaves it in,
// about to execute the cartridge entry point at 0x0100.
func NewPostBoot(bus Bus, irq InterruptController) *CPU {
	c := New(bus, irq)
	c.regs.setPostBoot()
	return c
}

// Registers returns the live register file.
func (c *CPU) Registers() *Registers {
	return &c.regs
}

// PC returns the program counter.
func (c *CPU) PC() uint16 {
	return c.regs.pc
}

// IME returns the interrupt master enable flag.
func (c *CPU) IME() bool {
	return c.ime
}

// SetIME sets the interrupt master enable flag, cancelling a pending EI.
func (c *CPU) SetIME(enabled bool) {
	c.ime = enabled
	c.eiDelay = 0
}

// Halted reports whether the CPU is waiting in HALT.
func (c *CPU) Halted() bool {
	return c.halted
}

// Stopped reports whether the CPU is waiting in STOP.
func (c *CPU) Stopped() bool {
	return c.stopped
}

// Locked reports whether the CPU hung on an illegal opcode.
func (c *CPU) Locked() bool {
	return c.locked
}

// Cycles returns the total number of ticks executed.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Step executes a single instruction and returns the ticks it took.
// While halted, stopped or locked a step is a single idle M-cycle. Waking up
// with IME set also takes one M-cycle and fetches nothing, so the pending
// interrupt is dispatched before the next instruction runs.
func (c *CPU) Step() (ticks int, err error) {
	c.elapsed = 0
	defer func() {
		if r := recover(); r != nil {
			addrErr, ok := r.(*memory.AddressError)
			if !ok {
				panic(r)
			}
			ticks, err = c.elapsed, addrErr
		}
		c.cycles += uint64(c.elapsed)
	}()

	switch {
	case c.locked:
		c.tick()
		return c.elapsed, nil
	case c.stopped:
		if !c.irq.IsRequested(interrupts.Joypad) {
			c.tick()
			return c.elapsed, nil
		}
		c.stopped = false
		if c.ime && c.irq.Pending() != 0 {
			// wake-up cycle only, the scheduler dispatches next
			c.tick()
			return c.elapsed, nil
		}
	case c.halted:
		if c.irq.Pending() == 0 {
			c.tick()
			return c.elapsed, nil
		}
		c.halted = false
		if c.ime {
			c.tick()
			return c.elapsed, nil
		}
	}

	address := c.regs.pc
	opcode := c.fetch()
	instr := &baseTable[opcode]
	if opcode == cbPrefix {
		instr = &cbTable[c.fetch()]
	}

	if instr.exec == nil {
		return c.elapsed, &UnimplementedOpcodeError{
			Opcode:   instr.Opcode,
			Prefixed: instr.Prefixed,
			Address:  address,
		}
	}

	var operand uint16
	switch instr.Operand {
	case Imm8, Rel8:
		operand = uint16(c.fetch())
	case Imm16:
		low := c.fetch()
		operand = bit.Combine(c.fetch(), low)
	}

	instr.exec(c, operand)

	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.ime = true
		}
	}

	return c.elapsed, nil
}

// ServiceInterrupt dispatches the highest priority pending interrupt if IME is
// set and the CPU is not stopped. It returns the ticks taken and whether a
// dispatch happened.
func (c *CPU) ServiceInterrupt() (int, bool) {
	if !c.ime || c.locked || c.stopped || c.irq.Pending() == 0 {
		return 0, false
	}

	vector, ok := c.irq.NextVector()
	if !ok {
		return 0, false
	}

	c.elapsed = 0
	c.ime = false
	c.halted = false

	// a dispatch right after a buggy HALT returns to the HALT itself
	ret := c.regs.pc
	if c.haltBug {
		c.haltBug = false
		ret--
	}

	// two wait states, push PC, jump
	c.tick()
	c.tick()
	c.push(ret)
	c.tick()
	c.regs.pc = vector

	c.cycles += uint64(c.elapsed)
	return c.elapsed, true
}

// tick accounts for one M-cycle of work, advancing the rest of the machine.
func (c *CPU) tick() {
	c.bus.Tick(mCycle)
	c.elapsed += mCycle
}

func (c *CPU) read(address uint16) uint8 {
	c.tick()
	return c.bus.Read(address)
}

func (c *CPU) write(address uint16, value uint8) {
	c.tick()
	c.bus.Write(address, value)
}

// fetch reads the byte at PC and advances it, unless the halt bug is armed:
// then the byte is read but PC stays, so it is executed twice.
func (c *CPU) fetch() uint8 {
	value := c.read(c.regs.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.regs.pc++
	}
	return value
}

func (c *CPU) push(value uint16) {
	c.regs.sp--
	c.write(c.regs.sp, bit.High(value))
	c.regs.sp--
	c.write(c.regs.sp, bit.Low(value))
}

func (c *CPU) pop() uint16 {
	low := c.read(c.regs.sp)
	c.regs.sp++
	high := c.read(c.regs.sp)
	c.regs.sp++
	return bit.Combine(high, low)
}
