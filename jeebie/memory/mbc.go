package memory

import "time"

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// MBC represents a Memory Bank Controller interface that all MBC types must implement.
//
// Addresses are the logical CPU addresses of the cartridge windows:
// 0x0000-0x7FFF for ROM and control registers, 0xA000-0xBFFF for RAM.
type MBC interface {
	// Read reads a byte from the specified address
	Read(addr uint16) uint8
	// Write writes a byte to the specified address. Writes that land on read-only
	// space with no control register behind them return ErrIllegalWrite.
	Write(addr uint16, value uint8) error
}

// bankCount returns how many banks of the given size fit the image, at least one.
func bankCount(size, bankSize int) int {
	n := size / bankSize
	if n == 0 {
		return 1
	}
	return n
}

// readBankedROM reads addr (within a 16KiB window) from the selected bank.
// Out of range banks wrap around the number of banks physically present.
func readBankedROM(rom []uint8, bank int, addr uint16) uint8 {
	bank %= bankCount(len(rom), romBankSize)
	offset := bank*romBankSize + int(addr&0x3FFF)
	if offset >= len(rom) {
		return 0xFF
	}
	return rom[offset]
}

// ramOffset maps addr (within the 8KiB RAM window) in the selected bank to an
// offset into ram, wrapping both the bank and images smaller than a bank.
func ramOffset(ram []uint8, bank int, addr uint16) int {
	bank %= bankCount(len(ram), ramBankSize)
	return (bank*ramBankSize + int(addr&0x1FFF)) % len(ram)
}

// NoMBC represents cartridges with no memory banking capabilities.
// The ROM is directly mapped to 0x0000-0x7FFF and cannot be banked.
// ROM+RAM carts (types 0x08/0x09) expose a single, always enabled 8KB RAM bank.
type NoMBC struct {
	rom []uint8
	ram []uint8
}

// NewNoMBC creates a new NoMBC controller
func NewNoMBC(romData []uint8, ramBankCount uint8) *NoMBC {
	return &NoMBC{
		rom: romData,
		ram: make([]uint8, int(ramBankCount)*ramBankSize),
	}
}

func (m *NoMBC) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		if int(addr) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[addr]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[ramOffset(m.ram, 0, addr)]
	default:
		return 0xFF
	}
}

func (m *NoMBC) Write(addr uint16, value uint8) error {
	if addr >= 0xA000 && addr <= 0xBFFF && len(m.ram) > 0 {
		m.ram[ramOffset(m.ram, 0, addr)] = value
		return nil
	}
	return ErrIllegalWrite
}

// MBC1 is the first and most common MBC chip. Features include:
//   - Supports up to 2MB ROM (125 16KB banks)
//   - Up to 32KB RAM (4 8KB banks)
//   - Switchable ROM bank at 0x4000-0x7FFF
//   - Two banking modes. In mode 1 the 2-bit BANK2 register also selects the
//     bank seen at 0x0000-0x3FFF and the RAM bank.
type MBC1 struct {
	rom        []uint8
	ram        []uint8
	bank1      uint8 // 5 bits, 0 is translated to 1
	bank2      uint8 // 2 bits
	mode       uint8
	ramEnabled bool
	hasBattery bool
}

// NewMBC1 creates a new MBC1 controller
func NewMBC1(romData []uint8, hasBattery bool, ramBankCount uint8) *MBC1 {
	return &MBC1{
		rom:        romData,
		ram:        make([]uint8, int(ramBankCount)*ramBankSize),
		bank1:      1,
		hasBattery: hasBattery,
	}
}

func (m *MBC1) romBank() int {
	return int(m.bank2)<<5 | int(m.bank1)
}

func (m *MBC1) ramBank() int {
	if m.mode == 1 {
		return int(m.bank2)
	}
	return 0
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		bank := 0
		if m.mode == 1 {
			bank = int(m.bank2) << 5
		}
		return readBankedROM(m.rom, bank, addr)
	case addr <= 0x7FFF:
		return readBankedROM(m.rom, m.romBank(), addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[ramOffset(m.ram, m.ramBank(), addr)]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value uint8) error {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		m.bank1 = value & 0x1F
		if m.bank1 == 0 {
			m.bank1 = 1
		}
	case addr <= 0x5FFF:
		m.bank2 = value & 0x03
	case addr <= 0x7FFF:
		m.mode = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled && len(m.ram) > 0 {
			m.ram[ramOffset(m.ram, m.ramBank(), addr)] = value
		}
	default:
		return ErrIllegalWrite
	}
	return nil
}

// MBC2 is a simpler MBC chip with built-in RAM. Features include:
//   - Supports up to 256KB ROM (16 16KB banks)
//   - Built-in 512x4 bits RAM, mirrored across 0xA000-0xBFFF
//   - Bit 8 of the address selects between RAM enable and ROM bank registers
//     in the 0x0000-0x3FFF range
//   - RAM is limited to 4-bit values, the upper nibble reads as 1s
type MBC2 struct {
	rom        []uint8
	ram        [512]uint8
	romBank    uint8
	ramEnabled bool
}

// NewMBC2 creates a new MBC2 controller
func NewMBC2(romData []uint8) *MBC2 {
	return &MBC2{
		rom:     romData,
		romBank: 1,
	}
}

func (m *MBC2) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return readBankedROM(m.rom, 0, addr)
	case addr <= 0x7FFF:
		return readBankedROM(m.rom, int(m.romBank), addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[addr&0x01FF] | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(addr uint16, value uint8) error {
	switch {
	case addr <= 0x3FFF:
		if addr&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
			return nil
		}
		m.romBank = value & 0x0F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled {
			m.ram[addr&0x01FF] = value & 0x0F
		}
	default:
		return ErrIllegalWrite
	}
	return nil
}

// Clock is the time source for the MBC3 real time clock.
type Clock interface {
	Now() time.Time
}

type systemClockFunc func() time.Time

func (s systemClockFunc) Now() time.Time {
	return s()
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClockFunc(time.Now)

// RTC register indexes, selected by writing 0x08-0x0C to 0x4000-0x5FFF.
const (
	rtcSeconds = iota
	rtcMinutes
	rtcHours
	rtcDayLow
	rtcDayHigh
)

// rtcMasks are the implemented bits of each RTC register.
var rtcMasks = [5]uint8{0x3F, 0x3F, 0x1F, 0xFF, 0xC1}

const (
	rtcDayHighBit = 0x01
	rtcHaltBit    = 0x40
	rtcCarryBit   = 0x80
)

// MBC3 is an advanced MBC chip with RTC support. Features include:
//   - Supports up to 2MB ROM (128 16KB banks)
//   - Up to 32KB RAM (4 8KB banks)
//   - Real-Time Clock with 5 registers: seconds, minutes, hours, day low, day high/flags
//   - The RTC is read through a latch: writing 0x00 then 0x01 to 0x6000-0x7FFF
//     copies the running counters into the readable registers
type MBC3 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint8
	ramBank    uint8
	ramEnabled bool

	hasRTC      bool
	clock       Clock
	rtc         [5]uint8 // running counters
	latched     [5]uint8 // values visible on the bus
	latchPrimed bool     // last latch write was 0x00
	lastSync    time.Time
}

// NewMBC3 creates a new MBC3 controller. A nil clock uses the system clock.
func NewMBC3(romData []uint8, ramBankCount uint8, hasRTC bool, clock Clock) *MBC3 {
	if clock == nil {
		clock = SystemClock
	}

	return &MBC3{
		rom:      romData,
		ram:      make([]uint8, int(ramBankCount)*ramBankSize),
		romBank:  1,
		hasRTC:   hasRTC,
		clock:    clock,
		lastSync: clock.Now(),
	}
}

func (m *MBC3) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return readBankedROM(m.rom, 0, addr)
	case addr <= 0x7FFF:
		return readBankedROM(m.rom, int(m.romBank), addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		switch {
		case m.ramBank <= 0x03:
			if len(m.ram) == 0 {
				return 0xFF
			}
			return m.ram[ramOffset(m.ram, int(m.ramBank), addr)]
		case m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C:
			return m.latched[m.ramBank-0x08]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value uint8) error {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr <= 0x5FFF:
		m.ramBank = value & 0x0F
	case addr <= 0x7FFF:
		if m.latchPrimed && value == 0x01 {
			m.syncRTC()
			m.latched = m.rtc
		}
		m.latchPrimed = value == 0x00
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return nil
		}
		switch {
		case m.ramBank <= 0x03:
			if len(m.ram) > 0 {
				m.ram[ramOffset(m.ram, int(m.ramBank), addr)] = value
			}
		case m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C:
			m.writeRTC(int(m.ramBank-0x08), value)
		}
	default:
		return ErrIllegalWrite
	}
	return nil
}

func (m *MBC3) writeRTC(reg int, value uint8) {
	m.syncRTC()
	m.rtc[reg] = value & rtcMasks[reg]
	m.latched[reg] = m.rtc[reg]
	if reg == rtcSeconds {
		// writing seconds restarts the sub-second divider
		m.lastSync = m.clock.Now()
	}
}

// syncRTC folds the time elapsed since the last sync into the running counters.
func (m *MBC3) syncRTC() {
	now := m.clock.Now()
	if m.rtc[rtcDayHigh]&rtcHaltBit != 0 {
		m.lastSync = now
		return
	}

	elapsed := int64(now.Sub(m.lastSync) / time.Second)
	if elapsed <= 0 {
		return
	}
	m.lastSync = m.lastSync.Add(time.Duration(elapsed) * time.Second)
	m.advanceRTC(elapsed)
}

func (m *MBC3) advanceRTC(seconds int64) {
	total := int64(m.rtc[rtcSeconds]) + seconds
	m.rtc[rtcSeconds] = uint8(total % 60)

	total = int64(m.rtc[rtcMinutes]) + total/60
	m.rtc[rtcMinutes] = uint8(total % 60)

	total = int64(m.rtc[rtcHours]) + total/60
	m.rtc[rtcHours] = uint8(total % 24)

	days := int64(m.rtc[rtcDayLow]) | int64(m.rtc[rtcDayHigh]&rtcDayHighBit)<<8
	days += total / 24

	flags := m.rtc[rtcDayHigh] &^ rtcDayHighBit
	if days > 0x1FF {
		flags |= rtcCarryBit
		days %= 0x200
	}
	m.rtc[rtcDayLow] = uint8(days)
	m.rtc[rtcDayHigh] = flags | uint8(days>>8)&rtcDayHighBit
}

// MBC5 is the most advanced MBC chip. Features include:
//   - Supports up to 8MB ROM (512 16KB banks)
//   - Up to 128KB RAM (16 8KB banks)
//   - 9-bit ROM bank number, bank 0 is selectable in the switchable window
//   - Optional rumble motor, driven by bit 3 of the RAM bank register
type MBC5 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint16
	ramBank    uint8
	ramEnabled bool
	hasRumble  bool
	rumble     bool
}

// NewMBC5 creates a new MBC5 controller
func NewMBC5(romData []uint8, hasRumble bool, ramBankCount uint8) *MBC5 {
	return &MBC5{
		rom:       romData,
		ram:       make([]uint8, int(ramBankCount)*ramBankSize),
		romBank:   1,
		hasRumble: hasRumble,
	}
}

func (m *MBC5) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return readBankedROM(m.rom, 0, addr)
	case addr <= 0x7FFF:
		return readBankedROM(m.rom, int(m.romBank), addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[ramOffset(m.ram, int(m.ramBank), addr)]
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(addr uint16, value uint8) error {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x2FFF:
		m.romBank = m.romBank&0x100 | uint16(value)
	case addr <= 0x3FFF:
		m.romBank = m.romBank&0xFF | uint16(value&0x01)<<8
	case addr <= 0x5FFF:
		if m.hasRumble {
			m.rumble = value&0x08 != 0
			m.ramBank = value & 0x07
		} else {
			m.ramBank = value & 0x0F
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled && len(m.ram) > 0 {
			m.ram[ramOffset(m.ram, int(m.ramBank), addr)] = value
		}
	default:
		return ErrIllegalWrite
	}
	return nil
}

// Rumble reports whether the rumble motor is currently driven.
func (m *MBC5) Rumble() bool {
	return m.rumble
}
