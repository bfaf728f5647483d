package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-jeebie-core/jeebie/bit"
)

const titleLength = 16

const (
	entryPointAddress     = 0x100
	titleAddress          = 0x134
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	versionNumberAddress  = 0x14C
	headerChecksumAddress = 0x14D
	globalChecksumAddress = 0x14E
	headerEnd             = 0x150
)

// MBCType identifies the bank controller a cartridge carries.
type MBCType uint8

const (
	NoMBCType MBCType = iota
	MBC1Type
	MBC2Type
	MBC3Type
	MBC5Type
)

func (t MBCType) String() string {
	switch t {
	case NoMBCType:
		return "ROM"
	case MBC1Type:
		return "MBC1"
	case MBC2Type:
		return "MBC2"
	case MBC3Type:
		return "MBC3"
	case MBC5Type:
		return "MBC5"
	}
	return fmt.Sprintf("MBCType(%d)", uint8(t))
}

type cartridgeFeatures struct {
	mbc     MBCType
	ram     bool
	battery bool
	rtc     bool
	rumble  bool
}

// cartridgeTypes maps the header type byte to the hardware on the cartridge.
var cartridgeTypes = map[uint8]cartridgeFeatures{
	0x00: {mbc: NoMBCType},
	0x01: {mbc: MBC1Type},
	0x02: {mbc: MBC1Type, ram: true},
	0x03: {mbc: MBC1Type, ram: true, battery: true},
	0x05: {mbc: MBC2Type},
	0x06: {mbc: MBC2Type, battery: true},
	0x08: {mbc: NoMBCType, ram: true},
	0x09: {mbc: NoMBCType, ram: true, battery: true},
	0x0F: {mbc: MBC3Type, rtc: true, battery: true},
	0x10: {mbc: MBC3Type, rtc: true, ram: true, battery: true},
	0x11: {mbc: MBC3Type},
	0x12: {mbc: MBC3Type, ram: true},
	0x13: {mbc: MBC3Type, ram: true, battery: true},
	0x19: {mbc: MBC5Type},
	0x1A: {mbc: MBC5Type, ram: true},
	0x1B: {mbc: MBC5Type, ram: true, battery: true},
	0x1C: {mbc: MBC5Type, rumble: true},
	0x1D: {mbc: MBC5Type, ram: true, rumble: true},
	0x1E: {mbc: MBC5Type, ram: true, battery: true, rumble: true},
}

// ramBankCounts maps the RAM size header byte to a number of 8KiB banks.
// Code 0x01 (2KiB) is rounded up to one bank.
var ramBankCounts = map[uint8]uint8{
	0x00: 0,
	0x01: 1,
	0x02: 1,
	0x03: 4,
	0x04: 16,
	0x05: 8,
}

// Cartridge holds a ROM image and the header fields needed to pick its controller.
type Cartridge struct {
	data           []byte
	Title          string
	Type           uint8
	MBCType        MBCType
	HasBattery     bool
	HasRTC         bool
	HasRumble      bool
	ROMBankCount   int
	RAMBankCount   uint8
	Version        uint8
	HeaderChecksum uint8
	GlobalChecksum uint16
	// ChecksumValid reports whether the header checksum at 0x14D matches 0x134-0x14C.
	ChecksumValid bool
}

// NewCartridge creates an empty 32KiB ROM-only cartridge, useful for tests and
// for booting without a game.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data:          make([]byte, 0x8000),
		Title:         "(Untitled)",
		ROMBankCount:  2,
		ChecksumValid: true,
	}
}

// NewCartridgeWithData decodes the header of a ROM image. Images too small to
// hold a header or with a type byte no controller implements are rejected.
func NewCartridgeWithData(bytes []byte) (*Cartridge, error) {
	if len(bytes) < headerEnd {
		return nil, fmt.Errorf("%w: image is %d bytes, need at least %d", ErrInvalidHeader, len(bytes), headerEnd)
	}

	cartType := bytes[cartridgeTypeAddress]
	features, ok := cartridgeTypes[cartType]
	if !ok {
		return nil, fmt.Errorf("%w: type byte 0x%02X", ErrUnsupportedCartridge, cartType)
	}

	var ramBanks uint8
	if features.ram {
		ramBanks = ramBankCounts[bytes[ramSizeAddress]]
		if ramBanks == 0 {
			// header claims RAM hardware but no size, give it one bank
			ramBanks = 1
		}
	}

	cart := &Cartridge{
		data:           make([]byte, len(bytes)),
		Title:          cleanGameboyTitle(bytes[titleAddress : titleAddress+titleLength]),
		Type:           cartType,
		MBCType:        features.mbc,
		HasBattery:     features.battery,
		HasRTC:         features.rtc,
		HasRumble:      features.rumble,
		ROMBankCount:   bankCount(len(bytes), romBankSize),
		RAMBankCount:   ramBanks,
		Version:        bytes[versionNumberAddress],
		HeaderChecksum: bytes[headerChecksumAddress],
		GlobalChecksum: bit.Combine(bytes[globalChecksumAddress], bytes[globalChecksumAddress+1]),
	}
	copy(cart.data, bytes)

	cart.ChecksumValid = headerChecksum(bytes) == cart.HeaderChecksum
	if !cart.ChecksumValid {
		slog.Warn("Cartridge header checksum mismatch",
			"title", cart.Title,
			"expected", fmt.Sprintf("0x%02X", cart.HeaderChecksum),
			"computed", fmt.Sprintf("0x%02X", headerChecksum(bytes)))
	}

	slog.Debug("Loaded cartridge",
		"title", cart.Title,
		"type", fmt.Sprintf("0x%02X", cartType),
		"mbc", cart.MBCType,
		"rom_banks", cart.ROMBankCount,
		"ram_banks", cart.RAMBankCount)

	return cart, nil
}

// headerChecksum computes the checksum the boot ROM verifies over 0x134-0x14C.
func headerChecksum(data []byte) uint8 {
	var x uint8
	for _, b := range data[titleAddress:headerChecksumAddress] {
		x = x - b - 1
	}
	return x
}

// Data returns the raw ROM image.
func (c *Cartridge) Data() []byte {
	return c.data
}

// EntryPoint returns the four bytes at 0x100 that the boot ROM jumps into.
func (c *Cartridge) EntryPoint() []byte {
	if len(c.data) < entryPointAddress+4 {
		return nil
	}
	return c.data[entryPointAddress : entryPointAddress+4]
}

// NewMBC instantiates the bank controller described by the cartridge header.
// clock is only used by MBC3 carts with a real time clock; nil means wall time.
func NewMBC(cart *Cartridge, clock Clock) (MBC, error) {
	switch cart.MBCType {
	case NoMBCType:
		return NewNoMBC(cart.data, cart.RAMBankCount), nil
	case MBC1Type:
		return NewMBC1(cart.data, cart.HasBattery, cart.RAMBankCount), nil
	case MBC2Type:
		return NewMBC2(cart.data), nil
	case MBC3Type:
		return NewMBC3(cart.data, cart.RAMBankCount, cart.HasRTC, clock), nil
	case MBC5Type:
		return NewMBC5(cart.data, cart.HasRumble, cart.RAMBankCount), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedCartridge, cart.MBCType)
}
