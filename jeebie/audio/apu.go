// Package audio models the APU register file. No sound is synthesized:
// registers read back with their hardware masks and every sample is silence.
package audio

import (
	"github.com/valerio/go-jeebie-core/jeebie/addr"
	"github.com/valerio/go-jeebie-core/jeebie/bit"
)

// readMasks holds the bits of each register in 0xFF10-0xFF2F that always read as 1.
// Reference: https://gbdev.io/pandocs/Audio_Registers.html
var readMasks = [0x20]uint8{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10-NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // unused, NR21-NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30-NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // unused, NR41-NR44
	0x00, 0x00, 0x70, // NR50-NR52
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // unused
}

// dacRegisters and triggerRegisters are indexed by channel.
var (
	dacRegisters     = [4]uint16{addr.NR12, addr.NR22, addr.NR30, addr.NR42}
	triggerRegisters = [4]uint16{addr.NR14, addr.NR24, addr.NR34, addr.NR44}
)

// Provider hands generated samples to an audio backend.
type Provider interface {
	// GetSamples retrieves audio samples for playback
	GetSamples(count int) []int16
}

var _ Provider = (*APU)(nil)

// APU implements the register interface of the Game Boy's Audio Processing Unit.
type APU struct {
	enabled   bool        // master audio enable (NR52 bit 7)
	registers [0x20]uint8 // FF10-FF2F
	waveRAM   [16]uint8   // FF30-FF3F
	channelOn [4]bool     // NR52 status bits 0-3
}

// New creates a new APU with the post-boot register values.
func New() *APU {
	a := &APU{}
	a.Reset()
	return a
}

// Reset restores the power-on register values.
// Reference: https://gbdev.io/pandocs/Power_Up_Sequence.html#hardware-registers
func (a *APU) Reset() {
	a.registers = [0x20]uint8{}
	a.set(addr.NR10, 0x80)
	a.set(addr.NR11, 0xBF)
	a.set(addr.NR12, 0xF3)
	a.set(addr.NR14, 0xBF)
	a.set(addr.NR21, 0x3F)
	a.set(addr.NR24, 0xBF)
	a.set(addr.NR30, 0x7F)
	a.set(addr.NR31, 0xFF)
	a.set(addr.NR32, 0x9F)
	a.set(addr.NR34, 0xBF)
	a.set(addr.NR41, 0xFF)
	a.set(addr.NR44, 0xBF)
	a.set(addr.NR50, 0x77)
	a.set(addr.NR51, 0xF3)
	a.enabled = true
	a.channelOn = [4]bool{true, false, false, false}
}

func (a *APU) set(address uint16, value uint8) {
	a.registers[address-addr.AudioStart] = value
}

func (a *APU) get(address uint16) uint8 {
	return a.registers[address-addr.AudioStart]
}

// ReadRegister reads from an audio register.
func (a *APU) ReadRegister(address uint16) uint8 {
	switch {
	case address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd:
		return a.waveRAM[address-addr.WaveRAMStart]
	case address == addr.NR52:
		status := readMasks[address-addr.AudioStart]
		status = bit.SetTo(7, status, a.enabled)
		for ch, on := range a.channelOn {
			status = bit.SetTo(uint8(ch), status, on)
		}
		return status
	case address >= addr.AudioStart && address < addr.WaveRAMStart:
		index := address - addr.AudioStart
		return a.registers[index] | readMasks[index]
	}
	return 0xFF
}

// WriteRegister writes to an audio register. While powered off only NR52 and
// wave RAM accept writes.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch {
	case address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd:
		a.waveRAM[address-addr.WaveRAMStart] = value
	case address == addr.NR52:
		wasEnabled := a.enabled
		a.enabled = bit.IsSet(7, value)
		if wasEnabled && !a.enabled {
			a.registers = [0x20]uint8{}
			a.channelOn = [4]bool{}
		}
	case address >= addr.AudioStart && address < addr.WaveRAMStart:
		if !a.enabled {
			return
		}
		a.set(address, value)
		a.updateChannels(address, value)
	}
}

func (a *APU) dacEnabled(ch int) bool {
	if ch == 2 {
		return bit.IsSet(7, a.get(addr.NR30))
	}
	return a.get(dacRegisters[ch])&0xF8 != 0
}

// updateChannels tracks the NR52 status bits: a trigger turns a channel on
// when its DAC is powered, turning the DAC off silences it.
func (a *APU) updateChannels(address uint16, value uint8) {
	for ch := range a.channelOn {
		switch address {
		case dacRegisters[ch]:
			if !a.dacEnabled(ch) {
				a.channelOn[ch] = false
			}
		case triggerRegisters[ch]:
			if bit.IsSet(7, value) && a.dacEnabled(ch) {
				a.channelOn[ch] = true
			}
		}
	}
}

// Sample returns the current output level, always silence.
func (a *APU) Sample() (left, right int16) {
	return 0, 0
}

// GetSamples returns count samples of silence.
func (a *APU) GetSamples(count int) []int16 {
	return make([]int16, count)
}
