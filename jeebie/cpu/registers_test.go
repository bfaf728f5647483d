package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistersPairsAreViews(t *testing.T) {
	testCases := []struct {
		desc       string
		pair       Reg16
		high, low  Reg8
		value      uint16
		wantHigh   uint8
		wantLow    uint8
		wantReadBk uint16
	}{
		{desc: "BC", pair: BC, high: B, low: C, value: 0x1234, wantHigh: 0x12, wantLow: 0x34, wantReadBk: 0x1234},
		{desc: "DE", pair: DE, high: D, low: E, value: 0xBEEF, wantHigh: 0xBE, wantLow: 0xEF, wantReadBk: 0xBEEF},
		{desc: "HL", pair: HL, high: H, low: L, value: 0x8000, wantHigh: 0x80, wantLow: 0x00, wantReadBk: 0x8000},
		{desc: "AF drops the low nibble of F", pair: AF, high: A, low: F, value: 0x12FF, wantHigh: 0x12, wantLow: 0xF0, wantReadBk: 0x12F0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			var r Registers
			r.Set16(tC.pair, tC.value)
			assert.Equal(t, tC.wantHigh, r.Get8(tC.high))
			assert.Equal(t, tC.wantLow, r.Get8(tC.low))
			assert.Equal(t, tC.wantReadBk, r.Get16(tC.pair))
		})
	}
}

func TestRegistersSet8(t *testing.T) {
	var r Registers

	r.Set8(H, 0xAB)
	r.Set8(L, 0xCD)
	assert.Equal(t, uint16(0xABCD), r.Get16(HL))

	r.Set8(F, 0x0F)
	assert.Equal(t, uint8(0x00), r.Get8(F))
}

func TestRegistersSPAndPCWrap(t *testing.T) {
	var r Registers
	r.Set16(SP, 0x0000)
	r.sp--
	assert.Equal(t, uint16(0xFFFF), r.Get16(SP))

	r.Set16(PC, 0xFFFF)
	r.pc++
	assert.Equal(t, uint16(0x0000), r.Get16(PC))
}

func TestRegistersFlags(t *testing.T) {
	var r Registers

	r.SetFlag(ZeroFlag, true)
	r.SetFlag(CarryFlag, true)
	assert.True(t, r.Flag(ZeroFlag))
	assert.False(t, r.Flag(SubFlag))
	assert.Equal(t, uint8(0x90), r.Get8(F))
	assert.Equal(t, uint8(1), r.flagBit(CarryFlag))

	r.SetFlag(ZeroFlag, false)
	assert.Equal(t, uint8(0x10), r.Get8(F))
	assert.Equal(t, uint8(0), r.flagBit(HalfCarryFlag))
}

func TestRegistersString(t *testing.T) {
	var r Registers
	r.setPostBoot()

	assert.Equal(t, "AF=01B0 BC=0013 DE=00D8 HL=014D SP=FFFE PC=0100 [Z-HC]", r.String())
}
