package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPU_alu(t *testing.T) {
	testCases := []struct {
		desc    string
		op      aluOp
		a       uint8
		value   uint8
		carryIn bool
		want    uint8
		flags   Flag
	}{
		{desc: "ADD overflows to zero", op: aluAdd, a: 0x3A, value: 0xC6, want: 0x00, flags: ZeroFlag | HalfCarryFlag | CarryFlag},
		{desc: "ADD half carry", op: aluAdd, a: 0x0F, value: 0x01, want: 0x10, flags: HalfCarryFlag},
		{desc: "ADD ignores carry in", op: aluAdd, a: 0x01, value: 0x01, carryIn: true, want: 0x02},
		{desc: "ADC adds carry in", op: aluAdc, a: 0xE1, value: 0x0F, carryIn: true, want: 0xF1, flags: HalfCarryFlag},
		{desc: "ADC carry into bit 8", op: aluAdc, a: 0xFF, value: 0x00, carryIn: true, want: 0x00, flags: ZeroFlag | HalfCarryFlag | CarryFlag},
		{desc: "SUB to zero", op: aluSub, a: 0x3E, value: 0x3E, want: 0x00, flags: ZeroFlag | SubFlag},
		{desc: "SUB half borrow", op: aluSub, a: 0x3E, value: 0x0F, want: 0x2F, flags: SubFlag | HalfCarryFlag},
		{desc: "SUB borrow", op: aluSub, a: 0x3E, value: 0x40, want: 0xFE, flags: SubFlag | CarryFlag},
		{desc: "SBC subtracts carry in", op: aluSbc, a: 0x3B, value: 0x2A, carryIn: true, want: 0x10, flags: SubFlag},
		{desc: "SBC borrow from carry in", op: aluSbc, a: 0x00, value: 0x00, carryIn: true, want: 0xFF, flags: SubFlag | HalfCarryFlag | CarryFlag},
		{desc: "CP leaves A alone", op: aluCp, a: 0x3C, value: 0x2F, want: 0x3C, flags: SubFlag | HalfCarryFlag},
		{desc: "CP equal", op: aluCp, a: 0x3C, value: 0x3C, want: 0x3C, flags: ZeroFlag | SubFlag},
		{desc: "AND sets half carry", op: aluAnd, a: 0x5A, value: 0x3F, want: 0x1A, flags: HalfCarryFlag},
		{desc: "AND zero", op: aluAnd, a: 0x5A, value: 0x00, want: 0x00, flags: ZeroFlag | HalfCarryFlag},
		{desc: "XOR clears carry", op: aluXor, a: 0xFF, value: 0xFF, carryIn: true, want: 0x00, flags: ZeroFlag},
		{desc: "OR", op: aluOr, a: 0x5A, value: 0x03, want: 0x5B},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, _, _ := newTestCPU(t)
			cpu.regs.Set8(F, 0)
			cpu.regs.SetFlag(CarryFlag, tC.carryIn)
			cpu.regs.Set8(A, tC.a)

			cpu.alu(tC.op, tC.value)

			assert.Equal(t, tC.want, cpu.regs.Get8(A))
			assert.Equal(t, uint8(tC.flags), cpu.regs.Get8(F))
		})
	}
}

func TestCPU_inc(t *testing.T) {
	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "increases", arg: 0x0A, want: 0x0B, flags: CarryFlag},
		{desc: "sets zero flag", arg: 0xFF, want: 0, flags: ZeroFlag | HalfCarryFlag | CarryFlag},
		{desc: "sets half carry flag", arg: 0x0F, want: 0x10, flags: HalfCarryFlag | CarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, _, _ := newTestCPU(t)
			cpu.regs.Set8(F, uint8(SubFlag|CarryFlag))

			assert.Equal(t, tC.want, cpu.inc(tC.arg))
			assert.Equal(t, uint8(tC.flags), cpu.regs.Get8(F), "carry is preserved")
		})
	}
}

func TestCPU_dec(t *testing.T) {
	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "decreases", arg: 0x0A, want: 0x09, flags: SubFlag},
		{desc: "sets half carry flags", arg: 0, want: 0xFF, flags: SubFlag | HalfCarryFlag},
		{desc: "sets zero flag", arg: 0x01, want: 0, flags: SubFlag | ZeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, _, _ := newTestCPU(t)
			cpu.regs.Set8(F, 0)

			assert.Equal(t, tC.want, cpu.dec(tC.arg))
			assert.Equal(t, uint8(tC.flags), cpu.regs.Get8(F))
		})
	}
}

func TestCPU_addToHL(t *testing.T) {
	testCases := []struct {
		desc  string
		hl    uint16
		value uint16
		want  uint16
		flags Flag
	}{
		{desc: "half carry from bit 11", hl: 0x8A23, value: 0x0605, want: 0x9028, flags: ZeroFlag | HalfCarryFlag},
		{desc: "carry from bit 15", hl: 0x8A23, value: 0x8A23, want: 0x1446, flags: ZeroFlag | HalfCarryFlag | CarryFlag},
		{desc: "no carries", hl: 0x0001, value: 0x0001, want: 0x0002, flags: ZeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, _, _ := newTestCPU(t)
			cpu.regs.Set8(F, uint8(ZeroFlag|SubFlag))
			cpu.regs.Set16(HL, tC.hl)

			cpu.addToHL(tC.value)

			assert.Equal(t, tC.want, cpu.regs.Get16(HL))
			assert.Equal(t, uint8(tC.flags), cpu.regs.Get8(F), "Z is preserved, N cleared")
		})
	}
}

func TestCPU_addSPSigned(t *testing.T) {
	testCases := []struct {
		desc   string
		sp     uint16
		offset uint8
		want   uint16
		flags  Flag
	}{
		{desc: "positive", sp: 0xFFF8, offset: 0x02, want: 0xFFFA},
		{desc: "carries from the low byte", sp: 0xFFF8, offset: 0x08, want: 0x0000, flags: HalfCarryFlag | CarryFlag},
		{desc: "negative", sp: 0x0001, offset: 0xFF, want: 0x0000, flags: HalfCarryFlag | CarryFlag},
		{desc: "negative without carries", sp: 0x1000, offset: 0xFE, want: 0x0FFE},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, _, _ := newTestCPU(t)
			cpu.regs.Set8(F, uint8(ZeroFlag|SubFlag))
			cpu.regs.sp = tC.sp

			assert.Equal(t, tC.want, cpu.addSPSigned(tC.offset))
			assert.Equal(t, uint8(tC.flags), cpu.regs.Get8(F))
		})
	}
}

func TestCPU_daa(t *testing.T) {
	testCases := []struct {
		desc  string
		a     uint8
		flags Flag
		want  uint8
		wantF Flag
	}{
		{desc: "carry set on 0x37", a: 0x37, flags: CarryFlag, want: 0x97, wantF: CarryFlag},
		{desc: "after addition", a: 0x7D, want: 0x83},
		{desc: "after subtraction", a: 0x4B, flags: SubFlag | HalfCarryFlag, want: 0x45, wantF: SubFlag},
		{desc: "wraps to zero with carry", a: 0x9A, want: 0x00, wantF: ZeroFlag | CarryFlag},
		{desc: "already valid", a: 0x42, want: 0x42},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, _, _ := newTestCPU(t)
			cpu.regs.Set8(A, tC.a)
			cpu.regs.Set8(F, uint8(tC.flags))

			cpu.daa()

			assert.Equal(t, tC.want, cpu.regs.Get8(A))
			assert.Equal(t, uint8(tC.wantF), cpu.regs.Get8(F))
		})
	}
}

func TestCPU_shift(t *testing.T) {
	testCases := []struct {
		desc    string
		op      shiftOp
		value   uint8
		carryIn bool
		want    uint8
		flags   Flag
	}{
		{desc: "RLC", op: opRLC, value: 0x85, want: 0x0B, flags: CarryFlag},
		{desc: "RRC", op: opRRC, value: 0x01, want: 0x80, flags: CarryFlag},
		{desc: "RL through carry", op: opRL, value: 0x80, want: 0x00, flags: ZeroFlag | CarryFlag},
		{desc: "RL shifts carry in", op: opRL, value: 0x11, carryIn: true, want: 0x23},
		{desc: "RR through carry", op: opRR, value: 0x01, want: 0x00, flags: ZeroFlag | CarryFlag},
		{desc: "RR shifts carry in", op: opRR, value: 0x8A, carryIn: true, want: 0xC5},
		{desc: "SLA", op: opSLA, value: 0xFF, want: 0xFE, flags: CarryFlag},
		{desc: "SRA keeps bit 7", op: opSRA, value: 0x8A, want: 0xC5},
		{desc: "SWAP", op: opSWAP, value: 0xF0, carryIn: true, want: 0x0F},
		{desc: "SWAP zero", op: opSWAP, value: 0x00, want: 0x00, flags: ZeroFlag},
		{desc: "SRL", op: opSRL, value: 0x01, want: 0x00, flags: ZeroFlag | CarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, _, _ := newTestCPU(t)
			cpu.regs.Set8(F, uint8(SubFlag|HalfCarryFlag))
			cpu.regs.SetFlag(CarryFlag, tC.carryIn)

			assert.Equal(t, tC.want, cpu.shift(tC.op, tC.value))
			assert.Equal(t, uint8(tC.flags), cpu.regs.Get8(F))
		})
	}
}

func TestCPU_rotateAClearsZero(t *testing.T) {
	for _, op := range []shiftOp{opRLC, opRRC, opRL, opRR} {
		t.Run(shiftNames[op], func(t *testing.T) {
			cpu, _, _ := newTestCPU(t)
			cpu.regs.Set8(A, 0)
			cpu.regs.Set8(F, 0)

			cpu.rotateA(op)

			assert.Equal(t, uint8(0), cpu.regs.Get8(A))
			assert.Equal(t, uint8(0), cpu.regs.Get8(F))
		})
	}
}

func TestCPU_bitTest(t *testing.T) {
	cpu, _, _ := newTestCPU(t)
	cpu.regs.Set8(F, uint8(SubFlag|CarryFlag))

	cpu.bitTest(7, 0x7F)
	assert.Equal(t, uint8(ZeroFlag|HalfCarryFlag|CarryFlag), cpu.regs.Get8(F))

	cpu.bitTest(0, 0x01)
	assert.Equal(t, uint8(HalfCarryFlag|CarryFlag), cpu.regs.Get8(F))
}
