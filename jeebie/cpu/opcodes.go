package cpu

import (
	"fmt"

	"github.com/valerio/go-jeebie-core/jeebie/bit"
)

var (
	// 16 bit operand pairs for loads and arithmetic, encoded in bits 4-5
	pairs = [4]Reg16{BC, DE, HL, SP}
	// 16 bit operand pairs for PUSH/POP
	stackPairs = [4]Reg16{BC, DE, HL, AF}
)

var illegalOpcodes = [...]uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}

func init() {
	initLoads()
	initArithmetic()
	initControlFlow()
	initMisc()
	initCB()

	for _, op := range illegalOpcodes {
		define(op, "ILLEGAL", None, 4, lockUp)
		baseTable[op].Illegal = true
	}

	// decoded by Step, never executed
	baseTable[cbPrefix] = Instruction{Opcode: cbPrefix, Mnemonic: "PREFIX CB", Length: 1, Cycles: 4}
}

func cost(loc uint8, reg, mem int) int {
	if loc == locHL {
		return mem
	}
	return reg
}

func initLoads() {
	// LD r, r'
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 | dst<<3 | src
			if op == 0x76 {
				continue // HALT
			}
			cycles := 4
			if dst == locHL || src == locHL {
				cycles = 8
			}
			mnemonic := fmt.Sprintf("LD %s, %s", locationNames[dst], locationNames[src])
			define(op, mnemonic, None, cycles, func(c *CPU, _ uint16) {
				c.store8(dst, c.load8(src))
			})
		}
	}

	// LD r, n
	for dst := uint8(0); dst < 8; dst++ {
		op := 0x06 | dst<<3
		define(op, fmt.Sprintf("LD %s, n", locationNames[dst]), Imm8, cost(dst, 8, 12), func(c *CPU, n uint16) {
			c.store8(dst, uint8(n))
		})
	}

	for i, pair := range pairs {
		// LD rr, nn
		define(0x01|uint8(i)<<4, fmt.Sprintf("LD %s, nn", pair), Imm16, 12, func(c *CPU, nn uint16) {
			c.regs.Set16(pair, nn)
		})
	}

	for i, pair := range stackPairs {
		// POP rr
		define(0xC1|uint8(i)<<4, fmt.Sprintf("POP %s", pair), None, 12, func(c *CPU, _ uint16) {
			c.regs.Set16(pair, c.pop())
		})
		// PUSH rr
		define(0xC5|uint8(i)<<4, fmt.Sprintf("PUSH %s", pair), None, 16, func(c *CPU, _ uint16) {
			c.tick()
			c.push(c.regs.Get16(pair))
		})
	}

	//LD (BC), A
	//#0x02:
	define(0x02, "LD (BC), A", None, 8, func(c *CPU, _ uint16) {
		c.write(c.regs.Get16(BC), c.regs.Get8(A))
	})

	//LD (DE), A
	//#0x12:
	define(0x12, "LD (DE), A", None, 8, func(c *CPU, _ uint16) {
		c.write(c.regs.Get16(DE), c.regs.Get8(A))
	})

	//LD (HL+), A
	//#0x22:
	define(0x22, "LD (HL+), A", None, 8, func(c *CPU, _ uint16) {
		hl := c.regs.Get16(HL)
		c.write(hl, c.regs.Get8(A))
		c.regs.Set16(HL, hl+1)
	})

	//LD (HL-), A
	//#0x32:
	define(0x32, "LD (HL-), A", None, 8, func(c *CPU, _ uint16) {
		hl := c.regs.Get16(HL)
		c.write(hl, c.regs.Get8(A))
		c.regs.Set16(HL, hl-1)
	})

	//LD A, (BC)
	//#0x0A:
	define(0x0A, "LD A, (BC)", None, 8, func(c *CPU, _ uint16) {
		c.regs.Set8(A, c.read(c.regs.Get16(BC)))
	})

	//LD A, (DE)
	//#0x1A:
	define(0x1A, "LD A, (DE)", None, 8, func(c *CPU, _ uint16) {
		c.regs.Set8(A, c.read(c.regs.Get16(DE)))
	})

	//LD A, (HL+)
	//#0x2A:
	define(0x2A, "LD A, (HL+)", None, 8, func(c *CPU, _ uint16) {
		hl := c.regs.Get16(HL)
		c.regs.Set8(A, c.read(hl))
		c.regs.Set16(HL, hl+1)
	})

	//LD A, (HL-)
	//#0x3A:
	define(0x3A, "LD A, (HL-)", None, 8, func(c *CPU, _ uint16) {
		hl := c.regs.Get16(HL)
		c.regs.Set8(A, c.read(hl))
		c.regs.Set16(HL, hl-1)
	})

	//LD (nn), SP
	//#0x08:
	define(0x08, "LD (nn), SP", Imm16, 20, func(c *CPU, nn uint16) {
		c.write(nn, bit.Low(c.regs.sp))
		c.write(nn+1, bit.High(c.regs.sp))
	})

	//LDH (n), A
	//#0xE0:
	define(0xE0, "LDH (n), A", Imm8, 12, func(c *CPU, n uint16) {
		c.write(0xFF00|n, c.regs.Get8(A))
	})

	//LDH A, (n)
	//#0xF0:
	define(0xF0, "LDH A, (n)", Imm8, 12, func(c *CPU, n uint16) {
		c.regs.Set8(A, c.read(0xFF00|n))
	})

	//LD (C), A
	//#0xE2:
	define(0xE2, "LD (C), A", None, 8, func(c *CPU, _ uint16) {
		c.write(0xFF00|uint16(c.regs.Get8(C)), c.regs.Get8(A))
	})

	//LD A, (C)
	//#0xF2:
	define(0xF2, "LD A, (C)", None, 8, func(c *CPU, _ uint16) {
		c.regs.Set8(A, c.read(0xFF00|uint16(c.regs.Get8(C))))
	})

	//LD (nn), A
	//#0xEA:
	define(0xEA, "LD (nn), A", Imm16, 16, func(c *CPU, nn uint16) {
		c.write(nn, c.regs.Get8(A))
	})

	//LD A, (nn)
	//#0xFA:
	define(0xFA, "LD A, (nn)", Imm16, 16, func(c *CPU, nn uint16) {
		c.regs.Set8(A, c.read(nn))
	})

	//LD HL, SP+e
	//#0xF8:
	define(0xF8, "LD HL, SP+e", Rel8, 12, func(c *CPU, e uint16) {
		c.regs.Set16(HL, c.addSPSigned(uint8(e)))
		c.tick()
	})

	//LD SP, HL
	//#0xF9:
	define(0xF9, "LD SP, HL", None, 8, func(c *CPU, _ uint16) {
		c.regs.sp = c.regs.Get16(HL)
		c.tick()
	})
}

func initArithmetic() {
	for op := aluAdd; op <= aluCp; op++ {
		// ALU A, r
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 | uint8(op)<<3 | src
			define(opcode, fmt.Sprintf("%s %s", aluNames[op], locationNames[src]), None, cost(src, 4, 8), func(c *CPU, _ uint16) {
				c.alu(op, c.load8(src))
			})
		}
		// ALU A, n
		define(0xC6|uint8(op)<<3, fmt.Sprintf("%s n", aluNames[op]), Imm8, 8, func(c *CPU, n uint16) {
			c.alu(op, uint8(n))
		})
	}

	for loc := uint8(0); loc < 8; loc++ {
		// INC r
		define(0x04|loc<<3, fmt.Sprintf("INC %s", locationNames[loc]), None, cost(loc, 4, 12), func(c *CPU, _ uint16) {
			c.store8(loc, c.inc(c.load8(loc)))
		})
		// DEC r
		define(0x05|loc<<3, fmt.Sprintf("DEC %s", locationNames[loc]), None, cost(loc, 4, 12), func(c *CPU, _ uint16) {
			c.store8(loc, c.dec(c.load8(loc)))
		})
	}

	for i, pair := range pairs {
		// INC rr
		define(0x03|uint8(i)<<4, fmt.Sprintf("INC %s", pair), None, 8, func(c *CPU, _ uint16) {
			c.regs.Set16(pair, c.regs.Get16(pair)+1)
			c.tick()
		})
		// DEC rr
		define(0x0B|uint8(i)<<4, fmt.Sprintf("DEC %s", pair), None, 8, func(c *CPU, _ uint16) {
			c.regs.Set16(pair, c.regs.Get16(pair)-1)
			c.tick()
		})
		// ADD HL, rr
		define(0x09|uint8(i)<<4, fmt.Sprintf("ADD HL, %s", pair), None, 8, func(c *CPU, _ uint16) {
			c.addToHL(c.regs.Get16(pair))
			c.tick()
		})
	}

	//ADD SP, e
	//#0xE8:
	define(0xE8, "ADD SP, e", Rel8, 16, func(c *CPU, e uint16) {
		c.regs.sp = c.addSPSigned(uint8(e))
		c.tick()
		c.tick()
	})

	//DAA
	//#0x27:
	define(0x27, "DAA", None, 4, func(c *CPU, _ uint16) {
		c.daa()
	})

	//CPL
	//#0x2F:
	define(0x2F, "CPL", None, 4, func(c *CPU, _ uint16) {
		c.regs.Set8(A, ^c.regs.Get8(A))
		c.setFlagToCondition(SubFlag, true)
		c.setFlagToCondition(HalfCarryFlag, true)
	})

	//SCF
	//#0x37:
	define(0x37, "SCF", None, 4, func(c *CPU, _ uint16) {
		c.setFlagToCondition(SubFlag, false)
		c.setFlagToCondition(HalfCarryFlag, false)
		c.setFlagToCondition(CarryFlag, true)
	})

	//CCF
	//#0x3F:
	define(0x3F, "CCF", None, 4, func(c *CPU, _ uint16) {
		c.setFlagToCondition(SubFlag, false)
		c.setFlagToCondition(HalfCarryFlag, false)
		c.setFlagToCondition(CarryFlag, !c.regs.Flag(CarryFlag))
	})

	//RLCA
	//#0x07:
	define(0x07, "RLCA", None, 4, func(c *CPU, _ uint16) { c.rotateA(opRLC) })
	//RRCA
	//#0x0F:
	define(0x0F, "RRCA", None, 4, func(c *CPU, _ uint16) { c.rotateA(opRRC) })
	//RLA
	//#0x17:
	define(0x17, "RLA", None, 4, func(c *CPU, _ uint16) { c.rotateA(opRL) })
	//RRA
	//#0x1F:
	define(0x1F, "RRA", None, 4, func(c *CPU, _ uint16) { c.rotateA(opRR) })
}

func initControlFlow() {
	for cc := uint8(0); cc < 4; cc++ {
		name := conditionNames[cc]

		// JR cc, e
		defineBranch(0x20|cc<<3, fmt.Sprintf("JR %s, e", name), Rel8, 8, 12, func(c *CPU, e uint16) {
			if c.condition(cc) {
				c.jr(e)
			}
		})
		// RET cc
		defineBranch(0xC0|cc<<3, fmt.Sprintf("RET %s", name), None, 8, 20, func(c *CPU, _ uint16) {
			c.tick()
			if c.condition(cc) {
				c.ret()
			}
		})
		// JP cc, nn
		defineBranch(0xC2|cc<<3, fmt.Sprintf("JP %s, nn", name), Imm16, 12, 16, func(c *CPU, nn uint16) {
			if c.condition(cc) {
				c.jp(nn)
			}
		})
		// CALL cc, nn
		defineBranch(0xC4|cc<<3, fmt.Sprintf("CALL %s, nn", name), Imm16, 12, 24, func(c *CPU, nn uint16) {
			if c.condition(cc) {
				c.call(nn)
			}
		})
	}

	// RST t
	for i := uint8(0); i < 8; i++ {
		target := uint16(i) * 8
		define(0xC7|i<<3, fmt.Sprintf("RST %02XH", target), None, 16, func(c *CPU, _ uint16) {
			c.call(target)
		})
	}

	//JR e
	//#0x18:
	define(0x18, "JR e", Rel8, 12, func(c *CPU, e uint16) {
		c.jr(e)
	})

	//JP nn
	//#0xC3:
	define(0xC3, "JP nn", Imm16, 16, func(c *CPU, nn uint16) {
		c.jp(nn)
	})

	//JP HL
	//#0xE9:
	define(0xE9, "JP HL", None, 4, func(c *CPU, _ uint16) {
		c.regs.pc = c.regs.Get16(HL)
	})

	//CALL nn
	//#0xCD:
	define(0xCD, "CALL nn", Imm16, 24, func(c *CPU, nn uint16) {
		c.call(nn)
	})

	//RET
	//#0xC9:
	define(0xC9, "RET", None, 16, func(c *CPU, _ uint16) {
		c.ret()
	})

	//RETI
	//#0xD9:
	define(0xD9, "RETI", None, 16, func(c *CPU, _ uint16) {
		c.ret()
		c.SetIME(true)
	})
}

func initMisc() {
	//NOP
	//#0x00:
	define(0x00, "NOP", None, 4, func(_ *CPU, _ uint16) {})

	//STOP
	//#0x10:
	define(0x10, "STOP", None, 4, func(c *CPU, _ uint16) {
		c.regs.pc++ // padding byte
		if r, ok := c.bus.(DividerResetter); ok {
			r.ResetDivider()
		}
		c.stopped = true
	})
	baseTable[0x10].Length = 2

	//HALT
	//#0x76:
	define(0x76, "HALT", None, 4, func(c *CPU, _ uint16) {
		if !c.ime && c.irq.Pending() != 0 {
			c.haltBug = true
			return
		}
		c.halted = true
	})

	//DI
	//#0xF3:
	define(0xF3, "DI", None, 4, func(c *CPU, _ uint16) {
		c.SetIME(false)
	})

	//EI
	//#0xFB:
	define(0xFB, "EI", None, 4, func(c *CPU, _ uint16) {
		if !c.ime && c.eiDelay == 0 {
			c.eiDelay = 2
		}
	})
}

// lockUp freezes the CPU, as the hardware does on an undefined opcode.
func lockUp(c *CPU, _ uint16) {
	c.locked = true
}
