package cpu

import (
	"fmt"

	"github.com/valerio/go-jeebie-core/jeebie/bit"
)

// initCB fills the CB-prefixed table. The low 3 bits of every opcode pick the
// operand location, the upper 5 the operation.
func initCB() {
	for loc := uint8(0); loc < 8; loc++ {
		for op := opRLC; op <= opSRL; op++ {
			defineCB(uint8(op)<<3|loc, fmt.Sprintf("%s %s", shiftNames[op], locationNames[loc]), cost(loc, 8, 16), func(c *CPU, _ uint16) {
				c.store8(loc, c.shift(op, c.load8(loc)))
			})
		}

		for index := uint8(0); index < 8; index++ {
			// BIT b, r
			defineCB(0x40|index<<3|loc, fmt.Sprintf("BIT %d, %s", index, locationNames[loc]), cost(loc, 8, 12), func(c *CPU, _ uint16) {
				c.bitTest(index, c.load8(loc))
			})
			// RES b, r
			defineCB(0x80|index<<3|loc, fmt.Sprintf("RES %d, %s", index, locationNames[loc]), cost(loc, 8, 16), func(c *CPU, _ uint16) {
				c.store8(loc, bit.Reset(index, c.load8(loc)))
			})
			// SET b, r
			defineCB(0xC0|index<<3|loc, fmt.Sprintf("SET %d, %s", index, locationNames[loc]), cost(loc, 8, 16), func(c *CPU, _ uint16) {
				c.store8(loc, bit.Set(index, c.load8(loc)))
			})
		}
	}
}
