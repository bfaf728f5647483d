package jeebie

import (
	"github.com/valerio/go-jeebie-core/jeebie/debug"
	"github.com/valerio/go-jeebie-core/jeebie/memory"
)

// Emulator is the interface front ends drive a machine through.
type Emulator interface {
	Step(mode StepMode) (Report, error)
	RunUntilFrame() error
	Press(key memory.JoypadKey)
	Release(key memory.JoypadKey)
	ExtractDebugData() *debug.Data
}

var _ Emulator = (*DMG)(nil)
