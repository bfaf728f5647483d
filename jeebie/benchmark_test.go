package jeebie

import (
	"testing"
)

func BenchmarkRunFrames(b *testing.B) {
	testCases := []struct {
		desc    string
		program []byte
		frames  int
	}{
		// JR -2
		{desc: "busy_loop_100", program: []byte{0x18, 0xFE}, frames: 100},
		// DI; HALT
		{desc: "halted_100", program: []byte{0xF3, 0x76}, frames: 100},
		// LD HL, 0xC000; loop: LD (HL+), A; INC A; JR loop
		{desc: "wram_fill_100", program: []byte{0x21, 0x00, 0xC0, 0x22, 0x3C, 0x18, 0xFC}, frames: 100},
	}

	for _, tC := range testCases {
		b.Run(tC.desc, func(b *testing.B) {
			emu, err := NewWithData(testROM(tC.program, nil))
			if err != nil {
				b.Fatalf("Failed to create emulator: %v", err)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if err := emu.RunFrames(tC.frames); err != nil {
					b.Fatalf("RunFrames failed: %v", err)
				}
			}
		})
	}
}
