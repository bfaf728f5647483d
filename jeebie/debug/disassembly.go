package debug

import (
	"github.com/valerio/go-jeebie-core/jeebie/disasm"
)

type DisasmLine struct {
	Address     uint16
	Instruction string
	IsCurrent   bool
}

// CreateDisassembly decodes the snapshot from its start and returns at most
// maxLines lines centred on pc.
func CreateDisassembly(snapshot *MemorySnapshot, pc uint16, maxLines int) []DisasmLine {
	if snapshot == nil || len(snapshot.Bytes) == 0 || maxLines <= 0 {
		return nil
	}

	if !snapshot.Contains(pc) {
		return []DisasmLine{{Address: pc, Instruction: "[PC outside snapshot range]", IsCurrent: true}}
	}

	var all []DisasmLine
	pcIndex := -1
	end := int(snapshot.StartAddr) + len(snapshot.Bytes)
	for addr := int(snapshot.StartAddr); addr < end; {
		// decoding from the snapshot start can land mid-instruction; resync on PC
		if addr > int(pc) && pcIndex < 0 {
			addr = int(pc)
		}

		line := disasm.DisassembleAt(uint16(addr), snapshot)
		if uint16(addr) == pc {
			pcIndex = len(all)
		}
		all = append(all, DisasmLine{
			Address:     uint16(addr),
			Instruction: line.Instruction,
			IsCurrent:   uint16(addr) == pc,
		})
		addr += line.Length
	}

	startIdx := pcIndex - maxLines/2
	if startIdx < 0 {
		startIdx = 0
	}
	endIdx := startIdx + maxLines
	if endIdx > len(all) {
		endIdx = len(all)
		startIdx = max(endIdx-maxLines, 0)
	}
	return all[startIdx:endIdx]
}
