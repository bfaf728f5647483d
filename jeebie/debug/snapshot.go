package debug

// Reader is the memory a snapshot is taken from.
type Reader interface {
	Read(address uint16) uint8
}

// MemorySnapshot contains a snapshot of memory for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// TakeSnapshot copies size bytes starting at start. The copy stops at the end
// of the address space instead of wrapping to 0x0000.
func TakeSnapshot(r Reader, start uint16, size int) *MemorySnapshot {
	if limit := 0x10000 - int(start); size > limit {
		size = limit
	}
	if size < 0 {
		size = 0
	}

	s := &MemorySnapshot{StartAddr: start, Bytes: make([]uint8, size)}
	for i := range s.Bytes {
		s.Bytes[i] = r.Read(start + uint16(i))
	}
	return s
}

// SnapshotAround takes a snapshot of size bytes that starts before bytes
// ahead of address, clamped at 0x0000.
func SnapshotAround(r Reader, address uint16, before, size int) *MemorySnapshot {
	start := int(address) - before
	if start < 0 {
		start = 0
	}
	return TakeSnapshot(r, uint16(start), size)
}

// Contains reports whether the address lies inside the snapshot.
func (s *MemorySnapshot) Contains(address uint16) bool {
	return s != nil && int(address) >= int(s.StartAddr) && int(address) < int(s.StartAddr)+len(s.Bytes)
}

// Read returns the captured byte at address, or 0xFF outside the snapshot.
func (s *MemorySnapshot) Read(address uint16) uint8 {
	if !s.Contains(address) {
		return 0xFF
	}
	return s.Bytes[address-s.StartAddr]
}
