package memory

import (
	"strings"
	"unicode"
)

// cleanGameboyTitle turns the 16 header title bytes into a printable string.
// The title ends at the first NUL; later bytes may hold the manufacturer
// code or the CGB flag on newer carts, so bytes >= 0x80 are dropped as well.
func cleanGameboyTitle(titleBytes []byte) string {
	runes := make([]rune, 0, len(titleBytes))

	for _, b := range titleBytes {
		if b == 0 || b >= 0x80 {
			break
		}
		r := rune(b)
		if !unicode.IsPrint(r) {
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))

	// If title is empty after cleaning, use a placeholder
	if title == "" {
		return "(Untitled)"
	}

	return title
}
