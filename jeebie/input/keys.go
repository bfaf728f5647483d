package input

import (
	"strings"

	"github.com/valerio/go-jeebie-core/jeebie/memory"
)

// DefaultKeyMap maps key names, including the usual keyboard aliases, to
// joypad keys. Lookups are case insensitive.
var DefaultKeyMap = map[string]memory.JoypadKey{
	// Game Boy names
	"a":      memory.JoypadA,
	"b":      memory.JoypadB,
	"start":  memory.JoypadStart,
	"select": memory.JoypadSelect,
	"up":     memory.JoypadUp,
	"down":   memory.JoypadDown,
	"left":   memory.JoypadLeft,
	"right":  memory.JoypadRight,

	// keyboard layout
	"z":     memory.JoypadA,
	"x":     memory.JoypadB,
	"enter": memory.JoypadStart,
	"shift": memory.JoypadSelect,
	"w":     memory.JoypadUp,
	"s":     memory.JoypadDown,
	"d":     memory.JoypadRight,
}

// LookupKey resolves a key name through DefaultKeyMap.
func LookupKey(name string) (memory.JoypadKey, bool) {
	key, ok := DefaultKeyMap[strings.ToLower(strings.TrimSpace(name))]
	return key, ok
}
