package input

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/valerio/go-jeebie-core/jeebie/memory"
)

// Type is the kind of an input event.
type Type int

const (
	Press Type = iota
	Release
)

func (t Type) String() string {
	if t == Release {
		return "release"
	}
	return "press"
}

// Event presses or releases a key once the machine has completed Frame frames.
type Event struct {
	Frame uint64
	Key   memory.JoypadKey
	Type  Type
}

func (e Event) String() string {
	return fmt.Sprintf("%d:%s:%s", e.Frame, e.Key, e.Type)
}

// Target receives the events of a script, *jeebie.DMG implements it.
type Target interface {
	Press(key memory.JoypadKey)
	Release(key memory.JoypadKey)
}

// Script is a frame ordered list of input events for headless runs.
type Script struct {
	events []Event
	next   int
}

// ParseScript reads a comma separated list of frame:key[:press|release]
// entries, e.g. "30:start,36:start:release". Entries may come in any order;
// events on the same frame keep their relative order.
func ParseScript(s string) (*Script, error) {
	script := &Script{}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		evt, err := parseEvent(entry)
		if err != nil {
			return nil, err
		}
		script.events = append(script.events, evt)
	}

	sort.SliceStable(script.events, func(i, j int) bool {
		return script.events[i].Frame < script.events[j].Frame
	})
	return script, nil
}

func parseEvent(entry string) (Event, error) {
	parts := strings.Split(entry, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Event{}, fmt.Errorf("input %q: want frame:key[:press|release]", entry)
	}

	frame, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("input %q: invalid frame: %w", entry, err)
	}
	key, ok := LookupKey(parts[1])
	if !ok {
		return Event{}, fmt.Errorf("input %q: unknown key %q", entry, parts[1])
	}

	evt := Event{Frame: frame, Key: key, Type: Press}
	if len(parts) == 3 {
		switch strings.ToLower(parts[2]) {
		case "press", "":
		case "release":
			evt.Type = Release
		default:
			return Event{}, fmt.Errorf("input %q: unknown event %q", entry, parts[2])
		}
	}
	return evt, nil
}

// Events returns the parsed events in the order they are applied.
func (s *Script) Events() []Event {
	return s.events
}

// Done reports whether every event has been applied.
func (s *Script) Done() bool {
	return s.next >= len(s.events)
}

// Apply sends every event due at or before frame to t and returns how many
// were sent. Each event is sent once.
func (s *Script) Apply(frame uint64, t Target) int {
	sent := 0
	for ; s.next < len(s.events) && s.events[s.next].Frame <= frame; s.next++ {
		evt := s.events[s.next]
		switch evt.Type {
		case Press:
			t.Press(evt.Key)
		case Release:
			t.Release(evt.Key)
		}
		sent++
	}
	return sent
}
