package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-jeebie-core/jeebie/memory"
)

type recorder struct {
	events []string
}

func (r *recorder) Press(key memory.JoypadKey)   { r.events = append(r.events, "+"+key.String()) }
func (r *recorder) Release(key memory.JoypadKey) { r.events = append(r.events, "-"+key.String()) }

func TestParseScript(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		want []Event
		err  bool
	}{
		{desc: "empty", in: "", want: nil},
		{
			desc: "press defaults",
			in:   "30:start",
			want: []Event{{Frame: 30, Key: memory.JoypadStart, Type: Press}},
		},
		{
			desc: "sorted by frame",
			in:   "36:Enter:release, 30:z, 30:Right",
			want: []Event{
				{Frame: 30, Key: memory.JoypadA, Type: Press},
				{Frame: 30, Key: memory.JoypadRight, Type: Press},
				{Frame: 36, Key: memory.JoypadStart, Type: Release},
			},
		},
		{desc: "missing key", in: "30", err: true},
		{desc: "bad frame", in: "soon:a", err: true},
		{desc: "unknown key", in: "1:turbo", err: true},
		{desc: "unknown event", in: "1:a:hold", err: true},
		{desc: "too many parts", in: "1:a:press:now", err: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			s, err := ParseScript(tC.in)
			if tC.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tC.want, s.Events())
		})
	}
}

func TestScriptApply(t *testing.T) {
	s, err := ParseScript("2:a,2:b,5:a:release,9:b:release")
	require.NoError(t, err)
	r := &recorder{}

	assert.Equal(t, 0, s.Apply(1, r))
	assert.Equal(t, 2, s.Apply(2, r))
	assert.Equal(t, 0, s.Apply(2, r), "events are applied once")
	assert.Equal(t, 1, s.Apply(8, r))
	assert.False(t, s.Done())
	assert.Equal(t, 1, s.Apply(100, r))
	assert.True(t, s.Done())

	assert.Equal(t, []string{"+a", "+b", "-a", "-b"}, r.events)
}

func TestLookupKey(t *testing.T) {
	key, ok := LookupKey(" SELECT ")
	require.True(t, ok)
	assert.Equal(t, memory.JoypadSelect, key)

	_, ok = LookupKey("escape")
	assert.False(t, ok)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "12:start:release", Event{Frame: 12, Key: memory.JoypadStart, Type: Release}.String())
}
