package mcv

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

// testEnv records all side effects of a Machine in order.
type testEnv struct {
	events []string
	out    bytes.Buffer
	m      *Machine
}

func newTestEnv() *testEnv {
	env := &testEnv{}
	env.m = NewMachine(env, &env.out, UpdateTriggerFunc(func() {
		env.events = append(env.events, "update")
	}))
	return env
}

func (e *testEnv) Enable(ch motor.Channel) {
	e.events = append(e.events, fmt.Sprintf("enable %d", ch))
}

func (e *testEnv) Disable(ch motor.Channel) {
	e.events = append(e.events, fmt.Sprintf("disable %d", ch))
}

func (e *testEnv) SetDirection(ch motor.Channel, dir motor.Direction) {
	e.events = append(e.events, fmt.Sprintf("dir %d %s", ch, dir))
}

func (e *testEnv) SetSpeed(ch motor.Channel, speed uint8) {
	e.events = append(e.events, fmt.Sprintf("speed %d %d", ch, speed))
}

func (e *testEnv) feed(bs ...byte) *testEnv {
	for _, b := range bs {
		e.m.Step(b)
	}
	return e
}

func (e *testEnv) enter(mode Mode) *testEnv {
	switch mode {
	case ModeSpeed0:
		e.feed(byte(CommandSpeed0))
	case ModeSpeed1:
		e.feed(byte(CommandSpeed1))
	}
	return e
}

var allModes = []Mode{ModeIdle, ModeSpeed0, ModeSpeed1}

func TestMachine(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		mode   Mode
		events []string
		output string
	}{
		{
			name: "nop",
			in:   []byte{0},
			mode: ModeIdle,
		},
		{
			name:   "version",
			in:     []byte{1},
			mode:   ModeIdle,
			output: "MCV4B:1\n",
		},
		{
			name: "select speed0",
			in:   []byte{2},
			mode: ModeSpeed0,
		},
		{
			name: "select speed1",
			in:   []byte{3},
			mode: ModeSpeed1,
		},
		{
			name:   "bootloader",
			in:     []byte{4},
			mode:   ModeIdle,
			events: []string{"update"},
		},
		{
			name:   "speed0 reverse",
			in:     []byte{2, 5},
			mode:   ModeIdle,
			events: []string{"enable 0", "dir 0 rev", "speed 0 123"},
		},
		{
			name:   "speed1 forward",
			in:     []byte{3, 200},
			mode:   ModeIdle,
			events: []string{"enable 1", "dir 1 fwd", "speed 1 72"},
		},
		{
			name:   "speed disable",
			in:     []byte{3, 1},
			mode:   ModeIdle,
			events: []string{"disable 1"},
		},
		{
			name:   "speed zero magnitude",
			in:     []byte{2, 128},
			mode:   ModeIdle,
			events: []string{"enable 0", "dir 0 fwd", "speed 0 0"},
		},
		{
			name: "speed suppressed",
			in:   []byte{2, 0},
			mode: ModeIdle,
		},
		{
			name: "command bytes are speeds after select",
			in:   []byte{2, 4, 3, 1, 2, 2},
			mode: ModeIdle,
			events: []string{
				"enable 0", "dir 0 rev", "speed 0 124",
				"disable 1",
				"enable 0", "dir 0 rev", "speed 0 126",
			},
		},
		{
			name:   "select then version",
			in:     []byte{2, 0, 1},
			mode:   ModeIdle,
			output: "MCV4B:1\n",
		},
		{
			name: "unknown commands",
			in:   []byte{5, 0x80, 0xff, 3},
			mode: ModeSpeed1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv().feed(tc.in...)
			require.Equal(t, tc.mode, env.m.Mode())
			require.Equal(t, tc.events, env.events)
			require.Equal(t, tc.output, env.out.String())
		})
	}
}

func TestIdleCommands(t *testing.T) {
	expect := map[byte]Mode{2: ModeSpeed0, 3: ModeSpeed1}
	for v := 0; v < 256; v++ {
		b := byte(v)
		env := newTestEnv().feed(b)
		if mode, ok := expect[b]; ok {
			require.Equal(t, mode, env.m.Mode(), "byte %d", v)
		} else {
			require.Equal(t, ModeIdle, env.m.Mode(), "byte %d", v)
		}
		if v > 4 {
			nop := newTestEnv().feed(0)
			require.Equal(t, nop.events, env.events, "byte %d", v)
			require.Equal(t, nop.out.String(), env.out.String(), "byte %d", v)
			require.Nil(t, env.events)
		}
	}
}

func TestZeroReturnsToIdle(t *testing.T) {
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			env := newTestEnv().enter(mode)
			require.Equal(t, mode, env.m.Mode())
			env.feed(0)
			require.Equal(t, ModeIdle, env.m.Mode())
			require.Empty(t, env.events)
			require.Empty(t, env.out.String())
		})
	}
}

func TestZeroSpamIdempotent(t *testing.T) {
	for _, mode := range allModes {
		for n := 1; n <= 8; n++ {
			env := newTestEnv().enter(mode)
			for i := 0; i < n; i++ {
				env.feed(0)
				require.Equal(t, ModeIdle, env.m.Mode())
			}
			require.Empty(t, env.events)
			require.Empty(t, env.out.String())
		}
	}
}

func TestSpeedBytes(t *testing.T) {
	for _, mode := range []Mode{ModeSpeed0, ModeSpeed1} {
		ch, ok := mode.Channel()
		require.True(t, ok)
		for v := 2; v < 256; v++ {
			env := newTestEnv().enter(mode).feed(byte(v))
			require.Equal(t, ModeIdle, env.m.Mode())
			dir, mag := "fwd", v-128
			if v < 128 {
				dir, mag = "rev", 128-v
			}
			require.Equal(t, []string{
				fmt.Sprintf("enable %d", ch),
				fmt.Sprintf("dir %d %s", ch, dir),
				fmt.Sprintf("speed %d %d", ch, mag),
			}, env.events, "mode %s byte %d", mode, v)
		}
	}
}

func TestIndependentMachines(t *testing.T) {
	a, b := newTestEnv(), newTestEnv()
	a.feed(2)
	require.Equal(t, ModeSpeed0, a.m.Mode())
	require.Equal(t, ModeIdle, b.m.Mode())
}

func TestMode(t *testing.T) {
	_, ok := ModeIdle.Channel()
	require.False(t, ok)
	ch, ok := ModeSpeed1.Channel()
	require.True(t, ok)
	require.Equal(t, motor.Channel1, ch)
	require.Equal(t, "invalid", Mode(7).String())
	require.Equal(t, CommandSpeed1, SpeedCommand(motor.Channel1))
	require.Equal(t, "unknown(9)", Command(9).String())
}
