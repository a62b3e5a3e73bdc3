package motor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	op    string
	ch    Channel
	dir   Direction
	speed uint8
}

type recorder struct {
	calls []call
}

func (r *recorder) Enable(ch Channel)  { r.calls = append(r.calls, call{op: "enable", ch: ch}) }
func (r *recorder) Disable(ch Channel) { r.calls = append(r.calls, call{op: "disable", ch: ch}) }
func (r *recorder) SetDirection(ch Channel, dir Direction) {
	r.calls = append(r.calls, call{op: "dir", ch: ch, dir: dir})
}
func (r *recorder) SetSpeed(ch Channel, speed uint8) {
	r.calls = append(r.calls, call{op: "speed", ch: ch, speed: speed})
}

func TestApply(t *testing.T) {
	testCases := []struct {
		name   string
		ch     Channel
		b      byte
		expect []call
	}{
		{"disable", Channel0, 1, []call{{op: "disable", ch: Channel0}}},
		{"full reverse", Channel1, 2, []call{
			{op: "enable", ch: Channel1},
			{op: "dir", ch: Channel1, dir: Reverse},
			{op: "speed", ch: Channel1, speed: 126},
		}},
		{"reverse", Channel0, 5, []call{
			{op: "enable", ch: Channel0},
			{op: "dir", ch: Channel0, dir: Reverse},
			{op: "speed", ch: Channel0, speed: 123},
		}},
		{"zero", Channel0, 128, []call{
			{op: "enable", ch: Channel0},
			{op: "dir", ch: Channel0, dir: Forward},
			{op: "speed", ch: Channel0, speed: 0},
		}},
		{"forward", Channel1, 200, []call{
			{op: "enable", ch: Channel1},
			{op: "dir", ch: Channel1, dir: Forward},
			{op: "speed", ch: Channel1, speed: 72},
		}},
		{"full forward", Channel1, 255, []call{
			{op: "enable", ch: Channel1},
			{op: "dir", ch: Channel1, dir: Forward},
			{op: "speed", ch: Channel1, speed: 127},
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var r recorder
			Apply(&r, tc.ch, tc.b)
			require.Equal(t, tc.expect, r.calls)
		})
	}
}

func TestApplyAllBytes(t *testing.T) {
	for v := 2; v <= 255; v++ {
		b := byte(v)
		t.Run(fmt.Sprintf("%d", v), func(t *testing.T) {
			var r recorder
			Apply(&r, Channel1, b)
			require.Len(t, r.calls, 3)
			require.Equal(t, "enable", r.calls[0].op)
			require.Equal(t, "dir", r.calls[1].op)
			if v < 128 {
				require.Equal(t, Reverse, r.calls[1].dir)
				require.Equal(t, uint8(128-v), r.calls[2].speed)
			} else {
				require.Equal(t, Forward, r.calls[1].dir)
				require.Equal(t, uint8(v-128), r.calls[2].speed)
			}
			require.Equal(t, "speed", r.calls[2].op)
			for _, c := range r.calls {
				require.Equal(t, Channel1, c.ch)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	require.Equal(t, Action{Kind: ActionDisable}, Decode(SpeedDisable))
	require.Equal(t, Action{Kind: ActionDrive, Direction: Forward}, Decode(SpeedZero))
	require.Equal(t, "drive rev 123", Decode(5).String())
	require.Equal(t, "disable", Decode(1).String())
}

func TestEncode(t *testing.T) {
	for m := 0; m <= int(MaxForward); m++ {
		a := Decode(Encode(Forward, uint8(m)))
		require.Equal(t, Action{Kind: ActionDrive, Direction: Forward, Magnitude: uint8(m)}, a)
	}
	for m := 1; m <= int(MaxReverse); m++ {
		a := Decode(Encode(Reverse, uint8(m)))
		require.Equal(t, Action{Kind: ActionDrive, Direction: Reverse, Magnitude: uint8(m)}, a)
	}
	require.Equal(t, byte(2), Encode(Reverse, 128))
	require.Equal(t, byte(255), Encode(Forward, 128))
}

func TestSim(t *testing.T) {
	var s Sim
	Apply(&s, Channel0, 200)
	require.Equal(t, State{Enabled: true, Direction: Forward, Speed: 72}, s.State(Channel0))
	require.Equal(t, State{}, s.State(Channel1))
	Apply(&s, Channel1, 100)
	require.Equal(t, State{Enabled: true, Direction: Reverse, Speed: 28}, s.State(Channel1))
	Apply(&s, Channel0, SpeedDisable)
	require.Equal(t, State{Enabled: false, Direction: Forward, Speed: 72}, s.State(Channel0))

	// out of range channels are ignored and read as zero.
	for _, ch := range []Channel{-1, 2, 100} {
		s.Enable(ch)
		s.SetSpeed(ch, 10)
		require.Equal(t, State{}, s.State(ch))
	}
	require.Equal(t, State{Enabled: true, Direction: Reverse, Speed: 28}, s.State(Channel1))
}

func TestLogged(t *testing.T) {
	var r recorder
	Apply(&Logged{Driver: &r}, Channel0, 5)
	require.Equal(t, []call{
		{op: "enable", ch: Channel0},
		{op: "dir", ch: Channel0, dir: Reverse},
		{op: "speed", ch: Channel0, speed: 123},
	}, r.calls)
}
