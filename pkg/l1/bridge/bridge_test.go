package bridge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l0/comm"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

type fakeDevice struct {
	calls   []string
	version int
	err     error
}

func (d *fakeDevice) record(format string, args ...interface{}) error {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
	return d.err
}

func (d *fakeDevice) Sync() error { return d.record("sync") }

func (d *fakeDevice) SetSpeed(ch motor.Channel, speed byte) error {
	return d.record("speed %d %d", ch, speed)
}

func (d *fakeDevice) Drive(ch motor.Channel, velocity int) error {
	return d.record("drive %d %d", ch, velocity)
}

func (d *fakeDevice) Disable(ch motor.Channel) error { return d.record("disable %d", ch) }

func (d *fakeDevice) Version(ctx context.Context) (int, error) {
	return d.version, d.record("version")
}

func (d *fakeDevice) EnterUpdateMode(ctx context.Context) error { return d.record("update") }

func TestHandler(t *testing.T) {
	testCases := []struct {
		msg   fx.Message
		call  string
		reply fx.Message
	}{
		{&msgs.VersionQuery{}, "version", &msgs.VersionReply{Version: 1}},
		{&msgs.EnterUpdateMode{}, "update", nil},
		{&msgs.LinkSync{}, "sync", nil},
		{&msgs.MotorDrive{Channel: 1, Velocity: -20}, "drive 1 -20", nil},
		{&msgs.MotorSpeed{Channel: 0, Speed: 200}, "speed 0 200", nil},
		{&msgs.MotorDisable{Channel: 1}, "disable 1", nil},
	}
	for _, tc := range testCases {
		dev := &fakeDevice{version: 1}
		reply, err := NewHandler(dev).HandleCommand(context.TODO(), tc.msg)
		require.NoError(t, err)
		require.Equal(t, tc.reply, reply)
		require.Equal(t, []string{tc.call}, dev.calls)
	}
}

func TestHandlerErrors(t *testing.T) {
	dev := &fakeDevice{}
	h := NewHandler(dev)
	_, err := h.HandleCommand(context.TODO(), &msgs.MotorSpeed{Speed: 300})
	require.Equal(t, &SpeedRangeError{Speed: 300}, err)
	require.Empty(t, dev.calls)

	_, err = h.HandleCommand(context.TODO(), &msgs.CommandOK{})
	require.Equal(t, msgs.ErrUnsupportedCommand, err)

	dev.err = comm.ErrNoReply
	_, err = h.HandleCommand(context.TODO(), &msgs.VersionQuery{})
	require.Equal(t, comm.ErrNoReply, err)
}

func TestLocalConn(t *testing.T) {
	dev := &fakeDevice{version: 3}
	conn := NewLocalConn(context.TODO(), dev)

	res := l1.Wait(context.TODO(), conn.DoCommand(&msgs.VersionQuery{}))
	require.NoError(t, res.Err)
	require.Equal(t, &msgs.VersionReply{Version: 3}, res.Msg)

	res = l1.Wait(context.TODO(), conn.DoCommand(&msgs.MotorDisable{}))
	require.NoError(t, res.Err)
	require.Equal(t, msgs.NewCommandOK(), res.Msg)

	dev.err = errors.New("link down")
	res = l1.Wait(context.TODO(), conn.DoCommand(&msgs.LinkSync{}))
	require.EqualError(t, res.Err, "link down")
	require.IsType(t, &msgs.CommandErr{}, res.Msg)
}

func TestCheckLink(t *testing.T) {
	dev := &fakeDevice{version: 1}
	require.Equal(t, &msgs.LinkStatus{URL: "tcp://sim:7000", Connected: true, Version: 1},
		CheckLink(context.TODO(), dev, "tcp://sim:7000"))
	require.Equal(t, []string{"sync", "version"}, dev.calls)

	dev.err = comm.ErrNoReply
	require.Equal(t, &msgs.LinkStatus{URL: "tcp://sim:7000", Error: "no reply"},
		CheckLink(context.TODO(), dev, "tcp://sim:7000"))
}

var _ Device = (*comm.Client)(nil)
