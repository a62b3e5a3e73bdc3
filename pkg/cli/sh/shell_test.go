package sh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/bridge"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

func TestFormatMsg(t *testing.T) {
	require.Equal(t, "OK", FormatMsg(msgs.NewCommandOK()))
	require.Contains(t, FormatMsg(&msgs.VersionReply{Version: 1}), "VersionReply version:1")
}

func TestShellDo(t *testing.T) {
	s := &Shell{}
	_, err := s.Do(&msgs.VersionQuery{})
	require.EqualError(t, err, "not connected")

	s.Session = &Session{
		Name: "local",
		Ctx:  context.Background(),
		Conn: &bridge.LocalConn{
			Handler: l1.HandleCommandFunc(func(ctx context.Context, msg fx.Message) (fx.Message, error) {
				if _, ok := msg.(*msgs.VersionQuery); ok {
					return &msgs.VersionReply{Version: 1}, nil
				}
				return nil, msgs.ErrUnsupportedCommand
			}),
		},
	}
	reply, err := s.Do(&msgs.VersionQuery{})
	require.NoError(t, err)
	require.Equal(t, &msgs.VersionReply{Version: 1}, reply)

	_, err = s.Do(&msgs.LinkSync{})
	require.EqualError(t, err, msgs.ErrUnsupportedCommand.Error())
}

type neverConn struct{}

func (neverConn) DoCommand(fx.Message) l1.CommandFuture {
	return neverFuture{}
}

type neverFuture struct{}

func (neverFuture) ResultChan() <-chan l1.Result {
	return nil
}

func TestShellDoTimeout(t *testing.T) {
	s := &Shell{
		Timeout: 10 * time.Millisecond,
		Session: &Session{Ctx: context.Background(), Conn: neverConn{}},
	}
	_, err := s.Do(&msgs.VersionQuery{})
	require.EqualError(t, err, "command timeout")
}
