package comm

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

type packetEnd struct {
	in  <-chan []byte
	out chan<- []byte
}

func (e *packetEnd) ReadPacket() ([]byte, error) {
	pkt, ok := <-e.in
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

func (e *packetEnd) WritePacket(pkt []byte) error {
	e.out <- pkt
	return nil
}

func packetPair() (*packetEnd, *packetEnd) {
	ch1, ch2 := make(chan []byte, 4), make(chan []byte, 4)
	return &packetEnd{in: ch1, out: ch2}, &packetEnd{in: ch2, out: ch1}
}

type pipeTestEnv struct {
	ctl  Controller
	conn ControllerConn
	ctx  context.Context
}

func newPipeTestEnv(t *testing.T, h l1.CommandHandler) *pipeTestEnv {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	env := &pipeTestEnv{ctx: ctx}
	ctlEnd, connEnd := packetPair()
	env.ctl.Init(ctlEnd, h)
	env.conn.Init(connEnd)
	go env.ctl.Run(ctx)
	go env.conn.Run(ctx)
	return env
}

func (e *pipeTestEnv) do(t *testing.T, msg fx.Message) l1.Result {
	ctx, cancel := context.WithTimeout(e.ctx, 5*time.Second)
	defer cancel()
	res := l1.Wait(ctx, e.conn.DoCommand(msg))
	require.NotEqual(t, context.DeadlineExceeded, ctx.Err())
	return res
}

func TestControllerCommands(t *testing.T) {
	env := newPipeTestEnv(t, l1.HandleCommandFunc(func(ctx context.Context, msg fx.Message) (fx.Message, error) {
		switch m := msg.(type) {
		case *msgs.VersionQuery:
			return &msgs.VersionReply{Version: 1}, nil
		case *msgs.MotorDrive:
			if m.Channel > 1 {
				return nil, errors.New("invalid channel")
			}
			return nil, nil
		}
		return nil, msgs.ErrUnsupportedCommand
	}))

	res := env.do(t, &msgs.VersionQuery{})
	require.NoError(t, res.Err)
	require.Equal(t, &msgs.VersionReply{Version: 1}, res.Msg)

	res = env.do(t, &msgs.MotorDrive{Channel: 1, Velocity: 20})
	require.NoError(t, res.Err)
	require.IsType(t, &msgs.CommandOK{}, res.Msg)

	res = env.do(t, &msgs.MotorDrive{Channel: 5})
	require.EqualError(t, res.Err, "invalid channel")

	res = env.do(t, &msgs.LinkSync{})
	require.EqualError(t, res.Err, msgs.ErrUnsupportedCommand.Error())
}

func TestControllerUnknownType(t *testing.T) {
	env := newPipeTestEnv(t, nil)
	f := &commandFuture{seq: 9, expireAt: time.Now().Add(time.Minute), result: make(chan l1.Result, 1)}
	env.conn.lock.Lock()
	f.elem = env.conn.commands.PushBack(f)
	env.conn.seqMap[f.seq] = f
	env.conn.lock.Unlock()
	require.NoError(t, env.conn.pipe.SendTyped(&msgs.Typed{TypeID: msgs.GroupCustom | 1, Sequence: 9}))
	res := l1.Wait(env.ctx, f)
	require.Error(t, res.Err)
	require.IsType(t, &msgs.CommandErr{}, res.Msg)
}

func TestControllerConnExpiration(t *testing.T) {
	connEnd, _ := packetPair()
	var conn ControllerConn
	conn.Init(connEnd)
	conn.Expiration = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go conn.Run(ctx)
	res := l1.Wait(ctx, conn.DoCommand(&msgs.VersionQuery{}))
	require.Equal(t, context.DeadlineExceeded, res.Err)
}

func TestControllerEvents(t *testing.T) {
	eventCh := make(chan fx.Message, 1)
	env := newPipeTestEnv(t, nil)
	env.conn.EventHandler = fx.HandleMessageFunc(func(ctx context.Context, msg fx.Message) {
		eventCh <- msg
	})
	require.NoError(t, env.ctl.SendEvent(env.ctx, &msgs.LinkStatus{Connected: true, Version: 1}))
	select {
	case msg := <-eventCh:
		require.Equal(t, &msgs.LinkStatus{Connected: true, Version: 1}, msg)
	case <-time.After(time.Second):
		t.Fatal("event timeout")
	}
	require.Equal(t, ErrNotEvent, env.ctl.SendEvent(env.ctx, &msgs.VersionQuery{}))
	require.Equal(t, ErrNotCommand, env.ctl.pipe.SendCommandMsg(&msgs.LinkStatus{}, 1))
}
