package sim

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcv4b/pkg/l0/boot"
	"github.com/robotalks/mcv4b/pkg/l0/comm"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

func startBoard(t *testing.T, b *Board) (*comm.Client, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	devConn, hostConn := net.Pipe()
	serveCh := make(chan error, 1)
	go func() { serveCh <- b.Serve(ctx, devConn) }()
	client := comm.NewClient(hostConn)
	go client.Run(ctx)
	t.Cleanup(func() {
		cancel()
		hostConn.Close()
		select {
		case <-serveCh:
		case <-time.After(time.Second):
			t.Error("board not stopped")
		}
	})
	return client, cancel
}

func TestBoardCommands(t *testing.T) {
	b := NewBoard()
	client, _ := startBoard(t, b)
	ctx := context.Background()

	v, err := client.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, 1, b.Boots())

	require.NoError(t, client.Drive(motor.Channel0, 50))
	require.NoError(t, client.Drive(motor.Channel1, -20))
	// replies are in order, so the drives have been applied.
	_, err = client.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, motor.State{Enabled: true, Direction: motor.Forward, Speed: 50}, b.Motors.State(motor.Channel0))
	require.Equal(t, motor.State{Enabled: true, Direction: motor.Reverse, Speed: 20}, b.Motors.State(motor.Channel1))

	require.NoError(t, client.Disable(motor.Channel1))
	_, err = client.Version(ctx)
	require.NoError(t, err)
	require.False(t, b.Motors.State(motor.Channel1).Enabled)
}

func TestBoardUpdateMode(t *testing.T) {
	b := NewBoard()
	client, _ := startBoard(t, b)
	ctx := context.Background()

	require.NoError(t, client.Drive(motor.Channel0, 100))
	require.NoError(t, client.EnterUpdateMode(ctx))

	v, err := client.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, 2, b.Boots())
	require.Zero(t, b.Cell.Load())
	require.False(t, b.Motors.State(motor.Channel0).Enabled)
}

func TestBoardSentinelAcrossLinks(t *testing.T) {
	b := NewBoard()
	b.Config.Version = 3
	b.Cell.Store(boot.Magic)
	client, _ := startBoard(t, b)

	v, err := client.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, v)
	require.Equal(t, 1, b.Boots())
	require.Zero(t, b.Cell.Load())
}

func TestConfigNewBoard(t *testing.T) {
	conf := NewConfig()
	conf.SentinelPath = "/tmp/mcv4b.sentinel"
	conf.ImagePath = "update.bin"
	conf.UpdateCommand = "stm32flash -w fw.bin"
	b := conf.NewBoard()
	require.IsType(t, &boot.FileCell{}, b.Cell)
	require.Equal(t, boot.ImageFile("update.bin"), b.Image)
	require.Equal(t, []string{"stm32flash", "-w", "fw.bin"}, b.UpdateCommand)
	require.Same(t, conf, b.Config)
}

type zeroStream struct{}

func (zeroStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func (zeroStream) Write(p []byte) (int, error) {
	return len(p), nil
}

func TestPollReaderStopsWhenFull(t *testing.T) {
	r := newPollReader(zeroStream{})
	deadline := time.Now().Add(time.Second)
	for len(r.dataCh) < cap(r.dataCh) {
		require.True(t, time.Now().Before(deadline), "buffer not filled")
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	select {
	case <-r.exited:
	case <-time.After(time.Second):
		t.Fatal("pump still blocked after Close")
	}
}
