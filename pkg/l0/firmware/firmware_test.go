package firmware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	pkgerrs "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcv4b/pkg/l0/boot"
	"github.com/robotalks/mcv4b/pkg/l0/mcv"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

type testStream struct {
	in   chan byte
	lock sync.Mutex
	out  bytes.Buffer
}

func newTestStream(bs ...byte) *testStream {
	s := &testStream{in: make(chan byte, len(bs))}
	for _, b := range bs {
		s.in <- b
	}
	close(s.in)
	return s
}

func (s *testStream) Read(p []byte) (int, error) {
	b, ok := <-s.in
	if !ok {
		return 0, io.EOF
	}
	p[0] = b
	return 1, nil
}

func (s *testStream) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.out.Write(p)
}

func (s *testStream) output() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.out.String()
}

type testEnv struct {
	stream  *testStream
	motors  *motor.Sim
	cell    *boot.MemCell
	inits   int
	resets  int
	loaded  []boot.ImageHeader
	header  boot.ImageHeader
	initErr error
}

func newTestEnv(bs ...byte) *testEnv {
	return &testEnv{
		stream: newTestStream(bs...),
		motors: &motor.Sim{},
		cell:   &boot.MemCell{},
		header: boot.ImageHeader{StackPointer: 0x20002000, Entry: 0x1ffff0ed},
	}
}

func (e *testEnv) firmware() *Firmware {
	return &Firmware{
		Link:     e.stream,
		Motors:   e.motors,
		Cell:     e.cell,
		Resetter: boot.ResetFunc(func() { e.resets++ }),
		Loader: boot.ChainLoadFunc(func(hdr boot.ImageHeader) error {
			e.loaded = append(e.loaded, hdr)
			return nil
		}),
		Image: boot.StaticImage(e.header),
		Init: func() error {
			e.inits++
			return e.initErr
		},
	}
}

func TestBootRun(t *testing.T) {
	env := newTestEnv(1, 2, 200, 3, 1, 0, 7, 3)
	fw := env.firmware()
	require.Equal(t, io.EOF, fw.Boot(context.TODO()))
	require.Equal(t, 1, env.inits)
	require.Zero(t, env.resets)
	require.Empty(t, env.loaded)
	require.Equal(t, "MCV4B:1\n", env.stream.output())
	require.Equal(t, motor.State{Enabled: true, Direction: motor.Forward, Speed: 72}, env.motors.State(motor.Channel0))
	require.Equal(t, motor.State{}, env.motors.State(motor.Channel1))
	require.Equal(t, mcv.ModeSpeed1, fw.Mode())
}

func TestBootVersionOverride(t *testing.T) {
	env := newTestEnv(1)
	fw := env.firmware()
	fw.Version = 7
	require.Equal(t, io.EOF, fw.Boot(context.TODO()))
	require.Equal(t, "MCV4B:7\n", env.stream.output())
}

func TestBootChainLoad(t *testing.T) {
	env := newTestEnv(1)
	env.cell.Store(boot.Magic)
	require.Equal(t, ErrChainLoaded, env.firmware().Boot(context.TODO()))
	require.Zero(t, env.inits)
	require.Zero(t, env.cell.Load())
	require.Equal(t, []boot.ImageHeader{env.header}, env.loaded)
	require.Empty(t, env.stream.output())
}

func TestBootEnterUpdateMode(t *testing.T) {
	env := newTestEnv(2, 200, 4, 1, 2, 250)
	require.Equal(t, ErrChainLoaded, env.firmware().Boot(context.TODO()))
	require.Equal(t, 1, env.inits)
	require.Equal(t, 1, env.resets)
	require.Zero(t, env.cell.Load())
	require.Equal(t, []boot.ImageHeader{env.header}, env.loaded)
	require.Equal(t, boot.UpdateNotice, env.stream.output())
	require.Equal(t, uint8(72), env.motors.State(motor.Channel0).Speed)
}

func TestBootImageError(t *testing.T) {
	env := newTestEnv()
	env.cell.Store(boot.Magic)
	fw := env.firmware()
	fw.Image = boot.ImageFile("")
	err := fw.Boot(context.TODO())
	require.Error(t, err)
	require.Equal(t, boot.ErrNoImage, pkgerrs.Cause(err))
	require.Zero(t, env.inits)
	require.Zero(t, env.cell.Load())
}

func TestBootInitError(t *testing.T) {
	env := newTestEnv(1)
	env.initErr = errors.New("no clock")
	err := env.firmware().Boot(context.TODO())
	require.Error(t, err)
	require.Equal(t, env.initErr, pkgerrs.Cause(err))
	require.Empty(t, env.stream.output())
}

func TestBootCanceled(t *testing.T) {
	stream := &testStream{in: make(chan byte)}
	env := newTestEnv()
	env.stream = stream
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, env.firmware().Boot(ctx))
	require.Equal(t, 1, env.inits)
}
