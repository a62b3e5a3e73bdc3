// Package sim simulates a MCV4B board on the host.
package sim

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l0/boot"
	"github.com/robotalks/mcv4b/pkg/l0/comm"
	"github.com/robotalks/mcv4b/pkg/l0/firmware"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

// Board is a simulated board. The sentinel cell is kept across links,
// so update mode requested on one link is entered on the next boot.
type Board struct {
	Config        *Config
	Motors        *motor.Sim
	Cell          boot.Cell
	Image         boot.ImageSource
	UpdateCommand []string

	boots int32
}

// NewBoard creates a Board with in-memory state.
func NewBoard() *Board {
	return &Board{
		Config: NewConfig(),
		Motors: &motor.Sim{},
		Cell:   &boot.MemCell{},
		Image:  boot.StaticImage(DefaultImageHeader),
	}
}

// Name implements Named.
func (b *Board) Name() string {
	return "board"
}

// Boots returns the number of normal boots.
func (b *Board) Boots() int {
	return int(atomic.LoadInt32(&b.boots))
}

// Run implements Runnable.
func (b *Board) Run(ctx context.Context) error {
	if b.Config.LinkURL != "" {
		rwc, err := comm.Open(b.Config.LinkURL)
		if err != nil {
			return err
		}
		glog.Infof("link opened %s", b.Config.LinkURL)
		return b.Serve(ctx, rwc)
	}
	ln, err := comm.Listen(b.Config.ListenURL)
	if err != nil {
		return err
	}
	glog.Infof("listening on %s", ln.Addr())
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			glog.Info("link connected")
			if err := b.Serve(ctx, conn); err != nil && err != context.Canceled {
				glog.Infof("link closed: %v", err)
			}
		}
	})
}

// Serve runs the firmware on a link until the link fails or ctx is done.
// Returning from update mode reboots the firmware.
func (b *Board) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	link := newPollReader(rwc)
	defer link.Close()
	return fx.RunWithContextCloser(ctx, rwc, func() error {
		for {
			err := b.firmware(link).Boot(ctx)
			if err != firmware.ErrChainLoaded {
				return err
			}
			glog.Info("update mode left, rebooting")
		}
	})
}

func (b *Board) firmware(link io.ReadWriter) *firmware.Firmware {
	motors := &motor.Logged{Driver: b.Motors}
	return &firmware.Firmware{
		Link:   link,
		Motors: motors,
		Cell:   b.Cell,
		Loader: &boot.ExecLoader{
			Command: b.UpdateCommand,
			Stdout:  link,
		},
		Image: b.Image,
		Init: func() error {
			atomic.AddInt32(&b.boots, 1)
			for ch := motor.Channel0; ch < motor.Channels; ch++ {
				motors.Disable(ch)
				motors.SetSpeed(ch, 0)
				motors.SetDirection(ch, motor.Forward)
			}
			return nil
		},
		Version:     b.Config.Version,
		ReadTimeout: true,
	}
}

const pollInterval = 20 * time.Millisecond

// pollReader owns the only goroutine reading the link, so firmware
// restarts never lose bytes to a stale reader.
type pollReader struct {
	io.Writer
	dataCh chan byte
	errCh  chan error
	doneCh chan struct{}
	exited chan struct{}
	once   sync.Once
}

func newPollReader(rw io.ReadWriter) *pollReader {
	r := &pollReader{
		Writer: rw,
		dataCh: make(chan byte, 64),
		errCh:  make(chan error, 1),
		doneCh: make(chan struct{}),
		exited: make(chan struct{}),
	}
	go r.pump(rw)
	return r
}

func (r *pollReader) pump(rd io.Reader) {
	defer close(r.exited)
	buf := make([]byte, 64)
	for {
		select {
		case <-r.doneCh:
			return
		default:
		}
		n, err := rd.Read(buf)
		for _, c := range buf[:n] {
			select {
			case r.dataCh <- c:
			case <-r.doneCh:
				return
			}
		}
		if err != nil {
			r.errCh <- err
			return
		}
	}
}

// Close stops the pump once its pending Read returns, unread data is
// dropped.
func (r *pollReader) Close() error {
	r.once.Do(func() { close(r.doneCh) })
	return nil
}

// Read returns no data after pollInterval without input.
func (r *pollReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	select {
	case c := <-r.dataCh:
		p[0] = c
		return 1, nil
	default:
	}
	timer := time.NewTimer(pollInterval)
	defer timer.Stop()
	select {
	case c := <-r.dataCh:
		p[0] = c
		return 1, nil
	case err := <-r.errCh:
		r.errCh <- err
		select {
		case c := <-r.dataCh:
			p[0] = c
			return 1, nil
		default:
		}
		return 0, err
	case <-timer.C:
		return 0, nil
	}
}
