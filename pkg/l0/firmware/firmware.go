// Package firmware assembles the controller firmware from the boot
// handshake, the protocol machine and a serial link.
package firmware

import (
	"context"
	"errors"
	"io"

	pkgerrs "github.com/pkg/errors"

	"github.com/robotalks/mcv4b/pkg/l0/boot"
	"github.com/robotalks/mcv4b/pkg/l0/comm"
	"github.com/robotalks/mcv4b/pkg/l0/internal/trace"
	"github.com/robotalks/mcv4b/pkg/l0/mcv"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

// ErrChainLoaded is returned by Boot when control was handed to the
// update-mode image and the loader returned.
var ErrChainLoaded = errors.New("chain-loaded update image")

// Firmware is the startup sequence and main loop.
type Firmware struct {
	Link   io.ReadWriter
	Motors motor.Driver
	Cell   boot.Cell
	// Resetter is invoked on a reset request. On hardware it never
	// returns, otherwise the boot sequence runs again in place.
	Resetter boot.Resetter
	Loader   boot.ChainLoader
	Image    boot.ImageSource
	// Init brings up peripherals, called after the boot-mode check.
	Init    func() error
	Version int
	// ReadTimeout is set when Link returns on read timeout.
	ReadTimeout bool

	link      *comm.Link
	machine   *mcv.Machine
	resetting bool
	err       error
	cancel    context.CancelFunc
}

// Boot runs the boot sequence and then dispatches received bytes until
// the context is canceled, the link fails or the update image is
// chain-loaded.
func (f *Firmware) Boot(ctx context.Context) error {
	f.link = comm.NewLink(f.Link, comm.HandleByteFunc(f.handleByte))
	f.link.ReadTimeout = f.ReadTimeout
	if err := f.start(); err != nil {
		return err
	}
	ctx, f.cancel = context.WithCancel(ctx)
	defer f.cancel()
	err := f.link.Run(ctx)
	if f.err != nil {
		return f.err
	}
	return err
}

// Mode gets the mode of the protocol machine.
func (f *Firmware) Mode() mcv.Mode {
	if f.machine == nil {
		return mcv.ModeIdle
	}
	return f.machine.Mode()
}

func (f *Firmware) start() error {
	chained, err := boot.Check(f.Cell, f.Image, f.Loader)
	if chained {
		if err != nil {
			return pkgerrs.Wrap(err, "chain-load")
		}
		return ErrChainLoaded
	}
	if f.Init != nil {
		if err := f.Init(); err != nil {
			return pkgerrs.Wrap(err, "init")
		}
	}
	trigger := &boot.Trigger{Notice: f.link, Cell: f.Cell, Resetter: boot.ResetFunc(f.reset)}
	f.machine = mcv.NewMachine(f.Motors, f.link, trigger)
	if f.Version != 0 {
		f.machine.Version = f.Version
	}
	trace.V(1).Infof("started, version %d", f.machine.Version)
	return nil
}

func (f *Firmware) reset() {
	if f.Resetter != nil {
		f.Resetter.Reset()
	}
	f.resetting = true
}

func (f *Firmware) handleByte(ctx context.Context, b byte) {
	f.machine.Step(b)
	if !f.resetting {
		return
	}
	f.resetting = false
	trace.Infof("reset")
	if err := f.start(); err != nil {
		f.err = err
		f.cancel()
	}
}
