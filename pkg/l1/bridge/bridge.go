// Package bridge executes L1 commands on a MCV4B board.
package bridge

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

// ControllerType is the L1 controller type of a bridged board.
const ControllerType = "mcv4b"

// Device is the board operations, implemented by comm.Client.
type Device interface {
	Sync() error
	SetSpeed(ch motor.Channel, speed byte) error
	Drive(ch motor.Channel, velocity int) error
	Disable(ch motor.Channel) error
	Version(ctx context.Context) (int, error)
	EnterUpdateMode(ctx context.Context) error
}

// SpeedRangeError indicates a raw speed value not fitting in a byte.
type SpeedRangeError struct {
	Speed uint32
}

// Error implements error.
func (e *SpeedRangeError) Error() string {
	return fmt.Sprintf("speed out of range: %d", e.Speed)
}

// Handler implements l1.CommandHandler on a Device.
type Handler struct {
	Device Device
}

// NewHandler creates a Handler.
func NewHandler(dev Device) *Handler {
	return &Handler{Device: dev}
}

// HandleCommand implements l1.CommandHandler.
func (h *Handler) HandleCommand(ctx context.Context, msg fx.Message) (fx.Message, error) {
	glog.V(2).Infof("CMD %T %v", msg, msg)
	switch m := msg.(type) {
	case *msgs.VersionQuery:
		v, err := h.Device.Version(ctx)
		if err != nil {
			return nil, err
		}
		return &msgs.VersionReply{Version: uint32(v)}, nil
	case *msgs.EnterUpdateMode:
		return nil, h.Device.EnterUpdateMode(ctx)
	case *msgs.LinkSync:
		return nil, h.Device.Sync()
	case *msgs.MotorDrive:
		return nil, h.Device.Drive(motor.Channel(m.Channel), int(m.Velocity))
	case *msgs.MotorSpeed:
		if m.Speed > 0xff {
			return nil, &SpeedRangeError{Speed: m.Speed}
		}
		return nil, h.Device.SetSpeed(motor.Channel(m.Channel), byte(m.Speed))
	case *msgs.MotorDisable:
		return nil, h.Device.Disable(motor.Channel(m.Channel))
	}
	return nil, msgs.ErrUnsupportedCommand
}

// LocalConn implements l1.ControllerConn executing commands in process,
// for a board attached to this host.
type LocalConn struct {
	Context context.Context
	Handler l1.CommandHandler
}

// NewLocalConn creates a LocalConn on a Device.
func NewLocalConn(ctx context.Context, dev Device) *LocalConn {
	return &LocalConn{Context: ctx, Handler: NewHandler(dev)}
}

// DoCommand implements l1.ControllerConn.
func (c *LocalConn) DoCommand(msg fx.Message) l1.CommandFuture {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	reply, err := c.Handler.HandleCommand(ctx, msg)
	if err != nil {
		cmdErr := msgs.NewCommandErr(err)
		return l1.Done(l1.Result{Msg: cmdErr, Err: cmdErr})
	}
	if reply == nil {
		reply = msgs.NewCommandOK()
	}
	return l1.Done(l1.Result{Msg: reply})
}

// CheckLink queries the board and reports the link status.
func CheckLink(ctx context.Context, dev Device, linkURL string) *msgs.LinkStatus {
	status := &msgs.LinkStatus{URL: linkURL}
	if err := dev.Sync(); err != nil {
		status.Error = err.Error()
		return status
	}
	v, err := dev.Version(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Connected, status.Version = true, uint32(v)
	return status
}
