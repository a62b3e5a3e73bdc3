package comm

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

// Controller is the L1 controller side of a Pipe. Commands are executed
// one at a time by the Handler and replied with the same sequence.
type Controller struct {
	Handler l1.CommandHandler

	pipe Pipe
}

// Init initializes the Controller with defaults.
func (c *Controller) Init(rw PacketReadWriter, h l1.CommandHandler) {
	c.Handler = h
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
}

// SendEvent implements Registrar.
func (c *Controller) SendEvent(ctx context.Context, msg fx.Message) error {
	return c.pipe.SendEventMsg(msg)
}

// Run implements Runnable.
func (c *Controller) Run(ctx context.Context) error {
	return c.pipe.Run(ctx)
}

func (c *Controller) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if !typed.IsCommand() || typed.IsReply() {
		glog.V(3).Infof("ignore message %x", typed.TypeID)
		return nil
	}
	reply, err := UnsupportedCommand(ctx, msg)
	if h := c.Handler; h != nil {
		reply, err = h.HandleCommand(ctx, msg)
	}
	if err != nil {
		reply = msgs.NewCommandErr(err)
	} else if reply == nil {
		reply = msgs.NewCommandOK()
	}
	return c.pipe.SendCommandMsg(reply, typed.Sequence)
}

// UnsupportedCommand is a CommandHandler replying any command as unsupported.
func UnsupportedCommand(context.Context, fx.Message) (fx.Message, error) {
	return nil, msgs.ErrUnsupportedCommand
}

// RegistrarMux sends events with multiple Registrars.
type RegistrarMux struct {
	Registrars []l1.Registrar
}

// SendEvent implements Registrar.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// Add adds more registrars.
func (r *RegistrarMux) Add(regs ...l1.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}
