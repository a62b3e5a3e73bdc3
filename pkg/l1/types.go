package l1

import (
	"context"

	fx "github.com/robotalks/mcv4b/pkg/framework"
)

// Registrar registers an L1 controller to a registry.
type Registrar interface {
	// SendEvent sends an event to L2.
	SendEvent(context.Context, fx.Message) error
}

// CommandHandler executes a command received by an L1 controller
// and returns the reply message.
type CommandHandler interface {
	HandleCommand(context.Context, fx.Message) (fx.Message, error)
}

// HandleCommandFunc is func form of CommandHandler.
type HandleCommandFunc func(context.Context, fx.Message) (fx.Message, error)

// HandleCommand implements CommandHandler.
func (f HandleCommandFunc) HandleCommand(ctx context.Context, msg fx.Message) (fx.Message, error) {
	return f(ctx, msg)
}

// ControllerRef is a reference to an L1 controller.
type ControllerRef struct {
	// Type is controller type, "mcv4b" for bridged boards.
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r ControllerRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates ControllerRef is valid.
func (r ControllerRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// ControllerMeta provides metadata for L1 controller.
type ControllerMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ControllerInfo provides information of an L1 controller.
type ControllerInfo struct {
	Ref  ControllerRef
	Meta ControllerMeta
}

// Connector is used by L2 components to connect to an L1 controller.
type Connector interface {
	// Discover enumerates registered controllers.
	Discover(context.Context) ([]ControllerInfo, error)
	// Connect connects to the specified controller.
	Connect(context.Context, ControllerRef) (ControllerConn, error)
}

// ControllerConn is the connection to a controller.
type ControllerConn interface {
	// DoCommand executes a command.
	DoCommand(fx.Message) CommandFuture
}

// Result represents result of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the future of sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}

// Wait waits for the result of a command.
func Wait(ctx context.Context, f CommandFuture) Result {
	select {
	case res := <-f.ResultChan():
		return res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

// Done returns a completed CommandFuture.
func Done(res Result) CommandFuture {
	ch := make(chan Result, 1)
	ch <- res
	close(ch)
	return doneFuture(ch)
}

type doneFuture chan Result

func (f doneFuture) ResultChan() <-chan Result {
	return f
}
