package comm

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

// Pipe exchanges Typed messages over a PacketReadWriter. Received
// messages are decoded and handed to the Handler in order.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    msgs.TypedMsgHandler

	sendLock sync.Mutex
}

// SendCommandMsg sends a command, or a reply to command seq.
func (p *Pipe) SendCommandMsg(msg fx.Message, seq uint32) error {
	return p.send(msg, seq, (*msgs.Typed).IsCommand, ErrNotCommand)
}

// SendEventMsg sends an event.
func (p *Pipe) SendEventMsg(msg fx.Message) error {
	return p.send(msg, 0, (*msgs.Typed).IsEvent, ErrNotEvent)
}

func (p *Pipe) send(msg fx.Message, seq uint32, kindOK func(*msgs.Typed) bool, kindErr error) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !kindOK(typed) {
		return kindErr
	}
	typed.Sequence = seq
	return p.SendTyped(typed)
}

// SendTyped sends an encoded Typed message.
func (p *Pipe) SendTyped(typed *msgs.Typed) error {
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. Malformed packets are skipped, a command
// of unknown type is answered with CommandErr.
func (p *Pipe) Run(ctx context.Context) error {
	defer p.Close()
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			return err
		}
		if err = p.receive(ctx, pkt); err != nil {
			return err
		}
	}
}

func (p *Pipe) receive(ctx context.Context, pkt []byte) error {
	typed, err := msgs.DecodeTyped(pkt)
	if err != nil {
		glog.Warningf("bad packet: %v", err)
		return nil
	}
	msg, err := typed.Decode()
	switch {
	case err == nil:
	case typed.IsCommand() && !typed.IsReply():
		return p.SendCommandMsg(msgs.NewCommandErr(err), typed.Sequence)
	default:
		glog.V(1).Infof("drop message %x: %v", typed.TypeID, err)
		return nil
	}
	if h := p.Handler; h != nil {
		return h.HandleTypedMsg(ctx, msg, typed)
	}
	return nil
}

// Close closes the ReadWriter if it's a Closer.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
