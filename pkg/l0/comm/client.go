package comm

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/robotalks/mcv4b/pkg/l0/internal/trace"
	"github.com/robotalks/mcv4b/pkg/l0/mcv"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

// DefaultTimeout is the default time waiting for a reply.
const DefaultTimeout = 500 * time.Millisecond

// Client provides host side operations over a Link.
// Run must be running for replies to be received.
type Client struct {
	Timeout time.Duration
	// Guard prefixes each request with a zero byte so a request is
	// never taken as a speed byte by a device left in a speed mode.
	Guard bool

	link    *Link
	parser  ReplyParser
	replyCh chan *Reply
	cmdLock sync.Mutex
}

// NewClient creates client and wraps the link.
func NewClient(rw io.ReadWriter) *Client {
	c := &Client{
		Timeout: DefaultTimeout,
		Guard:   true,
		replyCh: make(chan *Reply, 4),
	}
	c.link = NewLink(rw, c)
	return c
}

// Link gets wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// Run receives replies until the context is canceled.
func (c *Client) Run(ctx context.Context) error {
	return c.link.Run(ctx)
}

// HandleByte implements ByteHandler.
func (c *Client) HandleByte(ctx context.Context, b byte) {
	pr := c.parser.Parse(b)
	if pr.Overflow {
		trace.Warningf("reply line too long, discarded")
	}
	if pr.Reply == nil {
		return
	}
	trace.V(2).Infof("RCV %s %q", pr.Reply.Kind, pr.Reply.Line)
	select {
	case c.replyCh <- pr.Reply:
	default:
		trace.Warningf("reply dropped: %q", pr.Reply.Line)
	}
}

// Send writes requests in a single write.
func (c *Client) Send(reqs ...Request) error {
	c.cmdLock.Lock()
	defer c.cmdLock.Unlock()
	return c.send(reqs...)
}

func (c *Client) send(reqs ...Request) error {
	var buf bytes.Buffer
	if c.Guard {
		buf.WriteByte(byte(mcv.CommandNone))
	}
	for _, req := range reqs {
		req.WriteTo(&buf)
	}
	trace.V(2).Infof("SND % x", buf.Bytes())
	_, err := c.link.Write(buf.Bytes())
	return err
}

// Sync brings the device back to idle.
func (c *Client) Sync() error {
	_, err := c.link.Write(SyncBytes())
	return err
}

// SetSpeed sends a raw speed byte to a channel.
func (c *Client) SetSpeed(ch motor.Channel, speed byte) error {
	if !ch.IsValid() {
		return ErrInvalidChannel
	}
	if speed == byte(mcv.CommandNone) {
		return ErrInvalidSpeed
	}
	return c.Send(SpeedRequest(ch, speed))
}

// Drive sets a signed velocity, clamped to -126..127.
func (c *Client) Drive(ch motor.Channel, velocity int) error {
	// clamp before negating, -math.MinInt overflows.
	switch {
	case velocity > 0xff:
		velocity = 0xff
	case velocity < -0xff:
		velocity = -0xff
	}
	dir := motor.Forward
	if velocity < 0 {
		dir, velocity = motor.Reverse, -velocity
	}
	return c.SetSpeed(ch, motor.Encode(dir, uint8(velocity)))
}

// Disable disables a channel.
func (c *Client) Disable(ch motor.Channel) error {
	return c.SetSpeed(ch, motor.SpeedDisable)
}

// Version queries the firmware version.
func (c *Client) Version(ctx context.Context) (int, error) {
	r, err := c.do(ctx, Request{Command: mcv.CommandVersion}, ReplyVersion)
	if err != nil {
		return 0, err
	}
	return r.Version, nil
}

// EnterUpdateMode reboots the device into update mode and waits for the notice.
func (c *Client) EnterUpdateMode(ctx context.Context) error {
	_, err := c.do(ctx, Request{Command: mcv.CommandBootloader}, ReplyUpdateNotice)
	return err
}

func (c *Client) do(ctx context.Context, req Request, expect ReplyKind) (*Reply, error) {
	c.cmdLock.Lock()
	defer c.cmdLock.Unlock()
	c.drain()
	if err := c.send(req); err != nil {
		return nil, err
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case r := <-c.replyCh:
			if r.Kind == expect {
				return r, nil
			}
			if r.Kind != ReplyUnknown {
				return nil, &ReplyError{Expected: expect, Reply: *r}
			}
			trace.V(2).Infof("skip reply %q", r.Line)
		case <-timer.C:
			return nil, ErrNoReply
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// drain drops stale replies.
func (c *Client) drain() {
	for {
		select {
		case <-c.replyCh:
		default:
			return
		}
	}
}
