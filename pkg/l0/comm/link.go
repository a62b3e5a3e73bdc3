package comm

import (
	"context"
	"io"
	"os"
	"sync"
)

// ByteHandler is called when a byte is received.
type ByteHandler interface {
	HandleByte(context.Context, byte)
}

// HandleByteFunc is func type of ByteHandler.
type HandleByteFunc func(context.Context, byte)

// HandleByte implements ByteHandler.
func (f HandleByteFunc) HandleByte(ctx context.Context, b byte) {
	f(ctx, b)
}

// Link receives bytes from a serial link and hands them to the Handler
// one at a time, in order, from a single goroutine.
type Link struct {
	ReadWriter  io.ReadWriter
	Handler     ByteHandler
	ReadTimeout bool // set to true if ReadWriter already supports timeout with Read

	writeLock sync.Mutex
}

// NewLink creates a Link.
func NewLink(rw io.ReadWriter, h ByteHandler) *Link {
	return &Link{ReadWriter: rw, Handler: h}
}

// Write implements io.Writer. Writes are serialized.
func (l *Link) Write(p []byte) (int, error) {
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	return l.ReadWriter.Write(p)
}

// Run receives and dispatches bytes until the context is canceled or
// the reader fails.
func (l *Link) Run(ctx context.Context) error {
	if l.ReadTimeout {
		buf := make([]byte, 1)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				n, err := l.ReadWriter.Read(buf)
				if err != nil {
					if os.IsTimeout(err) {
						continue
					}
					return err
				}
				if n == 0 {
					continue
				}
				if err = l.dispatch(ctx, buf[0]); err != nil {
					return err
				}
			}
		}
	}

	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, byteCh, errCh)
	for {
		select {
		case b := <-byteCh:
			if err := l.dispatch(ctx, b); err != nil {
				return err
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch stops the loop as soon as the handler cancels the context,
// no byte is delivered after that.
func (l *Link) dispatch(ctx context.Context, b byte) error {
	if h := l.Handler; h != nil {
		h.HandleByte(ctx, b)
	}
	return ctx.Err()
}

func (l *Link) readLoop(ctx context.Context, byteCh chan byte, errCh chan error) {
	buf := make([]byte, 1)
	for {
		n, err := l.ReadWriter.Read(buf)
		if err != nil {
			errCh <- err
			return
		}
		if n == 0 {
			// read timeout without data.
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		select {
		case byteCh <- buf[0]:
		case <-ctx.Done():
			return
		}
	}
}
