//go:build !tinygo

package comm

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/mcv4b/pkg/framework"
)

// Session is a Client running on a link opened by URL.
type Session struct {
	*Client
	URL string

	done chan struct{}
	err  error
}

// Dial opens a link by URL and runs a Client on it until ctx is done
// or the link fails. The link is closed when the session ends.
func Dial(ctx context.Context, linkURL string) (*Session, error) {
	rwc, err := Open(linkURL)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Client: NewClient(rwc),
		URL:    linkURL,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		s.err = framework.RunWithContextCloser(ctx, rwc, func() error {
			return s.Client.Run(ctx)
		})
		glog.V(1).Infof("link %s closed: %v", linkURL, s.err)
	}()
	return s, nil
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the reason the session ended, valid after Done is closed.
func (s *Session) Err() error {
	return s.err
}

// Run implements Runnable, it waits for the session to end.
func (s *Session) Run(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
