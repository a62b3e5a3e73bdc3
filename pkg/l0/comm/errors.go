package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReply indicates no reply received from the device in time.
	ErrNoReply = errors.New("no reply")
	// ErrInvalidSpeed indicates a speed byte which would be ignored.
	ErrInvalidSpeed = errors.New("invalid speed byte")
	// ErrInvalidChannel indicates the channel doesn't exist.
	ErrInvalidChannel = errors.New("invalid channel")
)

// ReplyError indicates an unexpected reply.
type ReplyError struct {
	Expected ReplyKind
	Reply    Reply
}

// Error implements error.
func (e *ReplyError) Error() string {
	return fmt.Sprintf("expect %s reply, got %s %q", e.Expected, e.Reply.Kind, e.Reply.Line)
}

// SchemeError indicates an unsupported link URL scheme.
type SchemeError struct {
	Scheme string
}

// Error implements error.
func (e *SchemeError) Error() string {
	return fmt.Sprintf("unknown link scheme: %q", e.Scheme)
}
