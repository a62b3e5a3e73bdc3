package comm

import "errors"

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

var (
	// ErrNotCommand indicates a command is expected.
	ErrNotCommand = errors.New("message is not a command")
	// ErrNotEvent indicates an event is expected.
	ErrNotEvent = errors.New("message is not an event")
)
