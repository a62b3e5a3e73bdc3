package comm

import (
	"io"

	"github.com/robotalks/mcv4b/pkg/l0/mcv"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

// SyncLength is the number of zeros sent by a sync.
// One is enough from any mode, more cover a partially lost byte.
const SyncLength = 4

// Request is a command to the firmware.
type Request struct {
	Command mcv.Command
	Speed   byte // only for speed commands
}

// SpeedRequest creates a request setting the speed byte of a channel.
func SpeedRequest(ch motor.Channel, speed byte) Request {
	return Request{Command: mcv.SpeedCommand(ch), Speed: speed}
}

// HasSpeed indicates the request carries a speed byte.
func (r Request) HasSpeed() bool {
	return r.Command == mcv.CommandSpeed0 || r.Command == mcv.CommandSpeed1
}

// Bytes returns encoded bytes for sending.
func (r Request) Bytes() []byte {
	if r.HasSpeed() {
		return []byte{byte(r.Command), r.Speed}
	}
	return []byte{byte(r.Command)}
}

// WriteTo writes encoded bytes.
func (r Request) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

// SyncBytes returns the bytes which bring the firmware back to idle
// without side effects.
func SyncBytes() []byte {
	return make([]byte, SyncLength)
}
