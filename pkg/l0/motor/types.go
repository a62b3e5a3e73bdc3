package motor

import "fmt"

// Channel indexes one of the motor outputs.
type Channel int

// Channels on the controller.
const (
	Channel0 Channel = 0
	Channel1 Channel = 1

	// Channels is the number of motor outputs.
	Channels = 2
)

// IsValid indicates the channel exists on the controller.
func (c Channel) IsValid() bool {
	return c >= 0 && c < Channels
}

// Direction is the direction of motor rotation.
type Direction int

// Directions.
const (
	Forward Direction = iota
	Reverse
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "fwd"
	case Reverse:
		return "rev"
	}
	return fmt.Sprintf("dir(%d)", int(d))
}

// Driver is the low-level motor output driver.
type Driver interface {
	// Enable turns on the output stage of a channel.
	Enable(Channel)
	// Disable turns off the output stage, the motor coasts.
	Disable(Channel)
	// SetDirection selects the rotation direction.
	SetDirection(Channel, Direction)
	// SetSpeed sets the magnitude, 0..128.
	SetSpeed(Channel, uint8)
}
