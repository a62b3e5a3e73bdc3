package motor

import "fmt"

// SpeedDisable is the speed byte that disables a channel.
const SpeedDisable byte = 1

// SpeedZero is the speed byte for enabled, zero speed.
const SpeedZero byte = 128

// Largest magnitudes reachable by a drive action.
const (
	MaxForward uint8 = 127
	MaxReverse uint8 = 126
)

// ActionKind classifies the effect of a speed byte.
type ActionKind int

// Action kinds.
const (
	ActionDrive ActionKind = iota
	ActionDisable
)

// Action is the decoded form of a speed byte.
type Action struct {
	Kind      ActionKind
	Direction Direction
	Magnitude uint8
}

// String implements fmt.Stringer.
func (a Action) String() string {
	if a.Kind == ActionDisable {
		return "disable"
	}
	return fmt.Sprintf("drive %s %d", a.Direction, a.Magnitude)
}

// Decode maps a speed byte to exactly one action.
func Decode(b byte) Action {
	if b == SpeedDisable {
		return Action{Kind: ActionDisable}
	}
	v := int(b) - 128
	a := Action{Kind: ActionDrive, Direction: Forward}
	if v < 0 {
		a.Direction, v = Reverse, -v
	}
	a.Magnitude = uint8(v)
	return a
}

// Encode is the inverse of Decode for drive actions.
// Magnitudes are limited to MaxForward and MaxReverse, as the reverse
// encodings of 127 and 128 are the disable and no-op bytes.
func Encode(dir Direction, magnitude uint8) byte {
	if dir == Reverse {
		if magnitude > MaxReverse {
			magnitude = MaxReverse
		}
		return byte(128 - int(magnitude))
	}
	if magnitude > MaxForward {
		magnitude = MaxForward
	}
	return byte(128 + int(magnitude))
}

// Apply performs the action of a speed byte on the channel.
func Apply(drv Driver, ch Channel, b byte) {
	Decode(b).Apply(drv, ch)
}

// Apply performs the action on the channel.
func (a Action) Apply(drv Driver, ch Channel) {
	if a.Kind == ActionDisable {
		drv.Disable(ch)
		return
	}
	drv.Enable(ch)
	drv.SetDirection(ch, a.Direction)
	drv.SetSpeed(ch, a.Magnitude)
}
