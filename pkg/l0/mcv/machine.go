package mcv

import (
	"io"

	"github.com/robotalks/mcv4b/pkg/l0/internal/trace"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

// Mode is the state of the protocol.
type Mode int

// Modes.
const (
	ModeIdle   Mode = iota // waiting for a command
	ModeSpeed0             // waiting for speed of channel 0
	ModeSpeed1             // waiting for speed of channel 1
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSpeed0:
		return "speed0"
	case ModeSpeed1:
		return "speed1"
	}
	return "invalid"
}

// Channel returns the channel a speed mode is waiting for.
func (m Mode) Channel() (motor.Channel, bool) {
	switch m {
	case ModeSpeed0:
		return motor.Channel0, true
	case ModeSpeed1:
		return motor.Channel1, true
	}
	return 0, false
}

// UpdateTrigger reboots into update mode.
type UpdateTrigger interface {
	EnterUpdateMode()
}

// UpdateTriggerFunc is func form of UpdateTrigger.
type UpdateTriggerFunc func()

// EnterUpdateMode implements UpdateTrigger.
func (f UpdateTriggerFunc) EnterUpdateMode() {
	f()
}

// Machine is the protocol state machine.
// It's not safe for concurrent use, Step must be called sequentially.
type Machine struct {
	Motors  motor.Driver
	Output  io.Writer
	Updater UpdateTrigger
	Version int

	mode Mode
}

// NewMachine creates a Machine in idle mode.
func NewMachine(motors motor.Driver, output io.Writer, updater UpdateTrigger) *Machine {
	return &Machine{
		Motors:  motors,
		Output:  output,
		Updater: updater,
		Version: FirmwareVersion,
	}
}

// Mode gets the current mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Step consumes one byte.
func (m *Machine) Step(b byte) {
	switch m.mode {
	case ModeIdle:
		m.command(Command(b))
	case ModeSpeed0, ModeSpeed1:
		ch, _ := m.mode.Channel()
		m.mode = ModeIdle
		if b != byte(CommandNone) {
			motor.Apply(m.Motors, ch, b)
		}
	default:
		m.mode = ModeIdle
	}
}

func (m *Machine) command(cmd Command) {
	m.mode = ModeIdle
	switch cmd {
	case CommandVersion:
		if err := WriteVersion(m.Output, m.Version); err != nil {
			trace.Warningf("write version error: %v", err)
		}
	case CommandSpeed0:
		m.mode = ModeSpeed0
	case CommandSpeed1:
		m.mode = ModeSpeed1
	case CommandBootloader:
		m.Updater.EnterUpdateMode()
	default:
		if trace.V(3) && cmd != CommandNone {
			trace.Infof("ignored command %s", cmd)
		}
	}
}
