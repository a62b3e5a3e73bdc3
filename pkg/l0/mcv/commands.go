package mcv

import (
	"fmt"
	"io"

	"github.com/robotalks/mcv4b/pkg/l0/motor"
)

// Command is a byte received in idle mode.
type Command byte

// Commands.
const (
	CommandNone       Command = 0
	CommandVersion    Command = 1
	CommandSpeed0     Command = 2
	CommandSpeed1     Command = 3
	CommandBootloader Command = 4
)

// String implements fmt.Stringer.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandVersion:
		return "version"
	case CommandSpeed0:
		return "speed0"
	case CommandSpeed1:
		return "speed1"
	case CommandBootloader:
		return "bootloader"
	}
	return fmt.Sprintf("unknown(%d)", byte(c))
}

// SpeedCommand returns the command selecting the speed of a channel.
func SpeedCommand(ch motor.Channel) Command {
	return CommandSpeed0 + Command(ch)
}

// Version report.
const (
	VersionPrefix   = "MCV4B:"
	FirmwareVersion = 1
)

// WriteVersion writes the version line.
func WriteVersion(w io.Writer, version int) error {
	_, err := fmt.Fprintf(w, "%s%d\n", VersionPrefix, version)
	return err
}
