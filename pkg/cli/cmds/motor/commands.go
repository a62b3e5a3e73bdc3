package motor

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mcv4b/pkg/cli/sh"
	"github.com/robotalks/mcv4b/pkg/l0/motor"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

// ParseChannel parses a channel number.
func ParseChannel(s string) (uint32, error) {
	val, err := strconv.ParseUint(s, 10, 32)
	if err != nil || !motor.Channel(val).IsValid() {
		return 0, fmt.Errorf("invalid CHANNEL: %q", s)
	}
	return uint32(val), nil
}

var (
	// DriveCmd exposes MotorDrive command.
	DriveCmd = ishell.Cmd{
		Name:    "drive",
		Aliases: []string{"dr"},
		Help:    "CHANNEL VELOCITY(-126..127)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("CHANNEL and VELOCITY required"))
				return
			}
			ch, err := ParseChannel(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			val, err := strconv.ParseInt(c.Args[1], 10, 32)
			if err != nil {
				c.Err(fmt.Errorf("invalid VELOCITY: %v", err))
				return
			}
			sh.DoCommand(c, &msgs.MotorDrive{Channel: ch, Velocity: int32(val)})
		}),
	}

	// SpeedCmd exposes MotorSpeed command.
	SpeedCmd = ishell.Cmd{
		Name: "speed",
		Help: "CHANNEL SPEED-BYTE(1..255)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("CHANNEL and SPEED-BYTE required"))
				return
			}
			ch, err := ParseChannel(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			val, err := strconv.ParseUint(c.Args[1], 0, 8)
			if err != nil {
				c.Err(fmt.Errorf("invalid SPEED-BYTE: %v", err))
				return
			}
			sh.DoCommand(c, &msgs.MotorSpeed{Channel: ch, Speed: uint32(val)})
		}),
	}

	// DisableCmd exposes MotorDisable command.
	DisableCmd = ishell.Cmd{
		Name:    "disable",
		Aliases: []string{"off"},
		Help:    "CHANNEL...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("CHANNEL required"))
				return
			}
			for _, arg := range c.Args {
				ch, err := ParseChannel(arg)
				if err != nil {
					c.Err(err)
					return
				}
				if sh.DoCommand(c, &msgs.MotorDisable{Channel: ch}) != nil {
					return
				}
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&DriveCmd,
		&SpeedCmd,
		&DisableCmd,
	)
}
