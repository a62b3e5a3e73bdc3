package device

import (
	"github.com/abiosoft/ishell"

	"github.com/robotalks/mcv4b/pkg/cli/sh"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

var (
	// VersionCmd exposes VersionQuery command.
	VersionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"v"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.VersionQuery{})
		}),
	}

	// SyncCmd exposes LinkSync command.
	SyncCmd = ishell.Cmd{
		Name:    "sync",
		Aliases: []string{"s"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.LinkSync{})
		}),
	}

	// UpdateCmd exposes EnterUpdateMode command.
	UpdateCmd = ishell.Cmd{
		Name: "update",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.EnterUpdateMode{})
		}),
	}
)

func init() {
	sh.AddCmds(
		&VersionCmd,
		&SyncCmd,
		&UpdateCmd,
	)
}
