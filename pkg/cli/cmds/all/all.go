// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/mcv4b/pkg/cli/cmds/device"
	_ "github.com/robotalks/mcv4b/pkg/cli/cmds/motor"
)
