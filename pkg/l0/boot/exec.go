//go:build !tinygo

package boot

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/robotalks/mcv4b/pkg/l0/internal/trace"
)

// ExecLoader runs an external program as the update-mode image.
// The header is passed in MCV_BOOT_SP and MCV_BOOT_PC.
type ExecLoader struct {
	Command []string
	Stdin   io.Reader
	Stdout  io.Writer
}

// ChainLoad implements ChainLoader.
func (l *ExecLoader) ChainLoad(hdr ImageHeader) error {
	if len(l.Command) == 0 {
		trace.Warningf("no update program, image %s ignored", hdr)
		return nil
	}
	cmd := exec.Command(l.Command[0], l.Command[1:]...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("MCV_BOOT_SP=%08x", hdr.StackPointer),
		fmt.Sprintf("MCV_BOOT_PC=%08x", hdr.Entry))
	cmd.Stdin, cmd.Stdout, cmd.Stderr = l.Stdin, l.Stdout, os.Stderr
	trace.Infof("exec update program %q", l.Command)
	return errors.Wrap(cmd.Run(), "update program")
}
