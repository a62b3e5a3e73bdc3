package boot

import (
	"io"

	"github.com/robotalks/mcv4b/pkg/l0/internal/trace"
)

// UpdateNotice is written to the serial link before the reset.
const UpdateNotice = "Entering bootloader\n"

// Trigger reboots the system into update mode.
type Trigger struct {
	Notice   io.Writer
	Cell     Cell
	Resetter Resetter
}

// EnterUpdateMode writes the notice, stores Magic and resets.
// It does not return on hardware.
func (t *Trigger) EnterUpdateMode() {
	if w := t.Notice; w != nil {
		if _, err := io.WriteString(w, UpdateNotice); err != nil {
			trace.Warningf("write update notice error: %v", err)
		}
	}
	t.Cell.Store(Magic)
	t.Resetter.Reset()
}

// Check is the startup boot-mode check, to be called before any
// initialization. It returns true when control was handed to the
// update-mode image, in which case normal startup must not proceed.
// Otherwise the cell is left untouched.
func Check(cell Cell, image ImageSource, loader ChainLoader) (bool, error) {
	if cell.Load() != Magic {
		return false, nil
	}
	cell.Store(0)
	hdr, err := image.ImageHeader()
	if err != nil {
		return true, err
	}
	trace.Infof("chain-load update image: %s", hdr)
	return true, loader.ChainLoad(hdr)
}
