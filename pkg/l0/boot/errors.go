package boot

import "errors"

var (
	// ErrNoImage indicates no update-mode image is available.
	ErrNoImage = errors.New("no update image")
)
