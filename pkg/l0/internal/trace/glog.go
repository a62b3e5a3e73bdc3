//go:build !tinygo

package trace

import (
	"fmt"

	"github.com/golang/glog"
)

// Verbose is the result of V.
type Verbose = glog.Verbose

// V reports whether verbosity level l is enabled.
func V(l int) Verbose {
	return glog.V(glog.Level(l))
}

// Infof logs at info level.
func Infof(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// Warningf logs at warning level.
func Warningf(format string, args ...interface{}) {
	glog.WarningDepth(1, fmt.Sprintf(format, args...))
}

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) {
	glog.ErrorDepth(1, fmt.Sprintf(format, args...))
}
