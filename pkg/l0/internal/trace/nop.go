//go:build tinygo

package trace

// Verbose is the result of V.
type Verbose bool

// Infof discards the message.
func (Verbose) Infof(format string, args ...interface{}) {}

// V is never enabled.
func V(l int) Verbose {
	return false
}

// Infof discards the message.
func Infof(format string, args ...interface{}) {}

// Warningf discards the message.
func Warningf(format string, args ...interface{}) {}

// Errorf discards the message.
func Errorf(format string, args ...interface{}) {}
