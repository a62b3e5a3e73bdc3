// Package trace is the logging of the controller packages. On the
// host it is glog; TinyGo builds drop it, glog's init would run before
// the boot-mode check and the only UART carries the protocol.
package trace
