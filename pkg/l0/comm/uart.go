package comm

import (
	"runtime"
	"time"

	"tinygo.org/x/drivers"
)

// UARTStream wraps a drivers.UART, which returns immediately when no
// data is buffered, into a blocking reader for Link.
type UARTStream struct {
	UART drivers.UART
	// Poll is the sleep between checks for data, 0 only yields.
	Poll time.Duration
}

// Read implements io.Reader.
func (s *UARTStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for s.UART.Buffered() == 0 {
		if s.Poll > 0 {
			time.Sleep(s.Poll)
		} else {
			runtime.Gosched()
		}
	}
	return s.UART.Read(p)
}

// Write implements io.Writer.
func (s *UARTStream) Write(p []byte) (int, error) {
	return s.UART.Write(p)
}
