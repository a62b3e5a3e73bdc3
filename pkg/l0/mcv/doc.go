// Package mcv implements the MCV4B serial command protocol.
package mcv

// The protocol is a stream of raw bytes without framing. In idle mode a
// byte is a command, after a speed select command the next byte is the
// speed of the selected channel (see package motor for the encoding):
//
//	0  no-op
//	1  print version "MCV4B:<n>\n"
//	2  next byte sets speed of channel 0
//	3  next byte sets speed of channel 1
//	4  enter bootloader
//
// Other bytes are no-ops. A zero speed byte leaves the channel untouched,
// so a host can send zeros at any time to get back to idle.
