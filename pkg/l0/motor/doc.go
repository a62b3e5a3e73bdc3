// Package motor translates speed bytes into motor output actions.
package motor

// A speed byte is an unsigned value centered at 128:
//
//	  1        Disable (coast, no braking)
//	  2..127   Reverse, magnitude 128-b (126..1)
//	128        Forward, magnitude 0 (enabled, zero speed)
//	129..255   Forward, magnitude b-128 (1..127)
//
// Byte 0 is the protocol no-op and never reaches this package.
