package boot

import (
	"encoding/binary"
	"fmt"
)

// Magic is the sentinel requesting update mode on next boot.
const Magic uint32 = 0xFACEBEE5

// Addresses on the reference board (STM32F103).
const (
	// SentinelAddr is the top of RAM of the bare-metal build linked for
	// 8KB RAM, outside its stack, heap and data. It is runtime-owned RAM
	// under TinyGo, which keeps the sentinel in backup registers instead
	// (RegisterPairCell).
	SentinelAddr uintptr = 0x20001FF0
	// SystemMemoryBase is the base of the update-mode image.
	SystemMemoryBase uintptr = 0x1FFFF000
)

// ImageHeaderSize is the size of the vector table head.
const ImageHeaderSize = 8

// Cell is a 32-bit word surviving a reset.
type Cell interface {
	Load() uint32
	// Store must be visible to a Load after reset once it returns.
	Store(uint32)
}

// Resetter issues a system reset.
type Resetter interface {
	Reset()
}

// ResetFunc is func form of Resetter.
type ResetFunc func()

// Reset implements Resetter.
func (f ResetFunc) Reset() {
	f()
}

// ImageHeader is the head of a firmware image vector table.
type ImageHeader struct {
	StackPointer uint32 // offset 0
	Entry        uint32 // offset 4
}

// ParseImageHeader decodes the little-endian vector table head.
func ParseImageHeader(b []byte) (h ImageHeader, err error) {
	if len(b) < ImageHeaderSize {
		return h, fmt.Errorf("image header too short: %d", len(b))
	}
	h.StackPointer = binary.LittleEndian.Uint32(b[0:4])
	h.Entry = binary.LittleEndian.Uint32(b[4:8])
	return h, nil
}

// Bytes encodes the header.
func (h ImageHeader) Bytes() []byte {
	b := make([]byte, ImageHeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.StackPointer)
	binary.LittleEndian.PutUint32(b[4:8], h.Entry)
	return b
}

// String implements fmt.Stringer.
func (h ImageHeader) String() string {
	return fmt.Sprintf("sp=%08x pc=%08x", h.StackPointer, h.Entry)
}

// ImageSource provides the header of the update-mode image.
type ImageSource interface {
	ImageHeader() (ImageHeader, error)
}

// ChainLoader transfers control to another image.
// On hardware it never returns.
type ChainLoader interface {
	ChainLoad(ImageHeader) error
}
