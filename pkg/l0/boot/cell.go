package boot

import (
	"encoding/binary"
	"io/ioutil"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/robotalks/mcv4b/pkg/l0/internal/trace"
)

// MemCell is a Cell in process memory, it survives a simulated reset
// as long as the same value is reused.
type MemCell struct {
	val uint32
}

// Load implements Cell.
func (c *MemCell) Load() uint32 {
	return atomic.LoadUint32(&c.val)
}

// Store implements Cell.
func (c *MemCell) Store(v uint32) {
	atomic.StoreUint32(&c.val, v)
}

// Register is a memory-mapped register.
type Register interface {
	Get() uint32
	Set(uint32)
}

// RegisterPairCell keeps the word in two 16-bit registers, low half in
// Lo, such as the backup data registers of a STM32F1 which keep their
// value across a system reset and are not touched by runtime startup.
type RegisterPairCell struct {
	Lo, Hi Register
}

// Load implements Cell.
func (c RegisterPairCell) Load() uint32 {
	return c.Lo.Get()&0xffff | (c.Hi.Get()&0xffff)<<16
}

// Store implements Cell.
func (c RegisterPairCell) Store(v uint32) {
	c.Lo.Set(v & 0xffff)
	c.Hi.Set(v >> 16)
}

// FileCell is a Cell persisted in a file, it survives process restarts.
// A missing or short file reads as 0.
type FileCell struct {
	Path string
}

// NewFileCell creates a FileCell.
func NewFileCell(path string) *FileCell {
	return &FileCell{Path: path}
}

// Load implements Cell.
func (c *FileCell) Load() uint32 {
	data, err := ioutil.ReadFile(c.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			trace.Warningf("sentinel %s: %v", c.Path, err)
		}
		return 0
	}
	if len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}

// Store implements Cell.
func (c *FileCell) Store(v uint32) {
	if err := c.write(v); err != nil {
		trace.Errorf("sentinel %s: %v", c.Path, err)
	}
}

func (c *FileCell) write(v uint32) error {
	f, err := os.OpenFile(c.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	if _, err = f.Write(b[:]); err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return errors.Wrap(err, "write")
}
