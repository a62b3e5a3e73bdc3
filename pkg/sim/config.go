package sim

import (
	"flag"
	"os"
	"strings"

	"github.com/robotalks/mcv4b/pkg/l0/boot"
	"github.com/robotalks/mcv4b/pkg/l0/mcv"
)

// Config defines the configuration of the simulated board.
type Config struct {
	// ListenURL is where the simulated UART accepts links, tcp:// or ws://.
	ListenURL string
	// LinkURL opens a link (e.g. a serial port) instead of listening.
	LinkURL string
	// SentinelPath persists the sentinel cell in a file, in memory if empty.
	SentinelPath string
	// ImagePath is the update-mode image to read the header from.
	ImagePath string
	// UpdateCommand is the program run as the update-mode image.
	UpdateCommand string
	Version       int
}

// Defaults
const (
	DefaultListenURL = "tcp://127.0.0.1:7000"
)

// DefaultImageHeader stands for the system memory of the simulated chip.
var DefaultImageHeader = boot.ImageHeader{
	StackPointer: 0x20002000,
	Entry:        uint32(boot.SystemMemoryBase) | 1,
}

var defaultConfig = Config{
	ListenURL: DefaultListenURL,
	Version:   mcv.FirmwareVersion,
}

func init() {
	if val := os.Getenv("MCV_SIM_LISTEN"); val != "" {
		defaultConfig.ListenURL = val
	}
	if val := os.Getenv("MCV_SENTINEL"); val != "" {
		defaultConfig.SentinelPath = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ListenURL, "listen", defaultConfig.ListenURL, "Accept links on tcp:// or ws:// URL.")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Open link URL instead of listening.")
	flag.StringVar(&defaultConfig.SentinelPath, "sentinel", defaultConfig.SentinelPath, "File keeping the sentinel cell across restarts.")
	flag.StringVar(&defaultConfig.ImagePath, "update-image", defaultConfig.ImagePath, "Update-mode image file.")
	flag.StringVar(&defaultConfig.UpdateCommand, "update-cmd", defaultConfig.UpdateCommand, "Program run in update mode.")
	flag.IntVar(&defaultConfig.Version, "fw-version", defaultConfig.Version, "Reported firmware version.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewBoard creates the Board.
func (c *Config) NewBoard() *Board {
	b := NewBoard()
	b.Config = c
	if c.SentinelPath != "" {
		b.Cell = boot.NewFileCell(c.SentinelPath)
	}
	if c.ImagePath != "" {
		b.Image = boot.ImageFile(c.ImagePath)
	}
	b.UpdateCommand = strings.Fields(c.UpdateCommand)
	return b
}
