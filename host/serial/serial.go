package serial

import (
	"io"
)

// Port is a byte stream to a microcontroller running the pulse bridge
// firmware. Implementations exist for native serial devices and for tests.
type Port interface {
	io.ReadWriteCloser

	// Flush discards buffered data.
	Flush() error
}

// Config holds serial port parameters.
type Config struct {
	// Device path, e.g. "/dev/ttyACM0" or "COM3".
	Device string

	// Baud rate. USB CDC devices ignore it.
	Baud int

	// Read timeout in milliseconds, 0 blocks.
	ReadTimeout int
}

// DefaultConfig returns the parameters expected by the bridge firmware.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
