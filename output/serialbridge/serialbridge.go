// Package serialbridge streams pulse commands over a serial link to a
// microcontroller that owns the actual PWM hardware. It lets the motion
// engine run on a host machine while the pulses are generated remotely.
//
// The wire format is line oriented, one command per pulse write:
//
//	S <channel> <microseconds>\n
//
// The firmware applies each command on its next refresh period, so the
// host-side tick rate and the firmware pulse rate stay decoupled.
package serialbridge

import (
	"fmt"
	"io"

	"servoease/servo"
)

// Bridge implements servo.PulseOutput over a byte stream, typically a
// serial.Port.
type Bridge struct {
	w    io.Writer
	errs uint32
}

// New creates a bridge writing pulse commands to w.
func New(w io.Writer) *Bridge {
	return &Bridge{w: w}
}

// UnitsPerPeriod reports microsecond-native resolution; the firmware does
// any further scaling for its own hardware.
func (b *Bridge) UnitsPerPeriod() int { return servo.RefreshIntervalMicros }

// SetPulse sends one pulse command. A non-positive width tells the
// firmware to stop pulsing the channel.
func (b *Bridge) SetPulse(channel uint8, units int) {
	if units < 0 {
		units = 0
	}
	if _, err := fmt.Fprintf(b.w, "S %d %d\n", channel, units); err != nil {
		b.errs++
		servo.Debugln("serialbridge: write failed: " + err.Error())
	}
}

// ErrorCount returns the number of failed writes since creation.
func (b *Bridge) ErrorCount() uint32 { return b.errs }
