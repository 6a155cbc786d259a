//go:build rp2040

package main

import (
	"machine"

	"servoease/servo"
)

// pwmPeripheral abstracts over TinyGo's unexported *pwmGroup type so the
// output can hold any of the eight PWM slices.
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

type pwmChannel struct {
	pwm pwmPeripheral
	ch  uint8
	top uint32
}

// PWMOutput implements servo.PulseOutput on the RP2040's hardware PWM.
// Each added pin claims a channel of its GPIO's PWM slice, configured for
// a 20 ms period. The two pins of one slice share a period, so any mix of
// servo pins works.
type PWMOutput struct {
	// channels is indexed by GPIO number.
	channels map[uint8]pwmChannel
	slices   map[uint8]pwmPeripheral
}

// NewPWMOutput returns an output with no pins claimed.
func NewPWMOutput() *PWMOutput {
	return &PWMOutput{
		channels: make(map[uint8]pwmChannel),
		slices:   make(map[uint8]pwmPeripheral),
	}
}

// Add claims a GPIO for pulse generation. Must be called before the pin is
// used in an attach.
func (o *PWMOutput) Add(pin machine.Pin) error {
	// GPIO N belongs to slice (N>>1)&7, channel N&1.
	sliceNum := uint8((pin >> 1) & 0x7)
	pwm, ok := o.slices[sliceNum]
	if !ok {
		pwm = pwmSlice(sliceNum)
		if err := pwm.Configure(machine.PWMConfig{
			Period: uint64(servo.RefreshIntervalMicros) * 1000, // ns
		}); err != nil {
			return err
		}
		o.slices[sliceNum] = pwm
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return err
	}
	o.channels[uint8(pin)] = pwmChannel{pwm: pwm, ch: ch, top: pwm.Top()}
	return nil
}

// UnitsPerPeriod reports microsecond-native resolution.
func (o *PWMOutput) UnitsPerPeriod() int { return servo.RefreshIntervalMicros }

// SetPulse programs one pin's pulse width in microseconds. A non-positive
// width drops the output to a steady low.
func (o *PWMOutput) SetPulse(pin uint8, units int) {
	c, ok := o.channels[pin]
	if !ok {
		servo.Debugln("pwm: pulse on unclaimed pin")
		return
	}
	if units <= 0 {
		c.pwm.Set(c.ch, 0)
		return
	}
	duty := uint32(uint64(units) * uint64(c.top) / servo.RefreshIntervalMicros)
	c.pwm.Set(c.ch, duty)
}

// pwmSlice returns the peripheral for a slice number 0..7.
func pwmSlice(n uint8) pwmPeripheral {
	switch n {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
