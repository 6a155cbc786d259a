// Package pca9685 drives the PCA9685 16-channel PWM expander as a pulse
// output. The chip generates all 16 pulses in hardware; the host only
// writes the on/off counter values over I2C.
package pca9685

import (
	"time"

	"tinygo.org/x/drivers"

	"servoease/servo"
)

// Register map.
const (
	regMode1      = 0x00
	regPrescale   = 0xFE
	regFirstPWM   = 0x06 // LED0_ON_L, 4 registers per channel
	regsPerPort   = 4
	mode1Sleep    = 1 << 4
	mode1AutoIncr = 1 << 5

	// General-call software reset.
	generalCallAddress = 0x00
	softwareReset      = 0x06
)

// unitsPerPeriod is the counter resolution of one 20 ms PWM period.
const unitsPerPeriod = 4096

// DefaultAddress is the chip's I2C address with all address pins low.
const DefaultAddress = 0x40

// DefaultUnitsFor0Degree and DefaultUnitsFor180Degree are 544 and 2400
// microseconds expressed in expander counter units.
const (
	DefaultUnitsFor0Degree   = 111
	DefaultUnitsFor180Degree = 491
)

// channelStagger spreads the 16 pulse start times evenly across the 20 ms
// period (4096/16 counts minus a small gap), which keeps the summed supply
// current low when many actuators move at once.
const channelStagger = 233

// Device is one PCA9685 on an I2C bus. It implements servo.PulseOutput for
// channels 0..15.
type Device struct {
	bus     drivers.I2C
	address uint16
	buf     [5]byte
	// errs counts failed bus transactions; SetPulse cannot return them.
	errs uint32
}

// New creates a handle for a PCA9685 at the given 7-bit address. Call
// Configure before use.
func New(bus drivers.I2C, address uint16) *Device {
	return &Device{bus: bus, address: address}
}

// Configure resets the chip and programs a 20 ms PWM period with register
// auto-increment enabled. The chip needs up to 500 microseconds to leave
// sleep mode after the prescaler is written; Configure waits 2 ms.
func (d *Device) Configure() error {
	// Software reset goes to the general-call address and affects every
	// PCA9685 on the bus.
	if err := d.bus.Tx(generalCallAddress, []byte{softwareReset}, nil); err != nil {
		return err
	}
	// Prescale can only be written in sleep mode.
	if err := d.writeRegister(regMode1, mode1Sleep); err != nil {
		return err
	}
	prescale := byte(25000000/(unitsPerPeriod*50) - 1) // 50 Hz from the 25 MHz internal clock
	if err := d.writeRegister(regPrescale, prescale); err != nil {
		return err
	}
	if err := d.writeRegister(regMode1, mode1AutoIncr); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

// Connected probes the chip with a one-byte read.
func (d *Device) Connected() bool {
	var b [1]byte
	return d.bus.Tx(d.address, []byte{regMode1}, b[:1]) == nil
}

// UnitsPerPeriod returns the expander's counter resolution, 4096 counts
// per 20 ms period.
func (d *Device) UnitsPerPeriod() int { return unitsPerPeriod }

// SetPulse programs one channel's pulse width in counter units. Each
// channel's pulse start is staggered within the period. A non-positive
// width sets the full-off bit, dropping the output to a steady low so the
// actuator goes limp.
func (d *Device) SetPulse(channel uint8, units int) {
	on := uint16(channel) * channelStagger
	var off uint16
	if units <= 0 {
		// Full-off: bit 4 of LED_OFF_H.
		on = 0
		off = unitsPerPeriod
	} else {
		off = (on + uint16(units)) % unitsPerPeriod
	}
	d.buf[0] = regFirstPWM + regsPerPort*channel
	d.buf[1] = byte(on)
	d.buf[2] = byte(on >> 8)
	d.buf[3] = byte(off)
	d.buf[4] = byte(off >> 8)
	if err := d.bus.Tx(d.address, d.buf[:], nil); err != nil {
		d.errs++
		servo.Debugln("pca9685: write failed: " + err.Error())
	}
}

// ErrorCount returns the number of failed bus transactions since creation.
func (d *Device) ErrorCount() uint32 { return d.errs }

func (d *Device) writeRegister(reg, value byte) error {
	return d.bus.Tx(d.address, []byte{reg, value}, nil)
}
