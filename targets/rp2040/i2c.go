//go:build rp2040

package main

import (
	"errors"
	"machine"
)

// setupI2C configures an I2C bus for the PWM expander. Bus 0 uses the
// default pins SDA=GP4, SCL=GP5; bus 1 uses SDA=GP6, SCL=GP7. The returned
// *machine.I2C satisfies drivers.I2C directly.
func setupI2C(bus int, frequencyHz uint32) (*machine.I2C, error) {
	var i2c *machine.I2C
	switch bus {
	case 0:
		i2c = machine.I2C0
	case 1:
		i2c = machine.I2C1
	default:
		return nil, errors.New("unsupported I2C bus")
	}
	if err := i2c.Configure(machine.I2CConfig{Frequency: frequencyHz}); err != nil {
		return nil, err
	}
	return i2c, nil
}
