//go:build rp2040

package main

import (
	"machine"
	"time"

	"servoease/easing"
	"servoease/output/pca9685"
	"servoease/servo"
)

// ModeConfig determines which mode the firmware runs.
type ModeConfig struct {
	// Bridge follows pulse commands from a host over USB serial.
	Bridge bool
	// Expander drives servos through a PCA9685 on I2C0 instead of the
	// on-chip PWM. When neither flag is set the firmware runs the
	// built-in sweep demo on the on-chip PWM.
	Expander bool
}

// GetMode returns the current mode configuration. Change it here, or read
// a strap pin at boot.
func GetMode() ModeConfig {
	return ModeConfig{}
}

const (
	servoPinA = machine.GP0
	servoPinB = machine.GP1
)

func main() {
	time.Sleep(2 * time.Second) // let USB enumerate before any output

	servo.SetDebugWriter(func(s string) { println(s) })

	if GetMode().Expander {
		runExpanderDemo()
		return
	}

	out := NewPWMOutput()
	if err := out.Add(servoPinA); err != nil {
		println("pwm claim failed:", err.Error())
		return
	}
	if err := out.Add(servoPinB); err != nil {
		println("pwm claim failed:", err.Error())
		return
	}

	if GetMode().Bridge {
		runBridge(out)
		return
	}
	runDemo(out)
}

// runDemo sweeps two servos between their endpoints forever, one eased and
// one linear, finishing each leg together.
func runDemo(out *PWMOutput) {
	reg := servo.NewRegistry(2)

	a, err := reg.AttachAt(servo.Config{Output: out, Pin: uint8(servoPinA)}, 0)
	if err != nil {
		println("attach failed:", err.Error())
		return
	}
	if _, err := reg.AttachAt(servo.Config{Output: out, Pin: uint8(servoPinB)}, 180); err != nil {
		println("attach failed:", err.Error())
		return
	}

	a.SetEasing(easing.Selector{Curve: easing.Cubic, Style: easing.InOut})
	reg.SetSpeedAll(60)

	low, high := 0, 180
	for {
		reg.SetNextPositions(high, low)
		reg.SynchronizeMoveAllAndWait()
		time.Sleep(500 * time.Millisecond)

		reg.SetNextPositions(low, high)
		reg.SynchronizeMoveAllAndWait()
		time.Sleep(500 * time.Millisecond)
	}
}

// runExpanderDemo sweeps the first two expander channels, mirror-imaged,
// with all pulse generation offloaded to the PCA9685.
func runExpanderDemo() {
	bus, err := setupI2C(0, 400000)
	if err != nil {
		println("i2c setup failed:", err.Error())
		return
	}
	dev := pca9685.New(bus, pca9685.DefaultAddress)
	if !dev.Connected() {
		println("pca9685 not responding")
		return
	}
	if err := dev.Configure(); err != nil {
		println("pca9685 configure failed:", err.Error())
		return
	}

	reg := servo.NewRegistry(2)
	if _, err := reg.AttachAt(servo.Config{Output: dev, Pin: 0}, 0); err != nil {
		println("attach failed:", err.Error())
		return
	}
	if _, err := reg.AttachAt(servo.Config{Output: dev, Pin: 1}, 180); err != nil {
		println("attach failed:", err.Error())
		return
	}
	reg.SetSpeedAll(90)
	reg.SetEasingAll(easing.Selector{Curve: easing.Sine, Style: easing.InOut})

	for {
		reg.SetNextPositions(180, 0)
		reg.SynchronizeMoveAllAndWait()
		reg.SetNextPositions(0, 180)
		reg.SynchronizeMoveAllAndWait()
	}
}

// runBridge applies "S <pin> <microseconds>" lines from USB serial to the
// PWM output. Malformed lines are dropped.
func runBridge(out *PWMOutput) {
	var (
		line [32]byte
		n    int
	)
	for {
		c, err := machine.Serial.ReadByte()
		if err != nil {
			time.Sleep(time.Millisecond)
			continue
		}
		if c != '\n' {
			if n < len(line) {
				line[n] = c
				n++
			}
			continue
		}
		pin, units, ok := parsePulseCommand(line[:n])
		n = 0
		if ok {
			out.SetPulse(pin, units)
		}
	}
}

// parsePulseCommand parses "S <pin> <units>" without allocating.
func parsePulseCommand(b []byte) (pin uint8, units int, ok bool) {
	if len(b) < 5 || b[0] != 'S' || b[1] != ' ' {
		return 0, 0, false
	}
	i := 2
	p := 0
	for ; i < len(b) && b[i] != ' '; i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, 0, false
		}
		p = p*10 + int(b[i]-'0')
	}
	if i >= len(b) || p > 255 {
		return 0, 0, false
	}
	i++
	u := 0
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, 0, false
		}
		u = u*10 + int(b[i]-'0')
	}
	return uint8(p), u, true
}
