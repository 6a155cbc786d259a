// Package config loads the host rig description: the serial link, the
// channels attached to it, and named motion sequences.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"servoease/easing"
	"servoease/servo"
)

// Config is the root of a rig description file.
type Config struct {
	// Serial link to the bridge firmware.
	Serial SerialConfig `yaml:"serial"`

	// Channels attached at startup, in slot order.
	Channels []ChannelConfig `yaml:"channels"`

	// Sequences are named motion scripts runnable from the console.
	Sequences []Sequence `yaml:"sequences"`
}

// SerialConfig holds serial link settings.
type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// ChannelConfig describes one actuator.
type ChannelConfig struct {
	Name string `yaml:"name"`
	Pin  uint8  `yaml:"pin"`

	// Calibration endpoints; zero selects 544/2400 us over 0..180 deg.
	MicrosLow  int `yaml:"micros_low"`
	MicrosHigh int `yaml:"micros_high"`
	DegreeLow  int `yaml:"degree_low"`
	DegreeHigh int `yaml:"degree_high"`

	// Initial position in degrees, written at attach.
	Initial int `yaml:"initial"`

	Speed   uint16 `yaml:"speed"`  // degrees per second, 0 selects the engine default
	Easing  string `yaml:"easing"` // e.g. "cubic_in_out", empty means linear
	Trim    int    `yaml:"trim"`   // degrees
	Reverse bool   `yaml:"reverse"`
}

// Sequence is a named list of group moves.
type Sequence struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step moves all channels to the given positions (degrees, slot order) and
// waits for the group to arrive, then pauses.
type Step struct {
	Positions []int `yaml:"positions"`
	// DurationMillis stretches the whole step; 0 uses per-channel speeds.
	DurationMillis int `yaml:"duration_ms"`
	PauseMillis    int `yaml:"pause_ms"`
}

// Duration returns the step's stretch duration.
func (s *Step) Duration() time.Duration {
	return time.Duration(s.DurationMillis) * time.Millisecond
}

// Pause returns the pause after the step.
func (s *Step) Pause() time.Duration {
	return time.Duration(s.PauseMillis) * time.Millisecond
}

// Load reads and validates a rig description file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a rig description from r.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Serial.Baud == 0 {
		c.Serial.Baud = 115200
	}
	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.Name == "" {
			ch.Name = fmt.Sprintf("channel%d", i)
		}
		if ch.Speed == 0 {
			ch.Speed = servo.DefaultSpeed
		}
		if ch.Easing == "" {
			ch.Easing = "linear"
		}
	}
}

func (c *Config) validate() error {
	if c.Serial.Device == "" {
		return fmt.Errorf("serial.device missing")
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("no channels configured")
	}
	names := make(map[string]bool, len(c.Channels))
	for i := range c.Channels {
		ch := &c.Channels[i]
		if names[ch.Name] {
			return fmt.Errorf("channel %q: duplicate name", ch.Name)
		}
		names[ch.Name] = true
		if _, ok := easing.ParseSelector(ch.Easing); !ok {
			return fmt.Errorf("channel %q: unknown easing %q", ch.Name, ch.Easing)
		}
	}
	for _, s := range c.Sequences {
		if s.Name == "" {
			return fmt.Errorf("sequence without a name")
		}
		for j, st := range s.Steps {
			if len(st.Positions) != len(c.Channels) {
				return fmt.Errorf("sequence %q step %d: %d positions for %d channels",
					s.Name, j, len(st.Positions), len(c.Channels))
			}
		}
	}
	return nil
}

// EasingSelector returns the parsed curve selector for a channel. Valid
// after Load, which rejects unknown names.
func (ch *ChannelConfig) EasingSelector() easing.Selector {
	sel, _ := easing.ParseSelector(ch.Easing)
	return sel
}
