package config

import (
	"strings"
	"testing"

	"servoease/easing"
	"servoease/servo"
)

const validRig = `
serial:
  device: /dev/ttyACM0
channels:
  - name: pan
    pin: 0
    initial: 90
    speed: 60
    easing: cubic_in_out
  - pin: 1
    initial: 45
    trim: 3
    reverse: true
sequences:
  - name: wave
    steps:
      - positions: [0, 180]
        duration_ms: 500
      - positions: [180, 0]
        pause_ms: 250
`

func TestDecodeAppliesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(validRig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Serial.Baud != 115200 {
		t.Errorf("baud = %d, want 115200 default", cfg.Serial.Baud)
	}
	if cfg.Channels[1].Name != "channel1" {
		t.Errorf("unnamed channel got %q, want channel1", cfg.Channels[1].Name)
	}
	if cfg.Channels[1].Speed != servo.DefaultSpeed {
		t.Errorf("speed = %d, want engine default %d", cfg.Channels[1].Speed, servo.DefaultSpeed)
	}
	if cfg.Channels[1].Easing != "linear" {
		t.Errorf("easing = %q, want linear default", cfg.Channels[1].Easing)
	}

	want := easing.Selector{Curve: easing.Cubic, Style: easing.InOut}
	if got := cfg.Channels[0].EasingSelector(); got != want {
		t.Errorf("pan easing = %v, want %v", got, want)
	}
	if !cfg.Channels[1].Reverse || cfg.Channels[1].Trim != 3 {
		t.Error("trim/reverse not decoded")
	}
	if cfg.Sequences[0].Steps[0].Duration().Milliseconds() != 500 {
		t.Errorf("step duration = %v, want 500ms", cfg.Sequences[0].Steps[0].Duration())
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			"missing device",
			"channels:\n  - pin: 0\n",
			"serial.device",
		},
		{
			"no channels",
			"serial:\n  device: /dev/ttyACM0\n",
			"no channels",
		},
		{
			"duplicate names",
			"serial:\n  device: d\nchannels:\n  - name: a\n    pin: 0\n  - name: a\n    pin: 1\n",
			"duplicate name",
		},
		{
			"unknown easing",
			"serial:\n  device: d\nchannels:\n  - pin: 0\n    easing: wobble\n",
			"unknown easing",
		},
		{
			"sequence position count",
			"serial:\n  device: d\nchannels:\n  - pin: 0\nsequences:\n  - name: s\n    steps:\n      - positions: [1, 2]\n",
			"positions",
		},
		{
			"unnamed sequence",
			"serial:\n  device: d\nchannels:\n  - pin: 0\nsequences:\n  - steps:\n      - positions: [1]\n",
			"without a name",
		},
	}
	for _, tc := range cases {
		_, err := Decode(strings.NewReader(tc.yaml))
		if err == nil {
			t.Errorf("%s: no error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestDecodeMalformedYAML(t *testing.T) {
	if _, err := Decode(strings.NewReader(":\n  - not yaml")); err == nil {
		t.Error("malformed document decoded without error")
	}
}
