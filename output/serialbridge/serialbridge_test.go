package serialbridge

import (
	"bytes"
	"errors"
	"testing"

	"servoease/servo"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("port gone") }

func TestSetPulseWireFormat(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf)

	b.SetPulse(3, 1500)
	b.SetPulse(0, 544)
	if got, want := buf.String(), "S 3 1500\nS 0 544\n"; got != want {
		t.Errorf("wire = %q, want %q", got, want)
	}
}

func TestSetPulseClampsNegative(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).SetPulse(1, -5)
	if got := buf.String(); got != "S 1 0\n" {
		t.Errorf("wire = %q, want %q", got, "S 1 0\n")
	}
}

func TestUnitsPerPeriodIsMicroseconds(t *testing.T) {
	if got := New(&bytes.Buffer{}).UnitsPerPeriod(); got != servo.RefreshIntervalMicros {
		t.Errorf("UnitsPerPeriod = %d, want %d", got, servo.RefreshIntervalMicros)
	}
}

func TestWriteErrorCounted(t *testing.T) {
	var logged string
	servo.SetDebugWriter(func(s string) { logged = s })
	defer servo.SetDebugWriter(func(string) {})

	b := New(failWriter{})
	b.SetPulse(0, 1500)
	if b.ErrorCount() != 1 {
		t.Errorf("ErrorCount = %d, want 1", b.ErrorCount())
	}
	if logged == "" {
		t.Error("write error was not reported through the debug writer")
	}
}
