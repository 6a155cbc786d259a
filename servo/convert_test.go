package servo

import "testing"

func TestMapRange(t *testing.T) {
	cases := []struct {
		x, inLow, inHigh, outLow, outHigh, want int
	}{
		{0, 0, 180, 544, 2400, 544},
		{180, 0, 180, 544, 2400, 2400},
		{90, 0, 180, 544, 2400, 1472},
		{45, 0, 180, 544, 2400, 1008},
		{200, 0, 180, 544, 2400, 2606}, // extrapolates past the endpoints
		{-10, 0, 180, 544, 2400, 441},
	}
	for _, tc := range cases {
		got := mapRange(tc.x, tc.inLow, tc.inHigh, tc.outLow, tc.outHigh)
		if got != tc.want {
			t.Errorf("mapRange(%d) = %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestDegreeUnitsRoundTrip(t *testing.T) {
	_, ch := newTestChannel(t, RefreshIntervalMicros)
	for deg := 0; deg <= 180; deg++ {
		units := ch.degreeToUnits(deg)
		if back := ch.unitsToDegree(units); back != deg {
			t.Fatalf("round trip %d deg -> %d units -> %d deg", deg, units, back)
		}
	}
}

func TestDegreeToUnitsMicrosecondParams(t *testing.T) {
	_, ch := newTestChannel(t, RefreshIntervalMicros)
	// At or above the threshold the parameter is a pulse width, and for a
	// microsecond-native output the conversion is the identity.
	for _, us := range []int{MicrosecondsThreshold, 544, 1500, 2400} {
		if got := ch.degreeToUnits(us); got != us {
			t.Errorf("degreeToUnits(%d) = %d, want identity", us, got)
		}
	}
	// Just below the threshold it is still a degree.
	if got := ch.degreeToUnits(MicrosecondsThreshold - 1); got == MicrosecondsThreshold-1 {
		t.Errorf("degreeToUnits(%d) treated a degree as microseconds", MicrosecondsThreshold-1)
	}
}

func TestExpanderResolution(t *testing.T) {
	_, ch := newTestChannel(t, 4096)
	// 544 and 2400 us in 12-bit counter units over a 20 ms period.
	if ch.calLow != 111 || ch.calHigh != 491 {
		t.Fatalf("calibration = %d/%d units, want 111/491", ch.calLow, ch.calHigh)
	}
	if got := ch.microsecondsToUnits(1500); got != 307 {
		t.Errorf("microsecondsToUnits(1500) = %d, want 307", got)
	}
	if got := ch.microsecondsToDegree(1500); got < 90 || got > 95 {
		t.Errorf("microsecondsToDegree(1500) = %d, want ~93", got)
	}
}

func TestApplyTrimAndReverse(t *testing.T) {
	_, ch := newTestChannel(t, RefreshIntervalMicros)

	if got := ch.applyTrimAndReverse(1000); got != 1000 {
		t.Errorf("neutral channel altered the pulse: %d", got)
	}

	ch.trim = 100
	if got := ch.applyTrimAndReverse(1000); got != 1100 {
		t.Errorf("trim: got %d, want 1100", got)
	}

	ch.reverse = true
	// Mirror around the calibration range: calHigh - (units - calLow).
	if got := ch.applyTrimAndReverse(1000); got != 2400-(1100-544) {
		t.Errorf("trim+reverse: got %d, want %d", got, 2400-(1100-544))
	}

	ch.trim = 0
	if got := ch.applyTrimAndReverse(ch.calLow); got != ch.calHigh {
		t.Errorf("reverse of calLow: got %d, want calHigh %d", got, ch.calHigh)
	}
}

func TestSetTrimDegrees(t *testing.T) {
	_, ch := newTestChannel(t, RefreshIntervalMicros)
	ch.SetTrim(10, false)
	want := ch.degreeToUnits(10) - ch.calLow
	if ch.trim != want {
		t.Errorf("SetTrim(10) stored %d units, want %d", ch.trim, want)
	}
	ch.SetTrim(-10, false)
	if ch.trim != -want {
		t.Errorf("SetTrim(-10) stored %d units, want %d", ch.trim, -want)
	}
}

func TestCustomCalibrationRange(t *testing.T) {
	reg := NewRegistry(1)
	out := &recordingOutput{res: RefreshIntervalMicros}
	ch, err := reg.Attach(Config{
		Output:           out,
		MicrosecondsLow:  1000,
		MicrosecondsHigh: 2000,
		DegreeLow:        45,
		DegreeHigh:       135,
	})
	if err != nil {
		t.Fatal(err)
	}
	// Normalized to 0/180: 45..135 -> 1000..2000 extrapolates to
	// 500..2500 over the full range.
	if ch.calLow != 500 || ch.calHigh != 2500 {
		t.Fatalf("calibration = %d/%d, want 500/2500", ch.calLow, ch.calHigh)
	}
	if got := ch.degreeToUnits(90); got != 1500 {
		t.Errorf("degreeToUnits(90) = %d, want 1500", got)
	}
}
