package easing

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestCurveEndpoints(t *testing.T) {
	curves := []Curve{Linear, Quadratic, Cubic, Quartic, Sine, Circular, Back, Elastic, BounceOut}
	for _, c := range curves {
		if got := c.base(0); !almostEqual(got, 0) {
			t.Errorf("%s: base(0) = %v, want 0", c, got)
		}
		if got := c.base(1); !almostEqual(got, 1) {
			t.Errorf("%s: base(1) = %v, want 1", c, got)
		}
	}
}

func TestStyleTransforms(t *testing.T) {
	// Quadratic has easily checked values at the quarter points.
	cases := []struct {
		style Style
		t     float32
		want  float32
	}{
		{In, 0.5, 0.25},
		{Out, 0.5, 0.75},
		{InOut, 0.5, 0.5},
		{InOut, 0.25, 0.125}, // 0.5 * (2*0.25)^2
		{InOut, 0.75, 0.875}, // 1 - 0.5 * (2-1.5)^2
		{OutIn, 0.25, 0.75},  // 1 - (1-0.5)^2
		{OutIn, 0.5, 1},      // peak of the bounce
		{OutIn, 0.75, 0.75},  // mirrored descent
	}
	for _, tc := range cases {
		sel := Selector{Curve: Quadratic, Style: tc.style}
		if got := sel.Factor(tc.t); !almostEqual(got, tc.want) {
			t.Errorf("%s Factor(%v) = %v, want %v", sel, tc.t, got, tc.want)
		}
	}
}

func TestOutInStartsAndEndsAtZero(t *testing.T) {
	// A bouncing move must return to its start: the factor is 0 at both
	// ends for every curve family.
	curves := []Curve{Linear, Quadratic, Cubic, Quartic, Sine, Circular, BounceOut}
	for _, c := range curves {
		sel := Selector{Curve: c, Style: OutIn}
		if got := sel.Factor(0); !almostEqual(got, 0) {
			t.Errorf("%s: Factor(0) = %v, want 0", sel, got)
		}
		if got := sel.Factor(1); !almostEqual(got, 0) {
			t.Errorf("%s: Factor(1) = %v, want 0", sel, got)
		}
	}
}

func TestInOutSymmetry(t *testing.T) {
	for _, c := range []Curve{Quadratic, Cubic, Sine, Circular} {
		sel := Selector{Curve: c, Style: InOut}
		for _, tt := range []float32{0.1, 0.2, 0.3, 0.4} {
			a := sel.Factor(tt)
			b := sel.Factor(1 - tt)
			if !almostEqual(a+b, 1) {
				t.Errorf("%s: Factor(%v)+Factor(%v) = %v, want 1", sel, tt, 1-tt, a+b)
			}
		}
	}
}

func TestBounceOutPiecewiseContinuity(t *testing.T) {
	// The piecewise parabolas must meet at their boundaries.
	boundaries := []float32{4 / 11.0, 8 / 11.0, 9 / 10.0}
	for _, b := range boundaries {
		lo := BounceOutOf(b - 1e-4)
		hi := BounceOutOf(b + 1e-4)
		if math.Abs(float64(lo-hi)) > 0.01 {
			t.Errorf("BounceOutOf discontinuous at %v: %v vs %v", b, lo, hi)
		}
	}
}

func TestRegisterUserFunc(t *testing.T) {
	defer RegisterUserFunc(nil)

	sel := Selector{Curve: UserDefined, Style: In}
	if got := sel.Factor(0.5); !almostEqual(got, 0) {
		t.Fatalf("unregistered user curve: Factor(0.5) = %v, want 0", got)
	}

	RegisterUserFunc(FuncOf(func(t float32) float32 { return 2 * t }))
	if got := sel.Factor(0.25); !almostEqual(got, 0.5) {
		t.Errorf("registered user curve: Factor(0.25) = %v, want 0.5", got)
	}

	RegisterUserFunc(nil)
	if got := sel.Factor(0.5); !almostEqual(got, 0) {
		t.Errorf("after nil restore: Factor(0.5) = %v, want 0", got)
	}
}

func TestIsDegreeResult(t *testing.T) {
	cases := []struct {
		v    float32
		want bool
	}{
		{0, false},
		{1, false},
		{1.5, false}, // overshooting curves stay fractions
		{99.9, false},
		{100, true},
		{DegreeOffset, true},
		{DegreeOffset + 180, true},
	}
	for _, tc := range cases {
		if got := IsDegreeResult(tc.v); got != tc.want {
			t.Errorf("IsDegreeResult(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestParseSelector(t *testing.T) {
	cases := []struct {
		name string
		want Selector
		ok   bool
	}{
		{"linear", Selector{Linear, In}, true},
		{"cubic", Selector{Cubic, In}, true},
		{"cubic_in_out", Selector{Cubic, InOut}, true},
		{"bounce_out", Selector{BounceOut, Out}, true},
		{"elastic_bouncing_out_in", Selector{Elastic, OutIn}, true},
		{"quadratic_in", Selector{Quadratic, In}, true},
		{"user_in_out", Selector{UserDefined, InOut}, true},
		{"", Selector{}, false},
		{"wobble", Selector{}, false},
		{"cubic_sideways", Selector{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseSelector(tc.name)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseSelector(%q) = %v, %v; want %v, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSelectorStringRoundTrip(t *testing.T) {
	curves := []Curve{Linear, Quadratic, Cubic, Quartic, Sine, Circular, Back, Elastic, BounceOut, UserDefined}
	styles := []Style{In, Out, InOut, OutIn}
	for _, c := range curves {
		for _, s := range styles {
			sel := Selector{Curve: c, Style: s}
			got, ok := ParseSelector(sel.String())
			if !ok || got != sel {
				t.Errorf("ParseSelector(%q) = %v, %v; want %v", sel.String(), got, ok, sel)
			}
		}
	}
}
