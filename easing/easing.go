// Package easing provides the interpolation curves used by the servo motion
// engine. A curve maps a fraction of elapsed time in [0,1] to a fraction of
// completed movement. The base curves are all "ease-in" shapes; the four call
// styles derive the out, in-out and bouncing variants from them, so any curve
// can be combined with any style.
//
// Results are not guaranteed to stay within [0,1]: the back and elastic
// curves intentionally overshoot.
package easing

import "math"

// Curve selects one of the base interpolation curve families.
type Curve uint8

const (
	Linear Curve = iota
	Quadratic
	Cubic
	Quartic
	Sine
	Circular
	Back
	Elastic
	BounceOut
	// UserDefined calls the globally registered user function,
	// see RegisterUserFunc.
	UserDefined
)

// Style selects how the base ease-in curve is called.
type Style uint8

const (
	// In uses the base curve directly.
	In Style = iota
	// Out mirrors the curve: 1 - f(1-t).
	Out
	// InOut eases in during the first half and out during the second.
	InOut
	// OutIn bounces: eases out to the target during the first half and
	// back in toward the start position during the second. A move with
	// this style returns to its start position.
	OutIn
)

// Selector pairs a curve family with a call style. The zero value is a
// linear move called directly.
type Selector struct {
	Curve Curve
	Style Style
}

// Func is a single base easing curve. Ease maps a fraction of elapsed time
// in [0,1] to a fraction of completed movement.
type Func interface {
	Ease(t float32) float32
}

// FuncOf adapts an ordinary function to the Func interface.
type FuncOf func(t float32) float32

// Ease calls f.
func (f FuncOf) Ease(t float32) float32 { return f(t) }

// noFunc is the explicit "nothing registered" user function. It pins the
// movement to the start position instead of dereferencing a nil handler.
var noFunc Func = FuncOf(func(float32) float32 { return 0 })

// userFunc is the single global user-registrable curve slot.
var userFunc = noFunc

// RegisterUserFunc installs f as the curve evaluated by UserDefined.
// Passing nil restores the "nothing registered" behavior.
func RegisterUserFunc(f Func) {
	if f == nil {
		f = noFunc
	}
	userFunc = f
}

// DegreeOffset is the sentinel bias a curve adds to signal that its result
// is an absolute target angle in degrees rather than a completion fraction.
// The engine detects such results with IsDegreeResult and routes them
// through unit conversion instead of delta scaling.
const DegreeOffset float32 = 200

// IsDegreeResult reports whether a curve result carries the DegreeOffset
// sentinel.
func IsDegreeResult(v float32) bool {
	return v >= DegreeOffset/2
}

// base returns the ease-in function for the curve family.
func (c Curve) base(t float32) float32 {
	switch c {
	case Linear:
		return t
	case Quadratic:
		return QuadraticIn(t)
	case Cubic:
		return CubicIn(t)
	case Quartic:
		return QuarticIn(t)
	case Sine:
		return SineIn(t)
	case Circular:
		return CircularIn(t)
	case Back:
		return BackIn(t)
	case Elastic:
		return ElasticIn(t)
	case BounceOut:
		return BounceOutOf(t)
	case UserDefined:
		return userFunc.Ease(t)
	default:
		return 0
	}
}

// Factor evaluates the selected curve with the call style applied.
// t is the fraction of elapsed time in [0,1].
func (s Selector) Factor(t float32) float32 {
	switch s.Style {
	case Out:
		return 1 - s.Curve.base(1-t)
	case InOut:
		if t <= 0.5 {
			return 0.5 * s.Curve.base(2*t)
		}
		return 1 - 0.5*s.Curve.base(2-2*t)
	case OutIn:
		if t <= 0.5 {
			// Out function at double rate toward the target.
			return 1 - s.Curve.base(1-2*t)
		}
		// Out function at double rate, backwards to the start.
		return 1 - s.Curve.base(2*t-1)
	default:
		return s.Curve.base(t)
	}
}

// QuadraticIn is the simplest non-linear curve: t squared.
func QuadraticIn(t float32) float32 {
	return t * t
}

// CubicIn is t cubed.
func CubicIn(t float32) float32 {
	return t * QuadraticIn(t)
}

// QuarticIn is t to the fourth power.
func QuarticIn(t float32) float32 {
	return QuadraticIn(QuadraticIn(t))
}

// SineIn takes the negative cosine over the first quadrant. It behaves
// almost like QuadraticIn.
func SineIn(t float32) float32 {
	return float32(math.Sin(float64(t-1)*math.Pi/2)) + 1
}

// CircularIn follows a quarter circle. It is very fast in the middle.
func CircularIn(t float32) float32 {
	return 1 - float32(math.Sqrt(float64(1-t*t)))
}

// BackIn overshoots below zero before accelerating toward the target.
func BackIn(t float32) float32 {
	return t*t*t - t*float32(math.Sin(float64(t)*math.Pi))
}

// ElasticIn oscillates with exponentially growing amplitude.
func ElasticIn(t float32) float32 {
	return float32(math.Sin(13*math.Pi/2*float64(t)) * math.Pow(2, 10*(float64(t)-1)))
}

// BounceOutOf is the piecewise bouncing-ball curve. Only the out shape is
// implemented; the call styles derive the others from it.
func BounceOutOf(t float32) float32 {
	switch {
	case t < 4/11.0:
		return (121 * t * t) / 16.0
	case t < 8/11.0:
		return (363/40.0)*t*t - (99/10.0)*t + 17/5.0
	case t < 9/10.0:
		return (4356/361.0)*t*t - (35442/1805.0)*t + 16061/1805.0
	default:
		return (54/5.0)*t*t - (513/25.0)*t + 268/25.0
	}
}
