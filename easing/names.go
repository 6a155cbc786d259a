package easing

import "strings"

// Curve names, indexed by Curve value.
var curveNames = [...]string{
	Linear:      "linear",
	Quadratic:   "quadratic",
	Cubic:       "cubic",
	Quartic:     "quartic",
	Sine:        "sine",
	Circular:    "circular",
	Back:        "back",
	Elastic:     "elastic",
	BounceOut:   "bounce",
	UserDefined: "user",
}

// Style suffixes, indexed by Style value.
var styleNames = [...]string{
	In:    "in",
	Out:   "out",
	InOut: "in_out",
	OutIn: "bouncing_out_in",
}

// String returns the curve name, e.g. "cubic".
func (c Curve) String() string {
	if int(c) < len(curveNames) {
		return curveNames[c]
	}
	return "unknown"
}

// String returns the style suffix, e.g. "in_out".
func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return "unknown"
}

// String returns the combined name, e.g. "cubic_in_out".
func (s Selector) String() string {
	return s.Curve.String() + "_" + s.Style.String()
}

// ParseSelector parses names of the form "<curve>_<style>", e.g. "cubic_in",
// "elastic_bouncing_out_in". A bare curve name selects the in style; a bare
// "linear" is the zero Selector.
func ParseSelector(name string) (Selector, bool) {
	for ci := len(curveNames) - 1; ci >= 0; ci-- {
		cn := curveNames[ci]
		if name == cn {
			return Selector{Curve: Curve(ci)}, true
		}
		if !strings.HasPrefix(name, cn+"_") {
			continue
		}
		rest := strings.TrimPrefix(name, cn+"_")
		for si, sn := range styleNames {
			if rest == sn {
				return Selector{Curve: Curve(ci), Style: Style(si)}, true
			}
		}
		return Selector{}, false
	}
	return Selector{}, false
}
