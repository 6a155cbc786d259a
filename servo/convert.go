package servo

// Unit conversion between the external degree/microsecond interface and a
// channel's internal pulse units. All mappings are linear through the
// channel's calibration endpoints; the inverse mapping rounds to the nearest
// whole degree instead of truncating.

// mapRange linearly maps x from [inLow, inHigh] to [outLow, outHigh] with
// truncating integer division. Values outside the input range extrapolate.
func mapRange(x, inLow, inHigh, outLow, outHigh int) int {
	return (x-inLow)*(outHigh-outLow)/(inHigh-inLow) + outLow
}

// degreeToUnits converts a position parameter to pulse units. Values below
// MicrosecondsThreshold are degrees and map through the calibration
// endpoints; larger values are microseconds and only need the resolution
// conversion for non-microsecond outputs.
func (c *Channel) degreeToUnits(degreeOrMicros int) int {
	if degreeOrMicros < MicrosecondsThreshold {
		return mapRange(degreeOrMicros, 0, 180, c.calLow, c.calHigh)
	}
	return c.microsecondsToUnits(degreeOrMicros)
}

// microsecondsToUnits converts a microsecond pulse width to the output's
// units. Identity for microsecond-native outputs; for an expander with 4096
// units per 20 ms period this is micros/4.8828.
func (c *Channel) microsecondsToUnits(micros int) int {
	if c.unitsPerPeriod == RefreshIntervalMicros {
		return micros
	}
	return micros * c.unitsPerPeriod / RefreshIntervalMicros
}

// unitsToMicroseconds is the inverse resolution conversion.
func (c *Channel) unitsToMicroseconds(units int) int {
	if c.unitsPerPeriod == RefreshIntervalMicros {
		return units
	}
	return units * RefreshIntervalMicros / c.unitsPerPeriod
}

// unitsToDegree converts pulse units back to a whole degree, rounding to
// nearest rather than truncating: the half-step bias is half of the
// calibration span, so diff*180/span rounds half up.
func (c *Channel) unitsToDegree(units int) int {
	span := c.calHigh - c.calLow
	return ((units-c.calLow)*180 + span/2) / span
}

// microsecondsToDegree converts an external microsecond value to a whole
// degree. For microsecond-native outputs this is unitsToDegree; for
// expander outputs the calibration endpoints are converted back to
// microseconds first, so the parameter never needs to know the resolution.
func (c *Channel) microsecondsToDegree(micros int) int {
	if c.unitsPerPeriod == RefreshIntervalMicros {
		return c.unitsToDegree(micros)
	}
	low := c.unitsToMicroseconds(c.calLow)
	span := c.unitsToMicroseconds(c.calHigh) - low
	return ((micros-low)*180 + span/2) / span
}

// applyTrimAndReverse computes the pulse value actually written for a stored
// position: trim is added, then a reversed channel mirrors the result around
// the calibration midpoint. Pure: it never writes back to the stored state,
// and it is evaluated only at the pulse-write boundary.
func (c *Channel) applyTrimAndReverse(units int) int {
	units += c.trim
	if c.reverse {
		units = c.calHigh - (units - c.calLow)
	}
	return units
}

// DegreeToUnitsWithTrimAndReverse converts a degree value the way a write
// would, trim and reverse included. Mainly for calibration and testing,
// since trim and reverse are normally applied only at each write.
func (c *Channel) DegreeToUnitsWithTrimAndReverse(degree int) int {
	return c.applyTrimAndReverse(mapRange(degree, 0, 180, c.calLow, c.calHigh))
}
