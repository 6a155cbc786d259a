package servo

// PulseOutput is the sink for computed pulse values. It may be a direct
// peripheral register write or a transactional bus write to an external PWM
// controller. Implementations report failures out-of-band (see SetDebugWriter)
// and must never block for longer than a bus transaction: SetPulse is called
// from the tick, which may run in interrupt context.
type PulseOutput interface {
	// SetPulse writes a pulse width, in the output's own units, for one
	// output channel or pin. Fire and forget: errors are not returned.
	SetPulse(channel uint8, units int)

	// UnitsPerPeriod reports the pulse resolution: the number of units in
	// one refresh period. Outputs with microsecond-native resolution
	// return RefreshIntervalMicros; a 12-bit expander returns 4096.
	UnitsPerPeriod() int
}

// SignalOffUnits is the pulse value that turns an output channel fully off.
// It is written when a channel detaches.
const SignalOffUnits = 0
