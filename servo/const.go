package servo

import "time"

const (
	// RefreshIntervalMicros is the servo refresh period in microseconds.
	// 20 ms / 50 Hz is the step rate of standard analog servos and the
	// nominal tick period of the engine.
	RefreshIntervalMicros = 20000

	// RefreshInterval is the refresh period as a duration, used by the
	// blocking helpers between polls.
	RefreshInterval = RefreshIntervalMicros * time.Microsecond

	// DefaultMicrosecondsFor0Degree and DefaultMicrosecondsFor180Degree
	// are the calibration endpoints used when Attach is not given any.
	// They match the full range of common hobby servos.
	DefaultMicrosecondsFor0Degree   = 544
	DefaultMicrosecondsFor180Degree = 2400

	// DefaultPulseMicroseconds is the resting pulse assumed for a freshly
	// attached channel before any explicit write (roughly mid-range).
	DefaultPulseMicroseconds = 1500

	// DefaultSpeed is the degrees-per-second rate used by moves before
	// SetSpeed is called.
	DefaultSpeed uint16 = 5

	// MicrosecondsThreshold disambiguates position parameters: values
	// below it are degrees, values at or above it are microseconds.
	//
	// The split is a caller-facing heuristic inherited from the pulse
	// domain (servo pulses never go below ~500 us, angles never above
	// 180): a degree parameter outside roughly [-180, 400) cannot be
	// expressed. Callers with large negative-offset calibrations must
	// pass microseconds instead.
	MicrosecondsThreshold = 400

	// DefaultCapacity is the registry slot count used by NewRegistry
	// when given a non-positive capacity.
	DefaultCapacity = 16

	// InvalidChannel is the slot index of a detached channel.
	InvalidChannel uint8 = 0xFF
)
