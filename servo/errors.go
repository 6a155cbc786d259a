package servo

import "errors"

var (
	// ErrDetached is returned by operations on a channel that is not
	// attached to a registry slot.
	ErrDetached = errors.New("channel is detached")

	// ErrRegistryFull is returned by Attach when no free slot exists.
	ErrRegistryFull = errors.New("registry is full")

	// ErrNoOutput is returned by Attach when no pulse output is given.
	ErrNoOutput = errors.New("no pulse output configured")

	// ErrBadCalibration is returned by Attach when the two calibration
	// endpoints coincide.
	ErrBadCalibration = errors.New("calibration endpoints must differ")
)
