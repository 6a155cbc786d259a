package servo

import (
	"fmt"
	"time"

	"servoease/easing"
)

// ArrivalHandler is notified exactly once when a channel's move completes,
// from inside the tick that wrote the final position. The handler may start
// a new move on the same channel.
type ArrivalHandler interface {
	OnTargetReached(c *Channel)
}

// ArrivalFunc adapts an ordinary function to the ArrivalHandler interface.
type ArrivalFunc func(c *Channel)

// OnTargetReached calls f.
func (f ArrivalFunc) OnTargetReached(c *Channel) { f(c) }

// noArrival is the explicit "nothing registered" handler, so the tick never
// branches on a nil callback.
var noArrival ArrivalHandler = ArrivalFunc(func(*Channel) {})

// Channel is one actuator's complete movement state and calibration. A
// Channel is owned by its Registry from Attach until Detach; application
// code holds the handle returned by Attach and must not copy it.
type Channel struct {
	output PulseOutput
	pin    uint8

	// Calibration, set once at attach time.
	unitsPerPeriod int
	calLow         int // pulse units at 0 degrees
	calHigh        int // pulse units at 180 degrees

	trim    int // pulse units, added at every write only
	reverse bool

	current int // pulse units last written
	target  int // fixed at move start
	start   int // fixed at move start
	delta   int // target - start, fixed at move start

	startMillis    uint32
	durationMillis uint32 // mutated post-start only by SynchronizeAll
	speed          uint16 // degrees per second

	sel    easing.Selector
	moving bool // sole authority for whether Update computes

	onReached ArrivalHandler

	index uint8 // registry slot, InvalidChannel when detached
	reg   *Registry
}

// Index returns the channel's registry slot, or InvalidChannel if detached.
func (c *Channel) Index() uint8 { return c.index }

// Attached reports whether the channel occupies a registry slot.
func (c *Channel) Attached() bool { return c.index != InvalidChannel }

// IsMoving reports whether a move is in progress.
func (c *Channel) IsMoving() bool { return c.moving }

// Speed returns the configured move speed in degrees per second.
func (c *Channel) Speed() uint16 { return c.speed }

// SetSpeed sets the move speed in degrees per second, used by moves that
// derive their duration from speed and distance.
func (c *Channel) SetSpeed(degreesPerSecond uint16) { c.speed = degreesPerSecond }

// Easing returns the active curve selector.
func (c *Channel) Easing() easing.Selector { return c.sel }

// SetEasing selects the curve family and call style for subsequent moves.
func (c *Channel) SetEasing(sel easing.Selector) { c.sel = sel }

// Reversed reports whether output pulses are mirrored around the
// calibration midpoint.
func (c *Channel) Reversed() bool { return c.reverse }

// SetReverse mirrors (or un-mirrors) output pulses around the calibration
// midpoint. Evaluated only at the pulse-write boundary; stored positions
// are unaffected.
func (c *Channel) SetReverse(reverse bool) { c.reverse = reverse }

// TrimUnits returns the trim offset in pulse units.
func (c *Channel) TrimUnits() int { return c.trim }

// SetTrim sets the trim offset from a degree value, relative to the 0
// degree calibration endpoint. If write is true the current position is
// re-written so the trim takes effect immediately.
func (c *Channel) SetTrim(degrees int, write bool) bool {
	if degrees >= 0 {
		return c.SetTrimUnits(c.degreeToUnits(degrees)-c.calLow, write)
	}
	return c.SetTrimUnits(-(c.degreeToUnits(-degrees) - c.calLow), write)
}

// SetTrimUnits sets the trim offset in raw pulse units. The trim is added
// at every pulse write and never changes stored positions.
func (c *Channel) SetTrimUnits(units int, write bool) bool {
	c.trim = units
	if write {
		return c.writeUnits(c.current)
	}
	return c.Attached()
}

// OnTargetReached registers the handler invoked when a move completes.
// Passing nil clears it.
func (c *Channel) OnTargetReached(h ArrivalHandler) {
	if h == nil {
		h = noArrival
	}
	c.onReached = h
}

// CurrentAngle returns the last written position as a whole degree,
// rounded to nearest.
func (c *Channel) CurrentAngle() int { return c.unitsToDegree(c.current) }

// CurrentUnits returns the last written position in pulse units, before
// trim and reverse.
func (c *Channel) CurrentUnits() int { return c.current }

// TargetUnits returns the move target in pulse units.
func (c *Channel) TargetUnits() int { return c.target }

// DeltaUnits returns the move delta (target minus start) in pulse units.
func (c *Channel) DeltaUnits() int { return c.delta }

// Duration returns the planned duration of the current or last move.
func (c *Channel) Duration() time.Duration {
	return time.Duration(c.durationMillis) * time.Millisecond
}

// Write moves the channel immediately to a degree value (or a microsecond
// value, at or above MicrosecondsThreshold), with no interpolation. The
// staged position for group moves is updated as well. Returns false if the
// channel is detached.
func (c *Channel) Write(degreeOrMicros int) bool {
	if !c.Attached() {
		return false
	}
	c.reg.next[c.index] = degreeOrMicros
	return c.writeUnits(c.degreeToUnits(degreeOrMicros))
}

// writeUnits pushes a pulse to the output and records it as the current
// position. Trim and reverse are applied here and nowhere else.
func (c *Channel) writeUnits(units int) bool {
	if !c.Attached() {
		return false
	}
	c.current = units
	c.output.SetPulse(c.pin, c.applyTrimAndReverse(units))
	return true
}

// MoveTo moves to a target smoothly at the channel's configured speed,
// blocking until the move completes. The caller's goroutine performs the
// ticks; no scheduler is involved.
func (c *Channel) MoveTo(target int) error {
	return c.MoveToWithSpeed(target, c.speed)
}

// MoveToWithSpeed moves to a target at the given speed, blocking until the
// move completes.
func (c *Channel) MoveToWithSpeed(target int, degreesPerSecond uint16) error {
	if _, err := c.startMoveSpeed(target, degreesPerSecond, false); err != nil {
		return err
	}
	c.waitForStop()
	return nil
}

// MoveToIn moves to a target over an explicit duration, blocking until the
// move completes.
func (c *Channel) MoveToIn(target int, d time.Duration) error {
	if _, err := c.startMove(target, durationMillis(d), false); err != nil {
		return err
	}
	c.waitForStop()
	return nil
}

// StartMoveTo begins a non-blocking move at the configured speed and
// enables the registry's periodic trigger. preempted reports whether a move
// was already in progress.
func (c *Channel) StartMoveTo(target int) (preempted bool, err error) {
	return c.startMoveSpeed(target, c.speed, true)
}

// StartMoveToWithSpeed begins a non-blocking move at the given speed and
// enables the registry's periodic trigger.
func (c *Channel) StartMoveToWithSpeed(target int, degreesPerSecond uint16) (preempted bool, err error) {
	return c.startMoveSpeed(target, degreesPerSecond, true)
}

// StartMoveToIn begins a non-blocking move over an explicit duration and
// enables the registry's periodic trigger.
func (c *Channel) StartMoveToIn(target int, d time.Duration) (preempted bool, err error) {
	return c.startMove(target, durationMillis(d), true)
}

// SetMoveTo stages a move at the configured speed without starting the
// periodic trigger, for later synchronization. The move still advances
// whenever Update or UpdateAll is called.
func (c *Channel) SetMoveTo(target int) (preempted bool, err error) {
	return c.startMoveSpeed(target, c.speed, false)
}

// SetMoveToWithSpeed stages a move at the given speed without starting the
// periodic trigger.
func (c *Channel) SetMoveToWithSpeed(target int, degreesPerSecond uint16) (preempted bool, err error) {
	return c.startMoveSpeed(target, degreesPerSecond, false)
}

// SetMoveToIn stages a move over an explicit duration without starting the
// periodic trigger.
func (c *Channel) SetMoveToIn(target int, d time.Duration) (preempted bool, err error) {
	return c.startMove(target, durationMillis(d), false)
}

// NoMovement holds the current position for the given duration, then fires
// the arrival handler. Useful as a delay step between chained moves.
func (c *Channel) NoMovement(d time.Duration) (preempted bool, err error) {
	if !c.Attached() {
		return false, ErrDetached
	}
	return c.startMove(c.unitsToMicroseconds(c.current), durationMillis(d), true)
}

// startMoveSpeed derives the move duration from speed and distance, then
// starts the move. A speed of 0 is treated as 1 to avoid dividing by zero.
// A bouncing call style covers the distance twice, so a speed-derived
// duration is doubled (an explicit duration is not).
func (c *Channel) startMoveSpeed(target int, degreesPerSecond uint16, startTrigger bool) (bool, error) {
	if !c.Attached() {
		return false, ErrDetached
	}
	if degreesPerSecond == 0 {
		degreesPerSecond = 1
	}

	targetDegree := target
	if target >= MicrosecondsThreshold {
		targetDegree = c.microsecondsToDegree(target)
	}
	currentDegree := c.unitsToDegree(c.current)

	distance := targetDegree - currentDegree
	if distance < 0 {
		distance = -distance
	}
	ms := uint32(distance) * 1000 / uint32(degreesPerSecond)
	if c.sel.Style == easing.OutIn {
		ms *= 2
	}
	return c.startMove(target, ms, startTrigger)
}

// startMove sets up all values required for a smooth move. All move fields
// are consistent before the moving flag is set and before the periodic
// trigger is enabled, so an asynchronous tick never observes a half-started
// move. Returns whether a move was already in progress.
func (c *Channel) startMove(target int, ms uint32, startTrigger bool) (bool, error) {
	if !c.Attached() {
		return false, ErrDetached
	}

	c.reg.next[c.index] = target
	c.target = c.degreeToUnits(target)
	c.start = c.current
	c.delta = c.target - c.start
	if ms == 0 {
		ms = 1
	}
	c.durationMillis = ms
	if c.sel.Style == easing.OutIn {
		// A bounce ends where it started; delta keeps the outbound
		// amplitude.
		c.target = c.start
	}
	c.startMillis = millis()

	preempted := c.moving
	c.moving = true
	if startTrigger {
		c.reg.startTrigger()
	}
	return preempted, nil
}

// Update advances the move by one tick: it recomputes the position from the
// absolute elapsed time and writes it to the output if it changed. O(1),
// allocation-free, no blocking; safe to call from a timer interrupt.
// Returns true if the channel is stopped (idle, or completed this tick).
func (c *Channel) Update() bool {
	if !c.moving {
		return true
	}

	elapsed := millis() - c.startMillis
	if elapsed >= c.durationMillis {
		// End of time reached: write the exact end position once and
		// notify. The handler may start a new move, so the returned
		// status re-reads the flag.
		c.writeUnits(c.target)
		c.moving = false
		c.onReached.OnTargetReached(c)
		return !c.moving
	}

	var units int
	if c.sel.Curve == easing.Linear && c.sel.Style == easing.In {
		// Integer-only fast path. The truncating division is
		// intentional: the position is recomputed from absolute
		// elapsed time every tick, so truncation error never
		// accumulates.
		units = c.start + c.delta*int(elapsed)/int(c.durationMillis)
	} else {
		f := c.sel.Factor(float32(elapsed) / float32(c.durationMillis))
		if easing.IsDegreeResult(f) {
			// The curve returned an absolute angle, not a fraction.
			units = c.degreeToUnits(int(f - easing.DegreeOffset + 0.5))
		} else {
			units = c.start + int(f*float32(c.delta))
		}
	}

	// Write only if changed, to cut bus and peripheral traffic.
	if units != c.current {
		c.writeUnits(units)
	}
	return false
}

// Stop halts the move at the current position without writing a final
// pulse. Idempotent. If no other channel in the registry is still moving,
// the periodic trigger is disabled.
func (c *Channel) Stop() {
	c.moving = false
	if c.reg != nil && !c.reg.IsAnyMoving() {
		c.reg.stopTrigger()
	}
}

// ContinueWithTrigger resumes a stopped move and re-enables the periodic
// trigger. The move continues on its original timeline.
func (c *Channel) ContinueWithTrigger() {
	if !c.Attached() {
		return
	}
	c.moving = true
	c.reg.startTrigger()
}

// ContinueWithoutTrigger resumes a stopped move for explicit polling.
func (c *Channel) ContinueWithoutTrigger() {
	if !c.Attached() {
		return
	}
	c.moving = true
}

// waitForStop polls the channel once per refresh period until the move
// completes. The delay comes first: this is usually called right after a
// move start, when there is nothing to move yet.
func (c *Channel) waitForStop() {
	for {
		time.Sleep(RefreshInterval)
		if c.Update() {
			return
		}
	}
}

// String describes the channel's dynamic state for diagnostics.
func (c *Channel) String() string {
	return fmt.Sprintf("%d/%d: %d -> %d in %d ms speed=%d easing=%s trim=%d reverse=%t moving=%t",
		c.index, c.pin, c.unitsToDegree(c.current), c.unitsToDegree(c.target),
		c.durationMillis, c.speed, c.sel, c.trim, c.reverse, c.moving)
}

// durationMillis converts a duration to whole milliseconds for the tick
// arithmetic, clamping below at zero.
func durationMillis(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(d / time.Millisecond)
}
