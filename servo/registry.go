package servo

import (
	"strings"
	"time"

	"servoease/easing"
)

// Config describes one channel at attach time. Calibration gives the pulse
// widths in microseconds at two reference angles; the zero value selects
// the common 544/2400 microsecond range over 0..180 degrees.
type Config struct {
	// Output receives the channel's pulses. Required.
	Output PulseOutput
	// Pin is the output-local channel number (a GPIO pin, an expander
	// channel), passed through to Output verbatim.
	Pin uint8

	// MicrosecondsLow and MicrosecondsHigh are the pulse widths at
	// DegreeLow and DegreeHigh. Both zero selects 544/2400.
	MicrosecondsLow  int
	MicrosecondsHigh int
	// DegreeLow and DegreeHigh are the angles the calibration refers
	// to. Both zero selects 0/180.
	DegreeLow  int
	DegreeHigh int
}

// Registry owns a fixed arena of channels and coordinates group moves and
// the shared periodic trigger. Slots are reused after Detach; iteration
// stops at the highest slot ever occupied.
type Registry struct {
	channels []Channel
	next     []int // staged target per slot, written by Write and move starts
	maxIndex int   // highest occupied slot, -1 when empty

	scheduler Scheduler
	running   bool
}

// NewRegistry creates a registry with a fixed number of slots. A
// non-positive capacity selects DefaultCapacity; anything above 254 is
// clamped. The periodic trigger defaults to a TickerScheduler; replace it
// with SetScheduler before the first move if needed.
func NewRegistry(capacity int) *Registry {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if capacity > int(InvalidChannel) {
		capacity = int(InvalidChannel)
	}
	r := &Registry{
		channels: make([]Channel, capacity),
		next:     make([]int, capacity),
		maxIndex: -1,
	}
	for i := range r.channels {
		r.channels[i].index = InvalidChannel
	}
	return r
}

// Capacity returns the number of slots.
func (r *Registry) Capacity() int { return len(r.channels) }

// SetScheduler replaces the periodic trigger implementation. Must be
// called while the trigger is not running.
func (r *Registry) SetScheduler(s Scheduler) { r.scheduler = s }

// TriggerRunning reports whether the periodic trigger is active.
func (r *Registry) TriggerRunning() bool { return r.running }

// Attach claims the lowest free slot and initializes a channel from cfg.
// The channel starts at the neutral pulse width; no pulse is written until
// the first Write or move.
func (r *Registry) Attach(cfg Config) (*Channel, error) {
	if cfg.Output == nil {
		return nil, ErrNoOutput
	}
	usLow, usHigh := cfg.MicrosecondsLow, cfg.MicrosecondsHigh
	if usLow == 0 && usHigh == 0 {
		usLow, usHigh = DefaultMicrosecondsFor0Degree, DefaultMicrosecondsFor180Degree
	}
	degLow, degHigh := cfg.DegreeLow, cfg.DegreeHigh
	if degLow == 0 && degHigh == 0 {
		degHigh = 180
	}
	if degLow == degHigh || usLow == usHigh {
		return nil, ErrBadCalibration
	}

	slot := -1
	for i := range r.channels {
		if r.channels[i].index == InvalidChannel {
			slot = i
			break
		}
	}
	if slot < 0 {
		return nil, ErrRegistryFull
	}

	c := &r.channels[slot]
	*c = Channel{
		output:         cfg.Output,
		pin:            cfg.Pin,
		unitsPerPeriod: cfg.Output.UnitsPerPeriod(),
		speed:          DefaultSpeed,
		sel:            easing.Selector{},
		onReached:      noArrival,
		index:          uint8(slot),
		reg:            r,
	}
	// Normalize the calibration to the 0 and 180 degree endpoints, so
	// conversions need no per-call reference angles.
	us0 := mapRange(0, degLow, degHigh, usLow, usHigh)
	us180 := mapRange(180, degLow, degHigh, usLow, usHigh)
	c.calLow = c.microsecondsToUnits(us0)
	c.calHigh = c.microsecondsToUnits(us180)
	c.current = c.microsecondsToUnits(DefaultPulseMicroseconds)
	c.target = c.current
	c.start = c.current
	r.next[slot] = c.unitsToDegree(c.current)

	if slot > r.maxIndex {
		r.maxIndex = slot
	}
	return c, nil
}

// AttachAt attaches a channel and immediately writes an initial position
// (degrees, or microseconds at or above MicrosecondsThreshold).
func (r *Registry) AttachAt(cfg Config, initial int) (*Channel, error) {
	c, err := r.Attach(cfg)
	if err != nil {
		return nil, err
	}
	c.Write(initial)
	return c, nil
}

// Detach releases a channel's slot and writes the signal-off pulse so the
// actuator goes limp. The handle becomes inert: every operation on it
// fails or no-ops. Returns false if already detached.
func (r *Registry) Detach(c *Channel) bool {
	if c == nil || c.index == InvalidChannel {
		return false
	}
	c.output.SetPulse(c.pin, SignalOffUnits)
	c.moving = false
	c.index = InvalidChannel
	for r.maxIndex >= 0 && r.channels[r.maxIndex].index == InvalidChannel {
		r.maxIndex--
	}
	if !r.IsAnyMoving() {
		r.stopTrigger()
	}
	return true
}

// ChannelAt returns the channel occupying a slot, or nil.
func (r *Registry) ChannelAt(slot uint8) *Channel {
	if int(slot) >= len(r.channels) || r.channels[slot].index == InvalidChannel {
		return nil
	}
	return &r.channels[slot]
}

// WriteAll moves every attached channel immediately to the same value.
func (r *Registry) WriteAll(degreeOrMicros int) {
	for i := 0; i <= r.maxIndex; i++ {
		r.channels[i].Write(degreeOrMicros)
	}
}

// SetSpeedAll sets the move speed of every attached channel.
func (r *Registry) SetSpeedAll(degreesPerSecond uint16) {
	for i := 0; i <= r.maxIndex; i++ {
		if r.channels[i].index != InvalidChannel {
			r.channels[i].SetSpeed(degreesPerSecond)
		}
	}
}

// SetEasingAll sets the curve selector of every attached channel.
func (r *Registry) SetEasingAll(sel easing.Selector) {
	for i := 0; i <= r.maxIndex; i++ {
		if r.channels[i].index != InvalidChannel {
			r.channels[i].SetEasing(sel)
		}
	}
}

// SetNextPosition stages a target for one slot without starting a move.
func (r *Registry) SetNextPosition(slot uint8, degreeOrMicros int) bool {
	if int(slot) >= len(r.next) {
		return false
	}
	r.next[slot] = degreeOrMicros
	return true
}

// SetNextPositions stages targets for slots 0..len(values)-1.
func (r *Registry) SetNextPositions(values ...int) {
	for i, v := range values {
		if i >= len(r.next) {
			return
		}
		r.next[i] = v
	}
}

// StagedPosition returns the staged target for a slot.
func (r *Registry) StagedPosition(slot uint8) int {
	if int(slot) >= len(r.next) {
		return 0
	}
	return r.next[slot]
}

// MoveAllToStaged starts a move on every attached channel toward its
// staged position, each at its own configured speed. Returns whether any
// channel's in-progress move was preempted. Call SynchronizeAndStartAll
// afterwards to make the group finish together.
func (r *Registry) MoveAllToStaged() bool {
	preempted := false
	for i := 0; i <= r.maxIndex; i++ {
		c := &r.channels[i]
		if c.index == InvalidChannel {
			continue
		}
		p, _ := c.SetMoveToWithSpeed(r.next[i], c.speed)
		preempted = preempted || p
	}
	return preempted
}

// MoveAllToStagedWithSpeed is MoveAllToStaged with one shared speed.
func (r *Registry) MoveAllToStagedWithSpeed(degreesPerSecond uint16) bool {
	preempted := false
	for i := 0; i <= r.maxIndex; i++ {
		c := &r.channels[i]
		if c.index == InvalidChannel {
			continue
		}
		p, _ := c.SetMoveToWithSpeed(r.next[i], degreesPerSecond)
		preempted = preempted || p
	}
	return preempted
}

// MoveAllToStagedIn starts a move on every attached channel toward its
// staged position over one shared duration.
func (r *Registry) MoveAllToStagedIn(d time.Duration) bool {
	preempted := false
	for i := 0; i <= r.maxIndex; i++ {
		c := &r.channels[i]
		if c.index == InvalidChannel {
			continue
		}
		p, _ := c.SetMoveToIn(r.next[i], d)
		preempted = preempted || p
	}
	return preempted
}

// SynchronizeAll aligns all in-progress moves so they finish together: the
// longest remaining duration wins, and every moving channel is rewritten
// with that duration and one shared start time. Channels keep their own
// start and target positions. Idle channels are untouched.
func (r *Registry) SynchronizeAll() {
	now := millis()
	var longest uint32
	for i := 0; i <= r.maxIndex; i++ {
		c := &r.channels[i]
		if c.index == InvalidChannel || !c.moving {
			continue
		}
		if c.durationMillis > longest {
			longest = c.durationMillis
		}
	}
	if longest == 0 {
		return
	}
	for i := 0; i <= r.maxIndex; i++ {
		c := &r.channels[i]
		if c.index == InvalidChannel || !c.moving {
			continue
		}
		c.startMillis = now
		c.durationMillis = longest
	}
}

// SynchronizeAndStartAll synchronizes all in-progress moves and enables
// the periodic trigger.
func (r *Registry) SynchronizeAndStartAll() {
	r.SynchronizeAll()
	r.startTrigger()
}

// SynchronizeMoveAllAndWait moves every attached channel to its staged
// position, stretched so the whole group arrives at the same instant, and
// blocks until done. The caller's goroutine performs the ticks.
func (r *Registry) SynchronizeMoveAllAndWait() {
	r.MoveAllToStaged()
	r.SynchronizeAll()
	r.WaitForAllToStop(0)
}

// UpdateAll advances every attached channel by one tick. Returns true when
// no channel is moving anymore.
func (r *Registry) UpdateAll() bool {
	stopped := true
	for i := 0; i <= r.maxIndex; i++ {
		if r.channels[i].index == InvalidChannel {
			continue
		}
		if !r.channels[i].Update() {
			stopped = false
		}
	}
	return stopped
}

// IsAnyMoving reports whether any attached channel has a move in progress.
func (r *Registry) IsAnyMoving() bool {
	for i := 0; i <= r.maxIndex; i++ {
		if r.channels[i].index != InvalidChannel && r.channels[i].moving {
			return true
		}
	}
	return false
}

// StopAll halts every move at its current position and disables the
// periodic trigger. Idempotent.
func (r *Registry) StopAll() {
	r.stopTrigger()
	for i := 0; i <= r.maxIndex; i++ {
		r.channels[i].moving = false
	}
}

// WaitForAllToStop polls all channels once per refresh period until every
// move has completed. A timeout of 0 waits forever. Returns false if the
// timeout expired with moves still in progress.
func (r *Registry) WaitForAllToStop(timeout time.Duration) bool {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		time.Sleep(RefreshInterval)
		if r.UpdateAll() {
			return true
		}
		if timeout > 0 && time.Now().After(deadline) {
			return false
		}
	}
}

// DelayAndUpdate ticks all channels once per refresh period for the given
// duration. If stopEarly is true it returns as soon as every move has
// completed; otherwise it always waits out the full duration. Returns true
// if all channels are stopped on return.
func (r *Registry) DelayAndUpdate(d time.Duration, stopEarly bool) bool {
	deadline := time.Now().Add(d)
	for {
		time.Sleep(RefreshInterval)
		stopped := r.UpdateAll()
		if stopped && stopEarly {
			return true
		}
		if !time.Now().Before(deadline) {
			return stopped
		}
	}
}

// String lists every attached channel's state, one per line.
func (r *Registry) String() string {
	var b strings.Builder
	for i := 0; i <= r.maxIndex; i++ {
		if r.channels[i].index == InvalidChannel {
			continue
		}
		b.WriteString(r.channels[i].String())
		b.WriteByte('\n')
	}
	return b.String()
}

// startTrigger enables the shared periodic trigger if it is not already
// running.
func (r *Registry) startTrigger() {
	if r.running {
		return
	}
	if r.scheduler == nil {
		r.scheduler = NewTickerScheduler()
	}
	r.running = true
	r.scheduler.Start(RefreshInterval, r.tick)
}

// stopTrigger disables the shared periodic trigger.
func (r *Registry) stopTrigger() {
	if !r.running {
		return
	}
	r.running = false
	r.scheduler.Stop()
}

// tick runs once per refresh period while the trigger is enabled, and
// shuts the trigger down when the last move completes.
func (r *Registry) tick() {
	if r.UpdateAll() {
		r.stopTrigger()
	}
}
