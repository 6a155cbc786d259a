package servo

import (
	"sync"
	"time"
)

// Scheduler drives the registry's periodic tick. The engine guarantees it
// only calls Start when stopped and Stop when started; the implementation
// guarantees tick invocations never overlap. Stop may be called from
// inside the tick itself.
type Scheduler interface {
	// Start begins invoking tick once per period until Stop.
	Start(period time.Duration, tick func())
	// Stop ceases tick invocations. At most one tick may still be in
	// flight when Stop returns.
	Stop()
}

// TickerScheduler runs the tick from a dedicated goroutine with a
// time.Ticker. Ticks never overlap because a single goroutine invokes
// them. This is the default scheduler on hosted platforms; bare-metal
// targets substitute a hardware timer.
type TickerScheduler struct {
	mu   sync.Mutex
	stop chan struct{}
}

// NewTickerScheduler returns a stopped TickerScheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Start launches the tick goroutine. No-op if already running.
func (s *TickerScheduler) Start(period time.Duration, tick func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				tick()
			}
		}
	}()
}

// Stop terminates the tick goroutine. Idempotent, and safe to call from
// within the tick.
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// PolledScheduler runs the tick from the caller's own loop instead of a
// goroutine: the application calls Poll from its main loop or a timer
// interrupt, and the tick fires whenever at least one period has elapsed
// since the previous one. For bare-metal mains where nothing else may own
// the CPU.
type PolledScheduler struct {
	periodMillis uint32
	tick         func()
	running      bool
	lastMillis   uint32
}

// NewPolledScheduler returns a stopped PolledScheduler.
func NewPolledScheduler() *PolledScheduler {
	return &PolledScheduler{}
}

// Start arms the scheduler. The first tick fires one period after Start.
func (s *PolledScheduler) Start(period time.Duration, tick func()) {
	s.periodMillis = durationMillis(period)
	if s.periodMillis == 0 {
		s.periodMillis = 1
	}
	s.tick = tick
	s.lastMillis = millis()
	s.running = true
}

// Stop disarms the scheduler.
func (s *PolledScheduler) Stop() {
	s.running = false
}

// Poll fires the tick if a period has elapsed. Cheap enough to call every
// loop iteration. Late polls do not cause catch-up bursts: the next tick is
// measured from the one that actually ran.
func (s *PolledScheduler) Poll() {
	if !s.running {
		return
	}
	now := millis()
	if now-s.lastMillis < s.periodMillis {
		return
	}
	s.lastMillis = now
	s.tick()
}
