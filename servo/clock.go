package servo

import "time"

var bootTime = time.Now()

// millisSource returns elapsed milliseconds since boot. Wraps after ~49 days;
// all elapsed-time arithmetic uses unsigned subtraction, so a single wrap
// between two samples is harmless.
var millisSource = func() uint32 {
	return uint32(time.Since(bootTime) / time.Millisecond)
}

// SetMillisSource replaces the millisecond clock, for hardware integration
// with a timer peripheral or for deterministic tests.
func SetMillisSource(f func() uint32) {
	if f != nil {
		millisSource = f
	}
}

func millis() uint32 {
	return millisSource()
}
