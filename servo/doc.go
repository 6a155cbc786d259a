// Package servo implements a multi-channel servo motion engine: each channel
// moves smoothly from its current position to a commanded position over a
// controlled duration, using linear or non-linear easing curves, and several
// channels can be synchronized to finish at the same instant.
//
// The public interface is in degrees, but internally only pulse units are
// stored (microseconds, or fractional-cycle units for expander outputs),
// since the resolution is better and it avoids a mapping on every write.
//
// Concurrency model: one logical thread of control per tick. Update and
// UpdateAll may run either in the caller's context (blocking helpers) or as
// a periodic callback installed through a Scheduler. The engine carries no
// locks; the scheduler must guarantee the callback is never re-entered, and
// a move start publishes all of its fields before the moving flag becomes
// observable, so the tick only trusts them once the flag reads true.
package servo
