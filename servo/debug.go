package servo

// DebugWriter is a function type for writing diagnostic messages. Pulse
// output drivers use it to surface bus errors out-of-band, since SetPulse
// is fire-and-forget.
type DebugWriter func(string)

// debugPrintln is the global debug print function. No-op by default.
var debugPrintln DebugWriter = func(string) {}

// SetDebugWriter sets the platform-specific debug output function, allowing
// targets to redirect diagnostics to UART, USB or a log.
func SetDebugWriter(w DebugWriter) {
	if w != nil {
		debugPrintln = w
	}
}

// Debugln writes a diagnostic message through the registered writer.
// Exported for use by pulse output drivers in other packages.
func Debugln(s string) {
	debugPrintln(s)
}
