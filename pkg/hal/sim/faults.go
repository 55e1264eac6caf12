package sim

// Fault makes one entry point misbehave.
type Fault int

const (
	// FaultNone restores normal behaviour.
	FaultNone Fault = iota

	// FaultIgnoreArgs skips all argument checks and returns OK, the way a
	// HAL that forgets its NULL checks would.
	FaultIgnoreArgs

	// FaultCorrupt returns OK with malformed output data.
	FaultCorrupt

	// FaultFail returns the ERROR status for every call.
	FaultFail

	// FaultHang blocks until the caller's context is done.
	FaultHang

	// FaultPanic panics inside the entry point.
	FaultPanic
)

// String returns the fault name.
func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultIgnoreArgs:
		return "ignore-args"
	case FaultCorrupt:
		return "corrupt"
	case FaultFail:
		return "fail"
	case FaultHang:
		return "hang"
	case FaultPanic:
		return "panic"
	default:
		return "unknown"
	}
}
