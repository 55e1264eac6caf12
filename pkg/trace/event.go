package trace

import (
	"time"

	"github.com/google/uuid"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// Event is one entry in the trace.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies the suite run (UUID).
	RunID string `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// TestID is the test that produced the event, empty for run events.
	TestID string `cbor:"4,keyasint,omitempty"`

	// EntryPoint is the HAL function called. Set for CategoryCall.
	EntryPoint string `cbor:"5,keyasint,omitempty"`

	// Status is the HAL status for calls.
	Status hal.Status `cbor:"6,keyasint"`

	// ErrorKind is the HAL error kind when Status is StatusError.
	ErrorKind hal.Kind `cbor:"7,keyasint,omitempty"`

	// Duration of the call or test.
	Duration time.Duration `cbor:"8,keyasint,omitempty"`

	// Detail is free text: the error message for calls, the outcome for
	// tests and the suite name for runs.
	Detail string `cbor:"9,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCall is a single HAL invocation.
	CategoryCall Category = 0
	// CategoryTest is the outcome of a test case.
	CategoryTest Category = 1
	// CategoryRun marks the start or end of a suite run.
	CategoryRun Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCall:
		return "CALL"
	case CategoryTest:
		return "TEST"
	case CategoryRun:
		return "RUN"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "CALL", "call":
		return CategoryCall, true
	case "TEST", "test":
		return CategoryTest, true
	case "RUN", "run":
		return CategoryRun, true
	}
	return 0, false
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CallEvent builds the event for a finished HAL call.
func CallEvent(runID, testID, entryPoint string, err error, d time.Duration) Event {
	e := Event{
		Timestamp:  time.Now(),
		RunID:      runID,
		Category:   CategoryCall,
		TestID:     testID,
		EntryPoint: entryPoint,
		Status:     hal.StatusOf(err),
		Duration:   d,
	}
	if err != nil {
		e.ErrorKind = hal.KindOf(err)
		e.Detail = err.Error()
	}
	return e
}
