package hal

import "errors"

// Kind is a stable, comparable error identifier returned by HAL entry points.
// It implements error so it can be returned and compared directly.
type Kind string

func (k Kind) Error() string { return string(k) }

// Canonical error kinds.
const (
	KindInvalidArgument Kind = "invalid_argument"
	KindOutOfRange      Kind = "out_of_range"
	KindUnsupported     Kind = "unsupported"
	KindFailure         Kind = "failure"
)

// Sentinel errors for the canonical kinds.
var (
	// ErrInvalidArgument is returned for absent outputs and malformed inputs.
	ErrInvalidArgument error = KindInvalidArgument

	// ErrOutOfRange is returned when a numeric or enumerated argument is
	// outside the documented range.
	ErrOutOfRange error = KindOutOfRange

	// ErrUnsupported is returned when the platform lacks the capability.
	ErrUnsupported error = KindUnsupported

	// ErrFailure is the generic ERROR status.
	ErrFailure error = KindFailure
)

// Error wraps a Kind with the entry point name and an optional detail.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Op + ": " + string(e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

// Unwrap returns the wrapped cause, or the kind when there is none, so
// errors.Is(err, ErrOutOfRange) works on wrapped errors.
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is reports whether target is the same kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Errorf builds an *Error for entry point op.
func Errorf(op string, kind Kind, msg string) error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// KindOf extracts the Kind of err. Unknown errors map to KindFailure.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return KindFailure
}

// Status is the integer return code vendor HALs report (RETURN_OK/RETURN_ERR).
type Status int

const (
	// StatusOK is RETURN_OK.
	StatusOK Status = 0
	// StatusError is RETURN_ERR.
	StatusError Status = -1
)

// String returns the C macro name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "RETURN_OK"
	case StatusError:
		return "RETURN_ERR"
	default:
		return "UNKNOWN"
	}
}

// StatusOf maps an entry point's error to its status.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	return StatusError
}
