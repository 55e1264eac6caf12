// Package hal defines the platform hardware abstraction layer contract that
// the L1 conformance suite exercises.
//
// The contract is vendor neutral. A vendor supplies an implementation of
// Platform and registers it under a driver name; the harness opens it by
// name and calls each entry point with valid and invalid arguments.
//
// # Status convention
//
// Every entry point returns an error. A nil error is the OK status; any
// non-nil error is the ERROR status. The error kind (ErrInvalidArgument,
// ErrOutOfRange, ErrUnsupported, ErrFailure) is informational: the contract
// only requires ERROR for invalid input, so the harness compares statuses
// with StatusOf rather than individual kinds.
//
// # Output arguments
//
// Values are returned through *Out[T] slots. A nil slot models an absent
// output argument; implementations must reject it with ErrInvalidArgument
// instead of panicking:
//
//	name := hal.NewOut[string]()
//	if err := p.GetModelName(ctx, name); err != nil {
//	    ...
//	}
//	fmt.Println(name.Value())
//
//	// negative case
//	err := p.GetModelName(ctx, hal.Absent[string]())
//	// hal.StatusOf(err) == hal.StatusError
package hal
