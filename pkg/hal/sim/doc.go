// Package sim provides an in-memory reference implementation of the HAL
// contract.
//
// The simulated platform honours every documented argument check, so a
// correctly written L1 suite passes against it. Faults can be injected per
// entry point to make it misbehave the way a broken vendor HAL would:
// ignoring invalid arguments, returning malformed data, failing, hanging or
// panicking. The harness uses those faults to prove that it detects each
// class of contract violation.
//
// Importing the package registers the "sim" driver with hal.Register.
package sim
