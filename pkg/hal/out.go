package hal

// Out is an output argument slot. A nil *Out is an absent argument.
type Out[T any] struct {
	value   T
	written bool
}

// NewOut returns a present, empty output slot.
func NewOut[T any]() *Out[T] {
	return &Out[T]{}
}

// Absent returns the absent slot. It exists so negative test cases read as
// what they are.
func Absent[T any]() *Out[T] {
	return nil
}

// Present reports whether the slot was supplied by the caller.
func (o *Out[T]) Present() bool {
	return o != nil
}

// Put stores v. It returns ErrInvalidArgument for an absent slot.
func (o *Out[T]) Put(v T) error {
	if o == nil {
		return ErrInvalidArgument
	}
	o.value = v
	o.written = true
	return nil
}

// Value returns the stored value, or the zero value if nothing was written.
func (o *Out[T]) Value() T {
	var zero T
	if o == nil {
		return zero
	}
	return o.value
}

// Written reports whether the implementation stored a value.
func (o *Out[T]) Written() bool {
	return o != nil && o.written
}
