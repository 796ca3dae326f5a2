package worker

import "sync/atomic"

// Parcel is an owned handle to a value moving from one execution context
// to another. Whoever calls Take first becomes the sole owner of the value;
// every later Take fails with ErrParcelConsumed.
//
// Parcels are only valid when built with NewParcel. A zero Parcel or a nil
// pointer is rejected with ErrInvalidParcel.
type Parcel[T any] struct {
	value  atomic.Pointer[T]
	sealed bool
}

// NewParcel wraps v in a parcel that can be taken exactly once.
func NewParcel[T any](v T) *Parcel[T] {
	p := &Parcel[T]{sealed: true}
	p.value.Store(&v)
	return p
}

// Take moves the value out of the parcel.
func (p *Parcel[T]) Take() (T, error) {
	var zero T
	if p == nil || !p.sealed {
		return zero, ErrInvalidParcel
	}

	v := p.value.Swap(nil)
	if v == nil {
		return zero, ErrParcelConsumed
	}
	return *v, nil
}

// Spent reports whether the value has already been taken.
func (p *Parcel[T]) Spent() bool {
	if p == nil || !p.sealed {
		return true
	}
	return p.value.Load() == nil
}
