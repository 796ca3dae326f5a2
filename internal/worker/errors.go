package worker

import "errors"

// Errors returned across the worker boundary
var (
	ErrClosed         = errors.New("worker boundary closed")
	ErrCodec          = errors.New("envelope codec error")
	ErrParcelConsumed = errors.New("parcel already taken")
	ErrInvalidParcel  = errors.New("invalid parcel")
	ErrUnexpectedKind = errors.New("unexpected envelope kind")
	ErrRunning        = errors.New("endpoint already running")
	ErrRemote         = errors.New("worker failed")
)
