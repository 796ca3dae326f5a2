package worker

import (
	"encoding/json"
	"fmt"
)

// Request asks the worker to process one value. The only way to build a
// Request is NewRequest, so every request carries a parcel produced by the
// sender.
type Request struct {
	parcel *Parcel[int32]
}

// NewRequest moves p into a request. The caller must not Take p afterwards.
func NewRequest(p *Parcel[int32]) Request {
	return Request{parcel: p}
}

// Take moves the request value out. It succeeds once per request.
func (r Request) Take() (int32, error) {
	return r.parcel.Take()
}

// Response is the worker's reply.
type Response struct {
	Result int32
}

// Kind tells a request envelope from a response envelope.
type Kind string

const (
	KindRequest  Kind = "request"
	KindResponse Kind = "response"
)

// Envelope is the wire format between the caller and the worker. The value
// travels serialized, the two sides share nothing but these bytes.
type Envelope struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Value int32  `json:"value"`
	Error string `json:"error,omitempty"`
}

func encodeEnvelope(env Envelope) ([]byte, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return b, nil
}

// decodeEnvelope returns whatever it could parse alongside the error so the
// endpoint can still answer a malformed request when its id is readable.
func decodeEnvelope(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		var probe struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(b, &probe)
		return Envelope{ID: probe.ID}, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	if env.ID == "" {
		return env, fmt.Errorf("%w: missing id", ErrCodec)
	}
	return env, nil
}
