// Package worker runs computations in an isolated goroutine reachable only
// through serialized request/response envelopes.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Handler processes one request inside the worker context.
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Echo returns the worker's computation: it takes ownership of the request
// value, logs it and hands it back unchanged.
func Echo(logger *slog.Logger) HandlerFunc {
	return func(ctx context.Context, req Request) (Response, error) {
		num, err := req.Take()
		if err != nil {
			return Response{}, err
		}

		logger.Info(fmt.Sprintf("Worker got: %d", num))

		return Response{Result: num}, nil
	}
}

// Endpoint is the worker side of a Pipe.
type Endpoint struct {
	pipe    *Pipe
	handler Handler
	logger  *slog.Logger
	running atomic.Bool
}

// NewEndpoint creates an endpoint serving handler on pipe.
func NewEndpoint(pipe *Pipe, handler Handler, logger *slog.Logger) *Endpoint {
	return &Endpoint{
		pipe:    pipe,
		handler: handler,
		logger:  logger,
	}
}

// Run serves requests one at a time until the pipe is closed or ctx is done.
// It closes the outbox on return, which fails every call still waiting on
// the client side. Run may only be called once.
func (e *Endpoint) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(e.pipe.responses)

	e.logger.Debug("worker endpoint started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.pipe.closing:
			e.logger.Debug("worker endpoint stopped")
			return nil
		case msg := <-e.pipe.requests:
			if err := e.serve(ctx, msg); err != nil {
				if errors.Is(err, ErrClosed) {
					e.logger.Debug("worker endpoint stopped")
					return nil
				}
				return err
			}
		}
	}
}

// serve handles one encoded request. It only returns an error when the
// reply could not be delivered because the endpoint is shutting down.
func (e *Endpoint) serve(ctx context.Context, msg []byte) error {
	env, err := decodeEnvelope(msg)
	if err != nil {
		e.logger.Warn("dropping malformed request", "error", err)
		if env.ID == "" {
			return nil
		}
		return e.reply(ctx, Envelope{ID: env.ID, Kind: KindResponse, Error: err.Error()})
	}

	if env.Kind != KindRequest {
		err := fmt.Errorf("%w: %q", ErrUnexpectedKind, env.Kind)
		e.logger.Warn("rejecting envelope", "id", env.ID, "error", err)
		return e.reply(ctx, Envelope{ID: env.ID, Kind: KindResponse, Error: err.Error()})
	}

	// The worker owns the decoded value from here on.
	req := NewRequest(NewParcel(env.Value))
	resp, err := e.handler.Handle(ctx, req)
	if err != nil {
		e.logger.Error("handler failed", "id", env.ID, "error", err)
		return e.reply(ctx, Envelope{ID: env.ID, Kind: KindResponse, Error: err.Error()})
	}

	return e.reply(ctx, Envelope{ID: env.ID, Kind: KindResponse, Value: resp.Result})
}

func (e *Endpoint) reply(ctx context.Context, env Envelope) error {
	b, err := encodeEnvelope(env)
	if err != nil {
		e.logger.Error("failed to encode reply", "id", env.ID, "error", err)
		return nil
	}

	select {
	case e.pipe.responses <- b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.pipe.closing:
		return ErrClosed
	}
}
