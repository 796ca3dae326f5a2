package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type reply struct {
	env Envelope
	err error
}

// Client is the caller side of a Pipe. Calls may overlap; each one waits
// only for the reply carrying its own id.
type Client struct {
	pipe   *Pipe
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]chan reply
	closed  bool
	done    chan struct{}
}

// NewClient creates a client on pipe and starts its reply dispatcher.
func NewClient(pipe *Pipe, logger *slog.Logger) *Client {
	c := &Client{
		pipe:    pipe,
		logger:  logger,
		pending: make(map[string]chan reply),
		done:    make(chan struct{}),
	}
	go c.dispatch()
	return c
}

// Do sends req to the worker and waits for its response. The request value
// is moved out of its parcel before anything is sent, so a request can
// cross the boundary at most once.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	value, err := req.Take()
	if err != nil {
		return Response{}, fmt.Errorf("take request value: %w", err)
	}

	id := uuid.NewString()
	msg, err := encodeEnvelope(Envelope{ID: id, Kind: KindRequest, Value: value})
	if err != nil {
		return Response{}, err
	}

	ch := make(chan reply, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Response{}, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	select {
	case c.pipe.requests <- msg:
	case <-c.pipe.closing:
		c.forget(id)
		return Response{}, ErrClosed
	case <-c.done:
		c.forget(id)
		return Response{}, ErrClosed
	case <-ctx.Done():
		c.forget(id)
		return Response{}, ctx.Err()
	}

	c.logger.Debug("request sent", "id", id)

	select {
	// dispatch answers every pending call before it exits, either with the
	// reply or with ErrClosed, so a finished round trip is never reported
	// as closed.
	case r := <-ch:
		return c.result(r)
	case <-ctx.Done():
		c.forget(id)
		return Response{}, ctx.Err()
	}
}

func (c *Client) result(r reply) (Response, error) {
	if r.err != nil {
		return Response{}, r.err
	}
	if r.env.Error != "" {
		return Response{}, fmt.Errorf("%w: %s", ErrRemote, r.env.Error)
	}
	return Response{Result: r.env.Value}, nil
}

// Close shuts the boundary down. Calls in flight fail with ErrClosed.
func (c *Client) Close() error {
	c.pipe.Close()
	return nil
}

// Pending returns the number of calls waiting for a reply.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// dispatch routes replies to their waiting calls until the endpoint closes
// the outbox or the pipe is closed. Replies already queued when the pipe
// closes are still delivered.
func (c *Client) dispatch() {
	defer c.failPending()

	for {
		select {
		case msg, ok := <-c.pipe.responses:
			if !ok {
				return
			}
			c.route(msg)
		case <-c.pipe.closing:
			for {
				select {
				case msg, ok := <-c.pipe.responses:
					if !ok {
						return
					}
					c.route(msg)
				default:
					return
				}
			}
		}
	}
}

func (c *Client) route(msg []byte) {
	env, err := decodeEnvelope(msg)
	if err != nil {
		c.logger.Warn("dropping malformed reply", "error", err)
		return
	}
	if env.Kind != KindResponse {
		c.logger.Warn("dropping envelope", "id", env.ID, "error", ErrUnexpectedKind)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[env.ID]
	delete(c.pending, env.ID)
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("reply for unknown call", "id", env.ID)
		return
	}
	ch <- reply{env: env}
}

func (c *Client) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, ch := range c.pending {
		ch <- reply{err: ErrClosed}
		delete(c.pending, id)
	}
	close(c.done)
}
