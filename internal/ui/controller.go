// Package ui holds the display state behind the page and the click handler
// that round-trips work through the worker.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mandalnilabja/clickworker/internal/storage/models"
	"github.com/mandalnilabja/clickworker/internal/worker"
)

// TestValue is the value each click hands to the worker.
const TestValue int32 = 5

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("controller closed")

// State is what the page renders.
type State struct {
	Count int `json:"count"`
}

// Worker sends one request across the worker boundary.
type Worker interface {
	Do(ctx context.Context, req worker.Request) (worker.Response, error)
}

// Recorder persists finished round trips.
type Recorder interface {
	RecordRoundTrip(rt *models.RoundTrip) error
}

// Controller owns the display state. Every read and write of the state runs
// on a single mailbox goroutine, so concurrent round trips never race on it.
type Controller struct {
	worker   Worker
	recorder Recorder
	logger   *slog.Logger

	mailbox chan func()
	stop    chan struct{}
	done    chan struct{}

	// owned by the mailbox goroutine
	state State
	subs  map[chan State]struct{}

	mu     sync.Mutex
	closed bool
	tasks  sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a controller and starts its mailbox. recorder may be nil.
func New(w Worker, recorder Recorder, logger *slog.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		worker:   w,
		recorder: recorder,
		logger:   logger,
		mailbox:  make(chan func()),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		subs:     make(map[chan State]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	go c.loop()
	return c
}

func (c *Controller) loop() {
	defer close(c.done)
	for {
		select {
		case fn := <-c.mailbox:
			fn()
		case <-c.stop:
			for ch := range c.subs {
				close(ch)
				delete(c.subs, ch)
			}
			return
		}
	}
}

// do runs fn on the mailbox goroutine. It reports false once the mailbox has
// stopped, in which case fn never runs.
func (c *Controller) do(fn func()) bool {
	select {
	case c.mailbox <- fn:
		return true
	case <-c.done:
		return false
	}
}

// Submit starts one round trip and returns its id without waiting for it.
// Each call is independent: two clicks make two round trips.
func (c *Controller) Submit() (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	c.tasks.Add(1)
	c.mu.Unlock()

	id := uuid.NewString()
	req := worker.NewRequest(worker.NewParcel(TestValue))

	go c.roundTrip(id, req)
	return id, nil
}

func (c *Controller) roundTrip(id string, req worker.Request) {
	defer c.tasks.Done()

	start := time.Now()
	c.logger.Debug("submitting work", "round_trip_id", id, "value", TestValue)

	resp, err := c.worker.Do(c.ctx, req)
	rt := &models.RoundTrip{
		ID:         id,
		Value:      TestValue,
		DurationMs: time.Since(start).Milliseconds(),
	}

	if err != nil {
		// The task is lost; the display is left untouched.
		c.logger.Error("round trip failed", "round_trip_id", id, "error", err)
		rt.Status = models.StatusFailed
		rt.ErrorMessage = err.Error()
		c.record(rt)
		return
	}

	c.logger.Info(fmt.Sprintf("main: %d", resp.Result), "round_trip_id", id)

	c.do(func() {
		c.state.Count++
		c.publish()
	})

	rt.Status = models.StatusOK
	rt.Result = resp.Result
	c.record(rt)
}

func (c *Controller) record(rt *models.RoundTrip) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordRoundTrip(rt); err != nil {
		c.logger.Warn("failed to record round trip", "round_trip_id", rt.ID, "error", err)
	}
}

// publish hands the current state to every subscriber. Slow subscribers only
// ever see the latest state. Must run on the mailbox goroutine.
func (c *Controller) publish() {
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- c.state
	}
}

// State returns the current display state.
func (c *Controller) State() State {
	reply := make(chan State, 1)
	if !c.do(func() { reply <- c.state }) {
		<-c.done
		return c.state
	}
	return <-reply
}

// Subscribe returns a channel that immediately holds the current state and
// then receives every change. The channel is closed by cancel or Close.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	if !c.do(func() {
		c.subs[ch] = struct{}{}
		ch <- c.state
	}) {
		close(ch)
		return ch, func() {}
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.do(func() {
				if _, ok := c.subs[ch]; ok {
					delete(c.subs, ch)
					close(ch)
				}
			})
		})
	}
	return ch, cancel
}

// Wait blocks until every submitted round trip has finished.
func (c *Controller) Wait() {
	c.tasks.Wait()
}

// Close stops accepting clicks, waits for round trips in flight, then stops
// the mailbox and closes all subscriptions.
func (c *Controller) Close() {
	c.Shutdown(context.Background())
}

// Shutdown is Close bounded by ctx. When ctx ends first, round trips still in
// flight are cancelled and recorded as failed, and ctx's error is returned.
// The Worker must return once its context is cancelled.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		<-c.done
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	idle := make(chan struct{})
	go func() {
		c.tasks.Wait()
		close(idle)
	}()

	var err error
	select {
	case <-idle:
	case <-ctx.Done():
		err = ctx.Err()
		c.logger.Warn("cancelling round trips in flight", "error", err)
		c.cancel()
		<-idle
	}

	c.cancel()
	close(c.stop)
	<-c.done
	return err
}
