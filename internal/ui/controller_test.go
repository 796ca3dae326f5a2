package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mandalnilabja/clickworker/internal/storage/models"
	"github.com/mandalnilabja/clickworker/internal/worker"
)

// syncBuffer lets the test read log output while goroutines still write.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type memRecorder struct {
	mu    sync.Mutex
	trips []*models.RoundTrip
}

func (r *memRecorder) RecordRoundTrip(rt *models.RoundTrip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips = append(r.trips, rt)
	return nil
}

func (r *memRecorder) all() []*models.RoundTrip {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.RoundTrip(nil), r.trips...)
}

// failingWorker fails every call the way a closed boundary would.
type failingWorker struct{}

func (failingWorker) Do(ctx context.Context, req worker.Request) (worker.Response, error) {
	if _, err := req.Take(); err != nil {
		return worker.Response{}, err
	}
	return worker.Response{}, worker.ErrClosed
}

// oddWorker answers with a result unrelated to the request value.
type oddWorker struct{}

func (oddWorker) Do(ctx context.Context, req worker.Request) (worker.Response, error) {
	if _, err := req.Take(); err != nil {
		return worker.Response{}, err
	}
	return worker.Response{Result: -42}, nil
}

// stuckWorker never answers until its context is cancelled.
type stuckWorker struct {
	started chan struct{}
}

func (w stuckWorker) Do(ctx context.Context, req worker.Request) (worker.Response, error) {
	if _, err := req.Take(); err != nil {
		return worker.Response{}, err
	}
	close(w.started)
	<-ctx.Done()
	return worker.Response{}, ctx.Err()
}

func startWorker(t *testing.T, logger *slog.Logger) *worker.Client {
	t.Helper()

	pipe := worker.NewPipe(4)
	endpoint := worker.NewEndpoint(pipe, worker.Echo(logger), logger)
	client := worker.NewClient(pipe, logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		endpoint.Run(context.Background())
	}()
	t.Cleanup(func() {
		client.Close()
		<-done
	})
	return client
}

func TestSingleClick(t *testing.T) {
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rec := &memRecorder{}

	c := New(startWorker(t, logger), rec, logger)
	defer c.Close()

	if got := c.State().Count; got != 0 {
		t.Fatalf("expected initial count 0, got %d", got)
	}

	id, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	c.Wait()

	if got := c.State().Count; got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}

	out := logs.String()
	if strings.Count(out, "Worker got: 5") != 1 {
		t.Errorf("expected one worker log line, got %q", out)
	}
	if strings.Count(out, "main: 5") != 1 {
		t.Errorf("expected one main log line, got %q", out)
	}

	trips := rec.all()
	if len(trips) != 1 {
		t.Fatalf("expected 1 recorded round trip, got %d", len(trips))
	}
	if trips[0].ID != id || trips[0].Status != models.StatusOK || trips[0].Result != TestValue {
		t.Errorf("unexpected round trip %+v", trips[0])
	}
}

func TestClicksAreNotDeduplicated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		clicks int
	}{
		{name: "two clicks", clicks: 2},
		{name: "three quick clicks", clicks: 3},
		{name: "burst", clicks: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &memRecorder{}
			c := New(startWorker(t, logger), rec, logger)
			defer c.Close()

			ids := make(map[string]bool)
			for range tt.clicks {
				id, err := c.Submit()
				if err != nil {
					t.Fatalf("Submit failed: %v", err)
				}
				ids[id] = true
			}
			c.Wait()

			if len(ids) != tt.clicks {
				t.Errorf("expected %d distinct round trips, got %d", tt.clicks, len(ids))
			}
			if got := c.State().Count; got != tt.clicks {
				t.Errorf("expected count %d, got %d", tt.clicks, got)
			}
			if got := len(rec.all()); got != tt.clicks {
				t.Errorf("expected %d recorded round trips, got %d", tt.clicks, got)
			}
		})
	}
}

func TestIncrementIgnoresResultValue(t *testing.T) {
	c := New(oddWorker{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer c.Close()

	for range 2 {
		if _, err := c.Submit(); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	c.Wait()

	if got := c.State().Count; got != 2 {
		t.Errorf("expected count 2, got %d", got)
	}
}

func TestFailedRoundTripLeavesCountAlone(t *testing.T) {
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rec := &memRecorder{}

	c := New(failingWorker{}, rec, logger)
	defer c.Close()

	if _, err := c.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	c.Wait()

	if got := c.State().Count; got != 0 {
		t.Errorf("expected count 0, got %d", got)
	}
	if !strings.Contains(logs.String(), "round trip failed") {
		t.Errorf("expected failure log, got %q", logs.String())
	}
	if strings.Contains(logs.String(), "main:") {
		t.Errorf("unexpected main log line on failure: %q", logs.String())
	}

	trips := rec.all()
	if len(trips) != 1 || trips[0].Status != models.StatusFailed {
		t.Fatalf("expected one failed round trip, got %+v", trips)
	}
	if !strings.Contains(trips[0].ErrorMessage, worker.ErrClosed.Error()) {
		t.Errorf("unexpected error message %q", trips[0].ErrorMessage)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(startWorker(t, logger), nil, logger)
	defer c.Close()

	updates, cancel := c.Subscribe()
	defer cancel()

	first := <-updates
	if first.Count != 0 {
		t.Fatalf("expected initial state 0, got %d", first.Count)
	}

	if _, err := c.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	select {
	case st := <-updates:
		if st.Count != 1 {
			t.Errorf("expected count 1, got %d", st.Count)
		}
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	c := New(oddWorker{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer c.Close()

	updates, cancel := c.Subscribe()
	<-updates
	cancel()
	cancel()

	if _, ok := <-updates; ok {
		t.Error("expected channel to be closed after cancel")
	}
}

func TestClose(t *testing.T) {
	c := New(oddWorker{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	updates, _ := c.Subscribe()
	<-updates

	if _, err := c.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	c.Close()
	c.Close()

	if _, err := c.Submit(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if got := c.State().Count; got != 1 {
		t.Errorf("expected in-flight round trip to finish before close, count %d", got)
	}

	// Drain the final update, then expect the close.
	for range updates {
	}
}

func TestShutdownGivesUpOnStuckRoundTrip(t *testing.T) {
	rec := &memRecorder{}
	w := stuckWorker{started: make(chan struct{})}
	c := New(w, rec, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := c.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	<-w.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- c.Shutdown(ctx) }()

	select {
	case err := <-errc:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Shutdown ignored its deadline")
	}

	if got := c.State().Count; got != 0 {
		t.Errorf("expected count 0, got %d", got)
	}
	trips := rec.all()
	if len(trips) != 1 || trips[0].Status != models.StatusFailed {
		t.Errorf("expected one failed round trip, got %+v", trips)
	}
	if _, err := c.Submit(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestShutdownWaitsForRoundTrips(t *testing.T) {
	c := New(oddWorker{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := c.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if got := c.State().Count; got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown should be a no-op, got %v", err)
	}
}
