package worker

import "sync"

// Pipe joins a Client to an Endpoint. Requests flow through a bounded inbox,
// replies through an outbox that only the Endpoint closes.
type Pipe struct {
	requests  chan []byte
	responses chan []byte
	closing   chan struct{}
	closeOnce sync.Once
}

// NewPipe creates a pipe whose inbox holds up to queueSize pending requests.
func NewPipe(queueSize int) *Pipe {
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pipe{
		requests:  make(chan []byte, queueSize),
		responses: make(chan []byte, queueSize),
		closing:   make(chan struct{}),
	}
}

// Close signals both sides to stop. Safe to call more than once.
func (p *Pipe) Close() {
	p.closeOnce.Do(func() {
		close(p.closing)
	})
}

// Closed is closed once Close has been called.
func (p *Pipe) Closed() <-chan struct{} {
	return p.closing
}
