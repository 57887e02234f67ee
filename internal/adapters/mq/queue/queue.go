// Package queue buffers profile build requests between the API and the
// worker pool.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/metrics"
)

const defaultCapacity = 10_000

// Request is one profile build request.
type Request = model.Intake

// Queue is a bounded FIFO of build requests.
type Queue interface {
	// Enqueue adds r without blocking. It returns ErrFull under backpressure
	// and ErrClosed after Close.
	Enqueue(ctx context.Context, r Request) error

	// Dequeue streams requests until the queue is closed and drained or ctx
	// is done.
	Dequeue(ctx context.Context) <-chan Request

	Len() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue is a channel-backed Queue.
type InMemoryQueue struct {
	requests chan Request
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates an InMemoryQueue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.requests = make(chan Request, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.observe()
	return q
}

func (q *InMemoryQueue) observe() {
	n := len(q.requests)
	metrics.UpdateQueueSize(n)
	metrics.UpdateQueueUtilization(float64(n) / float64(q.capacity))
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Request) error { //nolint:gocritic // hugeParam: requests travel by value
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}

	select {
	case q.requests <- r:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Request {
	out := make(chan Request)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-q.requests:
				if !ok {
					return
				}
				select {
				case out <- r:
					metrics.RecordQueueDequeue()
					q.observe()
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len implements Queue.
func (q *InMemoryQueue) Len() int {
	return len(q.requests)
}

// Close stops accepting requests. Already queued requests can still be
// dequeued.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		close(q.requests)
		q.closed = true
	}
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
