package queue

import (
	"context"
	"sync"
	"time"

	"searchconsole-go/pkg/logger"
)

// DefaultRateLimit is the sustained requests-per-second ceiling applied
// when no explicit rate is configured. Matches the upstream quota.
const DefaultRateLimit = 10

type outcome[T any] struct {
	value T
	err   error
}

type pendingRequest[T any] struct {
	run    func() (T, error)
	result chan outcome[T]
}

// Queue serializes operations through a single FIFO drain loop and
// enforces a fixed requests-per-second ceiling by sleeping between
// operations. One drain goroutine runs at a time, guarded by the
// processing flag; draining restarts lazily on the next Enqueue.
type Queue[T any] struct {
	mu         sync.Mutex
	pending    []*pendingRequest[T]
	processing bool
	interval   time.Duration
	log        *logger.Logger
}

// New creates a queue throttled to ratePerSecond sustained operations.
func New[T any](ratePerSecond int) *Queue[T] {
	if ratePerSecond <= 0 {
		ratePerSecond = DefaultRateLimit
	}
	return &Queue[T]{
		interval: time.Second / time.Duration(ratePerSecond),
		log:      logger.GetLogger().WithField("component", "request_queue"),
	}
}

// Enqueue appends run to the queue and blocks until it has executed.
// Operations are executed strictly in arrival order, one at a time.
// A failure settles only its own caller; the drain loop continues.
// Cancellation of ctx releases the caller but the operation itself is
// not retracted once queued - it still runs to completion.
func (q *Queue[T]) Enqueue(ctx context.Context, run func() (T, error)) (T, error) {
	req := &pendingRequest[T]{
		run:    run,
		result: make(chan outcome[T], 1),
	}

	q.mu.Lock()
	q.pending = append(q.pending, req)
	start := !q.processing
	if start {
		q.processing = true
	}
	depth := len(q.pending)
	q.mu.Unlock()

	if depth > 1 {
		q.log.WithField("queue_depth", depth).Debug("Request queued behind pending operations")
	}
	if start {
		go q.drain()
	}

	select {
	case out := <-req.result:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Len returns the number of operations waiting to execute.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue[T]) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.processing = false
			q.mu.Unlock()
			return
		}
		req := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		value, err := req.run()
		req.result <- outcome[T]{value: value, err: err}

		time.Sleep(q.interval)
	}
}
