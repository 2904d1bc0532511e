package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/cdma/internal/modem"
)

// job is one normalized frame waiting for the consumer.
type job struct {
	Seq   int64
	ID    string
	Input string
	Frame modem.Frame
}

// errDrained is returned by Dequeue once the queue is closed and empty.
var errDrained = errors.New("queue closed and drained")

// frameQueue is a thread-safe unbounded FIFO of jobs.
//
// The signal channel (buffer of 1) coalesces wakeups: Enqueue leaves at most
// one token in it, Close closes it so every waiter wakes. A token can be
// stale (its job already taken by TryDequeue), so waiters always re-check
// the queue after waking.
type frameQueue struct {
	mu     sync.Mutex
	jobs   []job
	closed bool
	signal chan struct{}
}

func newFrameQueue() *frameQueue {
	return &frameQueue{
		jobs:   make([]job, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends j. Returns false if the queue is closed.
func (q *frameQueue) Enqueue(j job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.jobs = append(q.jobs, j)

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue pops the front job without blocking.
func (q *frameQueue) TryDequeue() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return job{}, false
	}

	j := q.jobs[0]
	q.jobs[0] = job{} // drop the frame reference for GC

	if len(q.jobs) == 1 {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
	}

	return j, true
}

// Dequeue blocks until a job is available, the queue is closed and drained
// (errDrained), or ctx is done (ctx.Err()).
//
// A wakeup that finds the queue empty but not closed goes back to waiting.
func (q *frameQueue) Dequeue(ctx context.Context) (job, error) {
	for {
		if j, ok := q.TryDequeue(); ok {
			return j, nil
		}
		if q.drained() {
			return job{}, errDrained
		}

		select {
		case <-ctx.Done():
			return job{}, ctx.Err()
		case <-q.signal:
		}
	}
}

func (q *frameQueue) drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.jobs) == 0
}

// Len returns the number of queued jobs.
func (q *frameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Closed reports whether Close has been called.
func (q *frameQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close rejects further Enqueue calls and wakes all waiters. Idempotent.
func (q *frameQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
