package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var ErrClosed = errors.New("queue is shut down")

// Observer is told the queue length after every change.
type Observer interface {
	QueueLen(name string, n int)
}

// Option configures a RequestQueue.
type Option func(*RequestQueue)

// WithSharedConsumers makes every push signal the wake condition instead of
// only the empty to non-empty transition. Use it when more than one
// goroutine pops from the queue.
func WithSharedConsumers() Option {
	return func(q *RequestQueue) {
		q.signalEveryPush = true
	}
}

// WithObserver reports length changes to o. Calls happen with the queue
// lock held.
func WithObserver(o Observer) Option {
	return func(q *RequestQueue) {
		q.observer = o
	}
}

// RequestQueue is an OrderedQueue guarded by one mutex and one wake
// condition.
type RequestQueue struct {
	name            string
	items           *OrderedQueue
	mutex           sync.Mutex
	cond            *sync.Cond
	closed          bool
	signalEveryPush bool
	observer        Observer
}

// NewRequestQueue initializes an empty queue.
func NewRequestQueue(name string, opts ...Option) *RequestQueue {
	q := &RequestQueue{
		name:  name,
		items: NewOrderedQueue(),
	}
	q.cond = sync.NewCond(&q.mutex)
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *RequestQueue) Name() string {
	return q.name
}

// Push inserts rec at the front and wakes a waiting consumer when the queue
// was empty. It reports whether the queue was empty before the push.
func (q *RequestQueue) Push(rec *Record) (bool, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closed {
		return false, ErrClosed
	}
	wasEmpty := q.items.PushFront(rec)
	if wasEmpty || q.signalEveryPush {
		q.cond.Signal()
	}
	q.notify()
	log.WithFields(logrus.Fields{
		"queue":      q.name,
		"request_id": rec.ID,
		"len":        q.items.Len(),
	}).Debug("record queued")
	return wasEmpty, nil
}

// Pop blocks until the queue holds a record, then removes one according to
// p. The lock is released before Pop returns, so callers never do I/O
// while holding it. After Shutdown, Pop returns ErrClosed.
func (q *RequestQueue) Pop(p Policy) (*Record, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	// Re-check after every wake: Wait can return without a matching push.
	for q.items.Len() == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return nil, ErrClosed
	}

	rec, err := q.items.Pop(p)
	if err != nil {
		return nil, err
	}
	q.notify()
	log.WithFields(logrus.Fields{
		"queue":      q.name,
		"request_id": rec.ID,
		"policy":     p.String(),
		"len":        q.items.Len(),
	}).Debug("record removed")
	return rec, nil
}

// Len returns the number of queued records.
func (q *RequestQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return q.items.Len()
}

// Drain removes every queued record, oldest first. It also works after
// Shutdown, so that leftovers can be closed.
func (q *RequestQueue) Drain() []*Record {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	out := make([]*Record, 0, q.items.Len())
	for q.items.Len() > 0 {
		rec, err := q.items.PopFCFS()
		if err != nil {
			break
		}
		out = append(out, rec)
	}
	q.notify()
	return out
}

// Shutdown wakes every waiter; subsequent pushes and pops fail with ErrClosed.
func (q *RequestQueue) Shutdown() {
	q.mutex.Lock()
	q.closed = true
	q.mutex.Unlock()
	q.cond.Broadcast()
}

func (q *RequestQueue) notify() {
	if q.observer != nil {
		q.observer.QueueLen(q.name, q.items.Len())
	}
}
