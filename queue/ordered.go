package queue

import "errors"

var ErrEmpty = errors.New("queue is empty")

const none = -1

type slot struct {
	rec        *Record
	prev, next int
}

// OrderedQueue is a doubly linked sequence of records stored in a slot
// array. Insertion is always at the front, so the rear holds the oldest
// record. next points toward the rear and prev toward the front.
//
// OrderedQueue is not safe for concurrent use; see RequestQueue.
type OrderedQueue struct {
	slots []slot
	free  []int
	front int
	rear  int
	n     int
}

func NewOrderedQueue() *OrderedQueue {
	return &OrderedQueue{front: none, rear: none}
}

// PushFront inserts rec at the front and reports whether the queue was
// empty before the insertion. A record can only be held by one queue.
func (q *OrderedQueue) PushFront(rec *Record) bool {
	if rec.holder != nil {
		panic("queue: record " + rec.ID + " is already queued")
	}
	wasEmpty := q.front == none

	idx := q.alloc()
	q.slots[idx] = slot{rec: rec, prev: none, next: q.front}
	if wasEmpty {
		q.rear = idx
	} else {
		q.slots[q.front].prev = idx
	}
	q.front = idx
	q.n++
	rec.holder = q
	return wasEmpty
}

// PopFCFS removes and returns the oldest record.
func (q *OrderedQueue) PopFCFS() (*Record, error) {
	if q.rear == none {
		return nil, ErrEmpty
	}
	return q.remove(q.rear), nil
}

// PopSJF scans from front to rear and removes the record with the smallest
// Size. Only a strictly smaller size replaces the current best, so among
// equal sizes the most recently pushed record wins.
func (q *OrderedQueue) PopSJF() (*Record, error) {
	if q.front == none {
		return nil, ErrEmpty
	}
	best := q.front
	for i := q.slots[best].next; i != none; i = q.slots[i].next {
		if q.slots[i].rec.Size < q.slots[best].rec.Size {
			best = i
		}
	}
	return q.remove(best), nil
}

// Pop removes one record according to p.
func (q *OrderedQueue) Pop(p Policy) (*Record, error) {
	if p == SJF {
		return q.PopSJF()
	}
	return q.PopFCFS()
}

func (q *OrderedQueue) Len() int {
	return q.n
}

// Records returns the queued records from front (newest) to rear (oldest).
func (q *OrderedQueue) Records() []*Record {
	out := make([]*Record, 0, q.n)
	for i := q.front; i != none; i = q.slots[i].next {
		out = append(out, q.slots[i].rec)
	}
	return out
}

func (q *OrderedQueue) alloc() int {
	if n := len(q.free); n > 0 {
		idx := q.free[n-1]
		q.free = q.free[:n-1]
		return idx
	}
	q.slots = append(q.slots, slot{prev: none, next: none})
	return len(q.slots) - 1
}

func (q *OrderedQueue) remove(idx int) *Record {
	s := q.slots[idx]
	if s.prev != none {
		q.slots[s.prev].next = s.next
	} else {
		q.front = s.next
	}
	if s.next != none {
		q.slots[s.next].prev = s.prev
	} else {
		q.rear = s.prev
	}

	q.slots[idx] = slot{prev: none, next: none}
	q.free = append(q.free, idx)
	q.n--
	s.rec.holder = nil
	return s.rec
}
