package queue

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func rec(id string, size int64) *Record {
	return &Record{ID: id, Size: size}
}

func ids(recs []*Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestPushFrontReportsEmpty(t *testing.T) {
	q := NewOrderedQueue()
	if !q.PushFront(rec("a", 1)) {
		t.Error("first push should report an empty queue")
	}
	if q.PushFront(rec("b", 1)) {
		t.Error("second push should not report an empty queue")
	}
	if got := ids(q.Records()); fmt.Sprint(got) != "[b a]" {
		t.Errorf("front to rear = %v, want [b a]", got)
	}
}

func TestPopFCFSIsArrivalOrder(t *testing.T) {
	q := NewOrderedQueue()
	for i := 0; i < 5; i++ {
		q.PushFront(rec(fmt.Sprint(i), int64(10-i)))
	}
	for i := 0; i < 5; i++ {
		r, err := q.PopFCFS()
		if err != nil {
			t.Fatalf("pop %d: %v", i, err)
		}
		if r.ID != fmt.Sprint(i) {
			t.Fatalf("pop %d = %s, want %d", i, r.ID, i)
		}
	}
	if _, err := q.PopFCFS(); !errors.Is(err, ErrEmpty) {
		t.Errorf("pop on empty queue: err = %v, want ErrEmpty", err)
	}
}

func TestPopSJF(t *testing.T) {
	testCases := []struct {
		name  string
		sizes []int64
		want  []string
	}{
		{"distinct", []int64{30, 10, 20}, []string{"1", "2", "0"}},
		{"tie prefers latest push", []int64{500, 100, 100}, []string{"2", "1", "0"}},
		{"minimum at rear", []int64{1, 5, 9}, []string{"0", "1", "2"}},
		{"minimum at front", []int64{9, 5, 1}, []string{"2", "1", "0"}},
		{"all equal is LIFO", []int64{7, 7, 7}, []string{"2", "1", "0"}},
		{"single", []int64{42}, []string{"0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewOrderedQueue()
			for i, s := range tc.sizes {
				q.PushFront(rec(fmt.Sprint(i), s))
			}
			var got []string
			for q.Len() > 0 {
				r, err := q.PopSJF()
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, r.ID)
			}
			if fmt.Sprint(got) != fmt.Sprint(tc.want) {
				t.Errorf("order = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPopSJFMiddleKeepsLinks(t *testing.T) {
	q := NewOrderedQueue()
	q.PushFront(rec("a", 5))
	q.PushFront(rec("b", 1))
	q.PushFront(rec("c", 5))

	r, _ := q.PopSJF()
	if r.ID != "b" {
		t.Fatalf("popped %s, want b", r.ID)
	}
	if got := ids(q.Records()); fmt.Sprint(got) != "[c a]" {
		t.Errorf("remaining = %v, want [c a]", got)
	}
	r, _ = q.PopFCFS()
	if r.ID != "a" {
		t.Errorf("FCFS after middle removal = %s, want a", r.ID)
	}
}

func TestLenTracksPushesMinusPops(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	q := NewOrderedQueue()
	pushes, pops := 0, 0

	for i := 0; i < 1000; i++ {
		if rng.Intn(3) > 0 || q.Len() == 0 {
			q.PushFront(rec(fmt.Sprint(i), rng.Int63n(50)))
			pushes++
		} else {
			var err error
			if rng.Intn(2) == 0 {
				_, err = q.PopFCFS()
			} else {
				_, err = q.PopSJF()
			}
			if err != nil {
				t.Fatal(err)
			}
			pops++
		}
		if q.Len() != pushes-pops || len(q.Records()) != q.Len() {
			t.Fatalf("step %d: Len = %d, records = %d, want %d", i, q.Len(), len(q.Records()), pushes-pops)
		}
		if (q.Len() == 0) != (q.front == none && q.rear == none) {
			t.Fatalf("step %d: front/rear inconsistent with Len %d", i, q.Len())
		}
	}
}

func TestRecordHeldByOneQueue(t *testing.T) {
	a, b := NewOrderedQueue(), NewOrderedQueue()
	r := rec("x", 1)
	a.PushFront(r)

	defer func() {
		if recover() == nil {
			t.Error("pushing a queued record into a second queue should panic")
		}
	}()
	b.PushFront(r)
}

func TestRecordMovesBetweenQueues(t *testing.T) {
	a, b := NewOrderedQueue(), NewOrderedQueue()
	r := rec("x", 1)
	a.PushFront(r)
	got, _ := a.PopFCFS()
	b.PushFront(got)

	if a.Len() != 0 || b.Len() != 1 {
		t.Errorf("lens = %d/%d, want 0/1", a.Len(), b.Len())
	}
}

func TestParsePolicy(t *testing.T) {
	testCases := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", FCFS, false},
		{"fcfs", FCFS, false},
		{"SJF", SJF, false},
		{"sjf", SJF, false},
		{"lifo", FCFS, true},
	}
	for _, tc := range testCases {
		got, err := ParsePolicy(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePolicy(%q) err = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
