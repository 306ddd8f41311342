package queue

import (
	"errors"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

var ErrAlreadyOwned = errors.New("record already in flight")

// InFlight tracks every record between acceptance and the end of its
// response, keyed by record ID.
type InFlight struct {
	records *xsync.MapOf[string, *Record]
}

func NewInFlight() *InFlight {
	return &InFlight{
		records: xsync.NewMapOf[string, *Record](),
	}
}

// Acquire registers rec. Registering the same record twice is an error.
func (f *InFlight) Acquire(rec *Record) error {
	if _, loaded := f.records.LoadOrStore(rec.ID, rec); loaded {
		return fmt.Errorf("%w: %s", ErrAlreadyOwned, rec.ID)
	}
	return nil
}

// Release forgets rec and reports whether it was registered.
func (f *InFlight) Release(rec *Record) bool {
	_, ok := f.records.LoadAndDelete(rec.ID)
	return ok
}

func (f *InFlight) Len() int {
	return f.records.Size()
}

// CloseAll closes the connection of every registered record and forgets
// them. It returns how many were closed.
func (f *InFlight) CloseAll() int {
	closed := 0
	f.records.Range(func(id string, rec *Record) bool {
		if _, ok := f.records.LoadAndDelete(id); ok {
			if err := rec.Close(); err != nil {
				log.WithField("request_id", id).Debugf("close: %v", err)
			}
			closed++
		}
		return true
	})
	return closed
}
