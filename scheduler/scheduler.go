// Package scheduler moves records from the waiting queue to the ready queue
// in the order chosen by the scheduling policy.
package scheduler

import (
	"errors"

	"github.com/sirupsen/logrus"

	"myhttpd/logging"
	"myhttpd/queue"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

// Scheduler is the only consumer of the waiting queue and the only producer
// of the ready queue.
type Scheduler struct {
	waiting  *queue.RequestQueue
	ready    *queue.RequestQueue
	inflight *queue.InFlight
	policy   queue.Policy
}

func New(waiting, ready *queue.RequestQueue, inflight *queue.InFlight, policy queue.Policy) *Scheduler {
	return &Scheduler{
		waiting:  waiting,
		ready:    ready,
		inflight: inflight,
		policy:   policy,
	}
}

// Run forwards records until either queue is shut down. The waiting queue
// lock is released before the ready queue lock is taken.
func (s *Scheduler) Run() error {
	log.Infof("scheduler started, policy %s", s.policy)
	for {
		if err := s.Step(); err != nil {
			if errors.Is(err, queue.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// Step blocks for one record and forwards it.
func (s *Scheduler) Step() error {
	rec, err := s.waiting.Pop(s.policy)
	if err != nil {
		return err
	}
	wasEmpty, err := s.ready.Push(rec)
	if err != nil {
		// Nobody will serve it.
		rec.Close()
		s.inflight.Release(rec)
		return err
	}
	log.WithFields(logrus.Fields{
		"request_id": rec.ID,
		"size":       rec.Size,
		"woke":       wasEmpty,
	}).Debugf("scheduled %s %s", rec.Method, rec.Resource)
	return nil
}
