// Package worker serves records from the ready queue: it builds the response,
// sends it in one write, logs it and closes the connection.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"myhttpd/logging"
	"myhttpd/queue"
)

var (
	log    *logrus.Logger
	tracer trace.Tracer
)

func init() {
	log = logging.GetLogger()
	tracer = otel.Tracer("myhttpd/worker")
}

// Stats is told when a worker starts and finishes a record.
type Stats interface {
	StartProcessing(ctx context.Context, arrived time.Time)
	DoneProcessing(ctx context.Context, status int)
}

type noStats struct{}

func (noStats) StartProcessing(context.Context, time.Time) {}
func (noStats) DoneProcessing(context.Context, int)        {}

// Pool is a fixed number of workers draining one ready queue.
type Pool struct {
	size      int
	ready     *queue.RequestQueue
	inflight  *queue.InFlight
	accessLog *AccessLog
	stats     Stats
	now       func() time.Time
}

// NewPool creates size workers. accessLog may be nil to disable request
// logging and stats may be nil.
func NewPool(size int, ready *queue.RequestQueue, inflight *queue.InFlight, accessLog *AccessLog, stats Stats) *Pool {
	if stats == nil {
		stats = noStats{}
	}
	return &Pool{
		size:      size,
		ready:     ready,
		inflight:  inflight,
		accessLog: accessLog,
		stats:     stats,
		now:       time.Now,
	}
}

// Run starts the workers and blocks until the ready queue is shut down.
func (p *Pool) Run() {
	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.process(id)
		}(i)
	}
	log.Infof("started %d workers", p.size)
	wg.Wait()
}

// process continuously serves records from the ready queue.
func (p *Pool) process(id int) {
	for {
		// Ready queue order is always arrival order; the policy applies upstream.
		rec, err := p.ready.Pop(queue.FCFS)
		if err != nil {
			if !errors.Is(err, queue.ErrClosed) {
				log.Errorf("worker %d: %v", id, err)
			}
			return
		}
		p.serve(id, rec)
	}
}

func (p *Pool) serve(id int, rec *queue.Record) {
	ctx, span := tracer.Start(context.Background(), "serve",
		trace.WithAttributes(
			attribute.String("http.method", rec.Method),
			attribute.String("http.target", rec.Resource),
			attribute.String("request.id", rec.ID),
		))
	defer span.End()

	p.stats.StartProcessing(ctx, rec.ArrivedAt)

	now := p.now()
	resp := BuildResponse(rec, now)
	span.SetAttributes(attribute.Int("http.status_code", resp.Code))

	fields := logrus.Fields{
		"worker":     id,
		"request_id": rec.ID,
		"client":     rec.Client,
		"status":     resp.Code,
	}
	if rec.Conn != nil {
		if _, err := rec.Conn.Write(resp.Bytes()); err != nil {
			log.WithFields(fields).Warnf("send failed: %v", err)
			span.RecordError(err)
		}
	}
	if p.accessLog != nil {
		p.accessLog.Append(rec, now, resp.Status, len(resp.Body))
	}
	if err := rec.Close(); err != nil {
		log.WithFields(fields).Debugf("close: %v", err)
	}
	p.inflight.Release(rec)

	p.stats.DoneProcessing(ctx, resp.Code)
	log.WithFields(fields).Debugf("served %s %s", rec.Method, rec.Resource)
}
