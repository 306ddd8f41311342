// Package metrics counts records in each pipeline stage, logs the counts
// when they change and exports them as OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"myhttpd/logging"
)

const ScopeName = "myhttpd/metrics"

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

// Pipeline holds the current stage counts.
type Pipeline struct {
	mu          sync.Mutex
	queues      map[string]int
	processing  int
	changed     bool
	lastLogTime time.Time

	responses metric.Int64Counter
	wait      metric.Float64Histogram
}

// NewPipeline registers the instruments on meter.
func NewPipeline(meter metric.Meter) (*Pipeline, error) {
	p := &Pipeline{queues: make(map[string]int)}

	var err error
	p.responses, err = meter.Int64Counter("myhttpd.responses",
		metric.WithDescription("Responses sent, by status"),
		metric.WithUnit("{response}"))
	if err != nil {
		return nil, fmt.Errorf("responses counter: %w", err)
	}
	p.wait, err = meter.Float64Histogram("myhttpd.request.wait",
		metric.WithDescription("Time from arrival until a worker picks the record up"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("wait histogram: %w", err)
	}
	_, err = meter.Int64ObservableGauge("myhttpd.queue.length",
		metric.WithDescription("Records held by each queue"),
		metric.WithUnit("{record}"),
		metric.WithInt64Callback(p.observeQueues))
	if err != nil {
		return nil, fmt.Errorf("queue gauge: %w", err)
	}
	_, err = meter.Int64ObservableGauge("myhttpd.workers.busy",
		metric.WithDescription("Workers currently serving a record"),
		metric.WithUnit("{worker}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			p.mu.Lock()
			defer p.mu.Unlock()
			o.Observe(int64(p.processing))
			return nil
		}))
	if err != nil {
		return nil, fmt.Errorf("busy gauge: %w", err)
	}
	return p, nil
}

func (p *Pipeline) observeQueues(_ context.Context, o metric.Int64Observer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, n := range p.queues {
		o.Observe(int64(n), metric.WithAttributes(attribute.String("queue", name)))
	}
	return nil
}

// QueueLen records the length of the named queue.
func (p *Pipeline) QueueLen(name string, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queues[name] != n {
		p.queues[name] = n
		p.changed = true
	}
}

// StartProcessing marks a worker busy with a record that arrived at arrived.
func (p *Pipeline) StartProcessing(ctx context.Context, arrived time.Time) {
	p.mu.Lock()
	p.processing++
	p.changed = true
	p.mu.Unlock()

	if !arrived.IsZero() {
		p.wait.Record(ctx, time.Since(arrived).Seconds())
	}
}

// DoneProcessing marks a worker free again after sending status.
func (p *Pipeline) DoneProcessing(ctx context.Context, status int) {
	p.mu.Lock()
	if p.processing > 0 {
		p.processing--
	}
	p.changed = true
	p.mu.Unlock()

	p.responses.Add(ctx, 1, metric.WithAttributes(attribute.Int("status", status)))
}

// Snapshot returns the counts of the waiting queue, the ready queue and busy workers.
func (p *Pipeline) Snapshot() (waiting, ready, processing int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queues["waiting"], p.queues["ready"], p.processing
}

// Monitor logs the counts every interval when they changed, rate limited to
// once per interval, until ctx is done.
func (p *Pipeline) Monitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.logIfChanged(time.Now(), interval)
		}
	}
}

func (p *Pipeline) logIfChanged(now time.Time, interval time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.changed || now.Sub(p.lastLogTime) < interval {
		return false
	}
	log.Infof("Waiting: %d | Ready: %d | Processing: %d",
		p.queues["waiting"], p.queues["ready"], p.processing)
	p.lastLogTime = now
	p.changed = false
	return true
}
