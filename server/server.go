// Package server assembles the request pipeline: one acceptor, one
// scheduler and a fixed worker pool connected by the waiting and ready
// queues.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"myhttpd/acceptor"
	"myhttpd/config"
	"myhttpd/logging"
	"myhttpd/metrics"
	"myhttpd/queue"
	"myhttpd/scheduler"
	"myhttpd/worker"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

// Server owns the listener, both queues and the three stages.
type Server struct {
	config    *config.Config
	waiting   *queue.RequestQueue
	ready     *queue.RequestQueue
	inflight  *queue.InFlight
	pipeline  *metrics.Pipeline
	acceptor  *acceptor.Acceptor
	scheduler *scheduler.Scheduler
	pool      *worker.Pool
	accessLog *worker.AccessLog
	ln        net.Listener
}

// New builds the pipeline. The access log, when configured, is opened here
// so that a bad path is reported before anything is served.
func New(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Root != "" {
		info, err := os.Stat(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("root directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("root directory: %s is not a directory", cfg.Root)
		}
	}

	pipeline, err := metrics.NewPipeline(otel.Meter(metrics.ScopeName))
	if err != nil {
		return nil, err
	}

	readyOpts := []queue.Option{queue.WithObserver(pipeline)}
	if cfg.Threads > 1 {
		readyOpts = append(readyOpts, queue.WithSharedConsumers())
	}
	s := &Server{
		config:   cfg,
		waiting:  queue.NewRequestQueue("waiting", queue.WithObserver(pipeline)),
		ready:    queue.NewRequestQueue("ready", readyOpts...),
		inflight: queue.NewInFlight(),
		pipeline: pipeline,
	}

	resolver, err := acceptor.NewResolver(cfg.Root, cfg.HomeRoot, cfg.UserDir)
	if err != nil {
		return nil, err
	}
	if cfg.LogFile != "" {
		s.accessLog, err = worker.OpenAccessLog(cfg.LogFile)
		if err != nil {
			return nil, err
		}
	}

	s.acceptor = acceptor.New(resolver, s.waiting, s.inflight)
	s.scheduler = scheduler.New(s.waiting, s.ready, s.inflight, cfg.Policy())
	s.pool = worker.NewPool(cfg.Threads, s.ready, s.inflight, s.accessLog, pipeline)
	return s, nil
}

// Listen binds the configured port. Start calls it when needed.
func (s *Server) Listen() error {
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Address(), err)
	}
	s.ln = ln
	return nil
}

// Addr is the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Start runs the pipeline until ctx is cancelled. The acceptor starts at
// once; the scheduler starts after the queue time and the workers after a
// further worker delay, so early requests collect in the waiting queue.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	log.Infof("Listening on %s", s.ln.Addr())
	log.Infof("Scheduling policy: %s, workers: %d", s.config.Policy(), s.config.Threads)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.acceptor.Serve(s.ln); err != nil {
			log.Errorf("acceptor stopped: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.pipeline.Monitor(ctx, s.config.Monitor())
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runStages(ctx, &wg)
	}()

	<-ctx.Done()
	return s.shutdown(&wg)
}

func (s *Server) runStages(ctx context.Context, wg *sync.WaitGroup) {
	if !sleep(ctx, s.config.SchedulerDelay()) {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.scheduler.Run(); err != nil {
			log.Errorf("scheduler stopped: %v", err)
		}
	}()

	if !sleep(ctx, s.config.WorkerStartDelay()) {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.pool.Run()
	}()
}

func (s *Server) shutdown(wg *sync.WaitGroup) error {
	log.Info("shutting down")
	var errs []error
	if err := s.acceptor.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		errs = append(errs, err)
	}
	s.waiting.Shutdown()
	s.ready.Shutdown()
	for _, q := range []*queue.RequestQueue{s.waiting, s.ready} {
		recs := q.Drain()
		for _, rec := range recs {
			rec.Close()
			s.inflight.Release(rec)
		}
		if len(recs) > 0 {
			log.Infof("dropped %d records from the %s queue", len(recs), q.Name())
		}
	}
	if n := s.inflight.CloseAll(); n > 0 {
		log.Infof("closed %d pending connections", n)
	}
	wg.Wait()

	if s.accessLog != nil {
		if err := s.accessLog.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
