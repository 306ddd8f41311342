// Package acceptor turns incoming connections into request records and
// pushes them onto the waiting queue.
package acceptor

import (
	"errors"
	"net"
	"sync"
	"time"

	"myhttpd/queue"
)

// Acceptor owns the listening socket. Connections are handled one at a time.
type Acceptor struct {
	resolver *Resolver
	waiting  *queue.RequestQueue
	inflight *queue.InFlight
	now      func() time.Time

	mu      sync.Mutex
	ln      net.Listener
	reading net.Conn
	closed  bool
}

func New(resolver *Resolver, waiting *queue.RequestQueue, inflight *queue.InFlight) *Acceptor {
	return &Acceptor{
		resolver: resolver,
		waiting:  waiting,
		inflight: inflight,
		now:      time.Now,
	}
}

// Serve accepts connections until ln is closed. Accept errors are logged and
// do not stop the loop.
func (a *Acceptor) Serve(ln net.Listener) error {
	a.mu.Lock()
	a.ln = ln
	a.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Errorf("error accepting the client: %v", err)
			continue
		}
		a.handle(conn)
	}
}

// Close stops Serve: it closes the listener and any connection whose
// request line is still being read.
func (a *Acceptor) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.reading != nil {
		a.reading.Close()
	}
	if a.ln == nil {
		return nil
	}
	return a.ln.Close()
}

func (a *Acceptor) setReading(conn net.Conn) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}
	a.reading = conn
	return true
}

func (a *Acceptor) handle(conn net.Conn) {
	client := clientIP(conn.RemoteAddr())
	if !a.setReading(conn) {
		conn.Close()
		return
	}

	line, err := readRequestLine(conn)
	a.setReading(nil)
	if err != nil {
		logAndDrop(conn, client, err)
		return
	}

	rec, err := a.newRecord(conn, client, line)
	if err != nil {
		if errors.Is(err, ErrIgnored) {
			log.WithField("client", client).Debugf("ignoring %q", line)
			conn.Close()
			return
		}
		logAndDrop(conn, client, err)
		return
	}

	if err := a.inflight.Acquire(rec); err != nil {
		logAndDrop(conn, client, err)
		return
	}
	rec.ArrivedAt = a.now()
	if _, err := a.waiting.Push(rec); err != nil {
		a.inflight.Release(rec)
		logAndDrop(conn, client, err)
		return
	}
	logRequest(rec)
}

func (a *Acceptor) newRecord(conn net.Conn, client, line string) (*queue.Record, error) {
	method, resource, err := ParseRequestLine(line)
	if err != nil {
		return nil, err
	}
	res, err := a.resolver.Resolve(resource)
	if err != nil {
		return nil, err
	}

	rec := queue.NewRecord(conn)
	rec.Method = method
	rec.Resource = resource
	rec.Path = res.Path
	rec.BaseDir = res.BaseDir
	rec.ContentType = ContentType(res.Name)
	rec.Client = client
	if !rec.IsHead() {
		rec.Size = fileSize(res.Path)
	}
	return rec, nil
}
