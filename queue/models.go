package queue

import (
	"net"
	"time"

	"github.com/google/uuid"
)

// Record represents one accepted request travelling through the pipeline.
// Fields are set by the acceptor and not changed afterwards; the connection
// belongs to the record until a worker closes it.
type Record struct {
	ID          string
	Conn        net.Conn
	Method      string
	Resource    string // as it appeared on the request line
	Path        string // resolved file path
	ContentType string
	Size        int64 // 0 for HEAD or unresolvable paths
	Client      string
	BaseDir     string // directory listed when Path does not exist
	ArrivedAt   time.Time

	holder *OrderedQueue
}

// NewRecord creates a record with a fresh ID.
func NewRecord(conn net.Conn) *Record {
	return &Record{
		ID:   uuid.NewString(),
		Conn: conn,
	}
}

// IsHead reports whether the request must be answered without a body.
func (r *Record) IsHead() bool {
	return r.Method == "HEAD"
}

// Close releases the record's connection.
func (r *Record) Close() error {
	if r.Conn == nil {
		return nil
	}
	return r.Conn.Close()
}
