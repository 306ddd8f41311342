package worker

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"myhttpd/queue"
)

// AccessLog appends one line per served request.
type AccessLog struct {
	logger *logrus.Logger
	closer io.Closer
}

type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	return append([]byte(e.Message), '\n'), nil
}

// reportingWriter sends write failures to the process log.
type reportingWriter struct {
	w    io.Writer
	name string
}

func (rw reportingWriter) Write(p []byte) (int, error) {
	n, err := rw.w.Write(p)
	if err != nil {
		log.Errorf("writing access log %s: %v", rw.name, err)
	}
	return n, err
}

// OpenAccessLog opens path for appending, creating it if needed.
func OpenAccessLog(path string) (*AccessLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open access log: %w", err)
	}
	l := NewAccessLog(reportingWriter{w: f, name: path})
	l.closer = f
	return l, nil
}

// NewAccessLog writes lines to w.
func NewAccessLog(w io.Writer) *AccessLog {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(lineFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	return &AccessLog{logger: logger}
}

// Line formats: client - [arrival] [response] 'METHOD resource HTTP/1.0' status length
func Line(rec *queue.Record, responded time.Time, status string, length int) string {
	return fmt.Sprintf("%s - [%s] [%s] '%s %s HTTP/1.0' %s %d",
		rec.Client, ctime(rec.ArrivedAt), ctime(responded),
		rec.Method, rec.Resource, status, length)
}

func (l *AccessLog) Append(rec *queue.Record, responded time.Time, status string, length int) {
	l.logger.Info(Line(rec, responded, status, length))
}

func (l *AccessLog) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
