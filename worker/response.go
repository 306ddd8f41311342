package worker

import (
	"bytes"
	"errors"
	"os"
	"strconv"
	"time"

	"myhttpd/queue"
)

// ServerName is sent in the Server header.
const ServerName = "myhttpd 1.0"

var errNotRegular = errors.New("not a regular file")

const (
	StatusOK       = "200 OK"
	StatusNotFound = "404 NOT FOUND"
)

// Response is a fully built reply to one record.
type Response struct {
	Code         int
	Status       string
	Date         string
	LastModified string
	ContentType  string
	Body         []byte
}

// ctime formats t like C's ctime without the trailing newline.
func ctime(t time.Time) string {
	return t.Format(time.ANSIC)
}

// BuildResponse stats and reads rec.Path. A path that is missing, is a
// directory or cannot be read becomes a 404 whose body lists rec.BaseDir.
// HEAD requests never get a body.
func BuildResponse(rec *queue.Record, now time.Time) *Response {
	resp := &Response{
		Date:        ctime(now),
		ContentType: rec.ContentType,
	}

	info, err := os.Stat(rec.Path)
	if err == nil && !info.Mode().IsRegular() {
		err = errNotRegular
	}
	if err == nil {
		var body []byte
		if !rec.IsHead() {
			body, err = os.ReadFile(rec.Path)
		}
		if err == nil {
			resp.Code = 200
			resp.Status = StatusOK
			resp.LastModified = ctime(info.ModTime())
			resp.Body = body
			return resp
		}
	}

	log.WithField("request_id", rec.ID).Debugf("%s not served: %v", rec.Path, err)
	resp.Code = 404
	resp.Status = StatusNotFound
	if !rec.IsHead() {
		resp.Body = NotFoundPage(rec.BaseDir)
	}
	return resp
}

// Head returns the status line and headers, ending with the blank line.
func (r *Response) Head() []byte {
	var b bytes.Buffer
	b.WriteString("HTTP/1.1 ")
	b.WriteString(r.Status)
	b.WriteString("\nDate: ")
	b.WriteString(r.Date)
	b.WriteString("\nServer: ")
	b.WriteString(ServerName)
	b.WriteString("\nLast-Modified: ")
	b.WriteString(r.LastModified)
	b.WriteString("\nContent-Type: ")
	b.WriteString(r.ContentType)
	b.WriteString("\nContent-Length: ")
	b.WriteString(strconv.Itoa(len(r.Body)))
	b.WriteString("\n\n")
	return b.Bytes()
}

// Bytes returns head and body in one buffer.
func (r *Response) Bytes() []byte {
	head := r.Head()
	buf := make([]byte, 0, len(head)+len(r.Body))
	buf = append(buf, head...)
	return append(buf, r.Body...)
}
