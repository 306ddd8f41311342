package acceptor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// maxRequestLine bounds how much of a connection is read for the request line.
const maxRequestLine = 8 << 10

var (
	ErrMalformedRequest = errors.New("malformed request line")
	ErrEmptyRequest     = errors.New("connection closed before a request was sent")
)

// ParseRequestLine splits "METHOD RESOURCE PROTOCOL". Both separating spaces
// must be present and the resource must be an absolute path.
func ParseRequestLine(line string) (method, resource string, err error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}
	method, resource = parts[0], parts[1]
	if method == "" || !strings.HasPrefix(resource, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}
	return method, resource, nil
}

// readRequestLine reads the first line of the request. The rest of the
// request is ignored.
func readRequestLine(conn net.Conn) (string, error) {
	lr := &io.LimitedReader{R: conn, N: maxRequestLine}
	bufr := bufio.NewReaderSize(lr, 4<<10)

	p, isPrefix, err := bufr.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrEmptyRequest
		}
		return "", err
	}

	line := append([]byte(nil), p...)
	for isPrefix {
		p, isPrefix, err = bufr.ReadLine()
		if err != nil {
			break
		}
		line = append(line, p...)
	}
	if len(line) == 0 {
		return "", ErrEmptyRequest
	}
	return string(line), nil
}

func clientIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
