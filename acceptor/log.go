package acceptor

import (
	"net"

	"github.com/sirupsen/logrus"

	"myhttpd/logging"
	"myhttpd/queue"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

func logRequest(rec *queue.Record) {
	log.WithFields(logrus.Fields{
		"request_id": rec.ID,
		"path":       rec.Path,
		"size":       rec.Size,
	}).Debugf("%s -- %s -- %s", rec.Client, rec.Method, rec.Resource)
}

// logAndDrop abandons a connection that will not produce a record.
func logAndDrop(conn net.Conn, client string, err error) {
	log.WithField("client", client).Warnf("dropping connection: %v", err)
	conn.Close()
}
