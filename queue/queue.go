// Package queue holds the request records and the two locked queues that
// connect the acceptor, the scheduler and the worker pool.
package queue

import (
	"github.com/sirupsen/logrus"

	"myhttpd/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}
