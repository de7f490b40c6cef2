package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
)

// IsTransient reports whether err comes from a timeout or a lost connection
// rather than from the statement itself. Callers may retry transient failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
