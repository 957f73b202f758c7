package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"
)

const (
	pgUniqueViolation = "23505"

	// Postgres class 08 — connection exceptions.
	pgConnClassPrefix = "08"
)

// isUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to a named constraint or index.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != pgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsUnavailable classifies transient connectivity faults so callers can
// surface them as a retryable service-unavailable condition instead of a
// business conflict.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return len(code) >= 2 && code[:2] == pgConnClassPrefix
	}
	return false
}
