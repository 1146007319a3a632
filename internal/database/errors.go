package database

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConfigurationError reports that the store address is not configured.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return "missing " + e.Key + " configuration"
}

type ConnErrorKind int

const (
	ConnGeneric ConnErrorKind = iota
	ConnAuthentication
	ConnUnreachable
	ConnTimeout
	ConnAccessRestricted
	ConnInvalidAddress
)

func (k ConnErrorKind) String() string {
	switch k {
	case ConnAuthentication:
		return "authentication"
	case ConnUnreachable:
		return "unreachable"
	case ConnTimeout:
		return "timeout"
	case ConnAccessRestricted:
		return "access_restricted"
	case ConnInvalidAddress:
		return "invalid_address"
	default:
		return "generic"
	}
}

// ConnectionError is a classified failure to open the store connection.
// Error() is safe to show to end users; the cause is only for logs.
type ConnectionError struct {
	Kind ConnErrorKind
	Err  error
}

func (e *ConnectionError) Error() string {
	switch e.Kind {
	case ConnAuthentication:
		return "Authentication failed"
	case ConnUnreachable:
		return "Cannot reach database server"
	case ConnTimeout:
		return "Connection timeout"
	case ConnAccessRestricted:
		return "Client address not allowed by database server"
	case ConnInvalidAddress:
		return "Invalid connection string format"
	default:
		return "Database connection error"
	}
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// classifyConnError maps a raw dial failure to a ConnectionError. Typed
// checks run first; message patterns catch errors the driver only reports
// as text.
func classifyConnError(err error) *ConnectionError {
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return ce
	}
	return &ConnectionError{Kind: connErrorKind(err), Err: err}
}

func connErrorKind(err error) ConnErrorKind {
	msg := strings.ToLower(err.Error())

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.Contains(strings.ToLower(pgErr.Message), "pg_hba.conf"):
			return ConnAccessRestricted
		case pgErr.Code == "28P01" || pgErr.Code == "28000":
			return ConnAuthentication
		}
	}

	var parseErr *pgconn.ParseConfigError
	if errors.As(err, &parseErr) {
		return ConnInvalidAddress
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout {
		return ConnUnreachable
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ConnTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ConnTimeout
	}

	switch {
	case strings.Contains(msg, "pg_hba.conf") ||
		(strings.Contains(msg, "not") && strings.Contains(msg, "allowed") && strings.Contains(msg, "address")):
		return ConnAccessRestricted
	case strings.Contains(msg, "password authentication failed") ||
		strings.Contains(msg, "authentication failed") ||
		strings.Contains(msg, "bad auth"):
		return ConnAuthentication
	case strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "network is unreachable"):
		return ConnUnreachable
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return ConnTimeout
	case strings.Contains(msg, "cannot parse") ||
		strings.Contains(msg, "invalid connection string") ||
		strings.Contains(msg, "invalid dsn"):
		return ConnInvalidAddress
	}
	return ConnGeneric
}
