package notes

import (
	"errors"

	"notesapp/internal/database"
	"notesapp/internal/database/dto"
)

// ErrNotFound is returned by update and delete when the id matches no note.
var ErrNotFound = errors.New("note not found")

// OperationError is an unexpected store failure. Its message is generic; the
// cause is logged where it happens and kept only for errors.Is/As.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return "Failed to " + e.Op
}

func (e *OperationError) Unwrap() error { return e.Err }

type Kind int

const (
	KindOperationFailed Kind = iota
	KindValidation
	KindNotFound
	KindConfiguration
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	default:
		return "operation_failed"
	}
}

// KindOf classifies an error returned by a Service method.
func KindOf(err error) Kind {
	var (
		verr    *dto.ValidationError
		cfgErr  *database.ConfigurationError
		connErr *database.ConnectionError
	)
	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &connErr):
		return KindConnection
	default:
		return KindOperationFailed
	}
}
