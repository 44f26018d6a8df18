package listing

import (
	"errors"

	"enku-backoffice/internal/remote"
)

var (
	ErrClosed           = errors.New("listing: controller is unmounted")
	ErrPageOutOfRange   = errors.New("listing: page out of range")
	ErrNotFound         = errors.New("listing: record not found")
	ErrNoPendingDelete  = errors.New("listing: no delete pending confirmation")
	ErrDeleteInProgress = errors.New("listing: a delete is already in progress")
)

// ValidationError rejects a draft before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsNotFound reports a missing record, whether detected locally or by the
// upstream service.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, remote.ErrNotFound)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
