package service

import (
	"errors"
	"fmt"

	"github.com/templui/profiledesk/internal/validation"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrFileTooLarge     = validation.ErrFileTooLarge
	ErrNotFound         = errors.New("user not found")
	ErrStorageWrite     = errors.New("storage write failed")
	ErrStorageIntegrity = errors.New("stored file does not match upload")
	ErrConsistency      = errors.New("record does not reflect update")

	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUsernameOrEmailTaken = errors.New("username or email already exists")
)

// kindError tags err with one of the sentinels above. The message stays
// err's own, errors.Is matches both the kind and anything err wraps.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string   { return e.err.Error() }
func (e *kindError) Unwrap() []error { return []error{e.kind, e.err} }

func withKind(kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

func invalid(format string, args ...any) error {
	return withKind(ErrValidation, fmt.Errorf(format, args...))
}

// NewValidationError reports bad input found outside the services, e.g. while decoding a request.
func NewValidationError(message string) error {
	return withKind(ErrValidation, errors.New(message))
}
