// internal/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Error classes checked with errors.Is. Validation blocks before any network
// call; remote write failures abort the rest of a multi-step operation but do
// not roll back steps that already committed.
var (
	ErrValidation  = errors.New("validation failed")
	ErrParse       = errors.New("parse failed")
	ErrRemoteWrite = errors.New("remote write failed")
	ErrNotFound    = errors.New("not found")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Parse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// RemoteWrite tags a failed persistence call, keeping the driver error in the
// chain.
func RemoteWrite(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteWrite, op, err)
}

func NotFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}
