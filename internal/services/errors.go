package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFoundOrForbidden is returned both for a missing record and for a
	// record owned by another broker.
	ErrNotFoundOrForbidden = repository.ErrNotFound
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateEmail      = errors.New("a client with this email already exists")
	ErrUpstreamUnavailable = errors.New("service temporarily unavailable")
	ErrTimeout             = errors.New("request timed out")
	ErrUploadRejected      = errors.New("upload rejected")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

// ValidationError carries a message per offending input field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// storeErr folds repository failures into the service taxonomy. Not-found
// passes through untouched.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFoundOrForbidden
	case errors.Is(err, repository.ErrTimeout):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
}
