package domain

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrValidation marks a draft or patch rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned for unknown product identifiers or a missing session.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a durable storage read/write failure.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError carries per-field messages, keyed by the json field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add records a message for field, keeping the first one reported.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPersistence reports whether err is (or wraps) ErrPersistence.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
