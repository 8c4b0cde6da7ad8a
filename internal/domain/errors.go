package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrTabNotFound signals an unknown content tab.
	ErrTabNotFound = fmt.Errorf("tab %w", ErrNotFound)
	// ErrItemNotFound signals a missing content item.
	ErrItemNotFound = fmt.Errorf("item %w", ErrNotFound)
	// ErrSessionNotFound signals an unknown or expired search session.
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)

	// ErrInvalidContent signals a malformed static collection.
	ErrInvalidContent = errors.New("invalid content")
	// ErrSourceUnavailable signals that collection bytes could not be read.
	ErrSourceUnavailable = errors.New("content source unavailable")
	// ErrNotLoaded signals a provider that has no data yet.
	ErrNotLoaded = errors.New("content not loaded")
	// ErrInvalidRequest signals bad client input.
	ErrInvalidRequest = errors.New("invalid request")
)

// LoadError carries the content type whose collection failed to load.
type LoadError struct {
	Type string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s", e.Type, e.Err.Error())
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewLoadError wraps err with the content type name.
func NewLoadError(contentType string, err error) error {
	return &LoadError{Type: contentType, Err: err}
}
