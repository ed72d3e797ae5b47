package scrub

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned by Resolve when options fail
	// validation. It never surfaces at sanitize time.
	ErrInvalidConfiguration = errors.New("invalid sanitizer configuration")

	// ErrTypeMismatch is returned when an array or object sanitizer entry
	// point is called with a value of the wrong kind.
	ErrTypeMismatch = errors.New("value kind mismatch")
)

// ConfigurationError reports the first option that failed validation.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid sanitizer configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

// TypeMismatchError reports a sanitizer entry point called with the wrong kind.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("value kind mismatch: want %s, got %s", e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
