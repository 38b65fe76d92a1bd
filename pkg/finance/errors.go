package finance

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the root of every invalid-scenario error returned by the projectors.
var ErrConfiguration = errors.New("invalid scenario configuration")

// ErrDegenerate marks a derived metric whose computation divided by zero or
// otherwise produced a non-finite value. It is carried on results, never returned.
var ErrDegenerate = errors.New("degenerate arithmetic")

// ConfigurationError describes the scenario field that failed validation.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func configErr(field string, value interface{}, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
