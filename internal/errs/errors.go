// Package errs defines the error taxonomy shared by the layout,
// pagination and document packages.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned for invalid input wraps one of these.
var (
	ErrConfiguration = errors.New("pdftable: configuration error")
	ErrDuplicateKey  = errors.New("pdftable: duplicate column key")
)

// ConfigurationError reports missing or malformed input to a call.
type ConfigurationError struct {
	Op     string // operation name, e.g. "AddTable", "RegisterHeader"
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("pdftable.%s: %s", e.Op, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// DuplicateKeyError reports two columns of one table sharing a key.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("pdftable.AddTable: column key %q is not unique", e.Key)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// Configuration creates a ConfigurationError for op.
func Configuration(op, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
