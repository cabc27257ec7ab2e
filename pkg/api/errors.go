package api

import "github.com/gompdf/pdftable/internal/errs"

var (
	// ErrConfiguration is matched by every ConfigurationError
	ErrConfiguration = errs.ErrConfiguration
	// ErrDuplicateKey is matched by every DuplicateKeyError
	ErrDuplicateKey = errs.ErrDuplicateKey
)

type (
	// ConfigurationError reports an invalid call or option
	ConfigurationError = errs.ConfigurationError
	// DuplicateKeyError reports two columns sharing a key
	DuplicateKeyError = errs.DuplicateKeyError
)
