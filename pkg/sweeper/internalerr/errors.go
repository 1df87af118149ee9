package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInconsistentCount = errors.New("inconsistent mine count")
)
