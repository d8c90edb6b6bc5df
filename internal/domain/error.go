package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrProviderUnavailable = errors.New("completion provider unavailable")
	ErrStoreUnavailable    = errors.New("history store unavailable")
	ErrEmptyCompletion     = errors.New("completion returned no content")
)
