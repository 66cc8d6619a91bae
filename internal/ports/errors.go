package ports

import (
	"errors"
	"fmt"
)

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Store Specific Errors. The specific errors all wrap
	// ErrStoreUnavailable, so callers can match any store failure with a
	// single errors.Is check.
	ErrStoreUnavailable = errors.New("backing store is unavailable")
	ErrDBConnection     = fmt.Errorf("database connection error: %w", ErrStoreUnavailable)
	ErrQueryFailed      = fmt.Errorf("database query failed: %w", ErrStoreUnavailable)
	ErrUpdateFailed     = fmt.Errorf("database update failed: %w", ErrStoreUnavailable)

	// Ingestion Specific Errors
	ErrExchangeUnavailable  = errors.New("exchange API is unavailable")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")
)
