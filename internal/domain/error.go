package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRateLimited         = errors.New("too many requests")
	ErrJobTerminal         = errors.New("generation job already reached a terminal state")
	ErrGenerationFailed    = errors.New("generation job failed")
	ErrMentorNotAvailable  = errors.New("mentor is not available to this user")
	ErrInvalidExecContext  = errors.New("invalid database execution context")
	ErrReadDatabaseRow     = errors.New("failed to read database row")
	ErrProviderUnavailable = errors.New("media provider unavailable")
)
