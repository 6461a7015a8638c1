package repository

import "errors"

// Remote-call failures are converted to one of these at the repository
// boundary; raw driver errors never reach the handlers.
var (
	ErrRemoteUnavailable  = errors.New("note store is unreachable")
	ErrWriteFailed        = errors.New("note store rejected the write")
	ErrNotFound           = errors.New("note not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
