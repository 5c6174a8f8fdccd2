package usecase

import "errors"

// Sentinel errors services wrap so transport layers can map causes to status
// codes without knowing repository details.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
