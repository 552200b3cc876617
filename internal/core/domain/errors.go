package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrProjectNotFound  = fmt.Errorf("project %w", ErrNotFound)
	ErrDomainNotFound   = fmt.Errorf("domain %w", ErrNotFound)
	ErrAnalysisNotFound = fmt.Errorf("analysis %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrUserExists         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSelfDelete         = errors.New("you cannot delete your own account")
	ErrSessionRevoked     = errors.New("session revoked")

	ErrLLMKeyMissing   = errors.New("llm provider key is not configured")
	ErrUpstream        = errors.New("llm provider request failed")
	ErrMalformedOutput = errors.New("unexpected llm output format")
	ErrEmptyOutput     = errors.New("empty llm response")
	ErrAnalysisRunning = errors.New("an analysis is already running for this project")
	ErrNoSuggestions   = errors.New("no result from any provider")
)

// InvalidInput wraps ErrInvalidInput with a client facing reason.
func InvalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}
