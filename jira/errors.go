package jira

import (
	"errors"
	"fmt"
	"strings"

	devhttp "github.com/randalmurphal/issueflow/http"
)

// Configuration errors.
var (
	ErrConfigURLRequired       = errors.New("jira url is required")
	ErrConfigAuthTypeRequired  = errors.New("jira auth type is required")
	ErrConfigAuthTypeInvalid   = errors.New("jira auth type must be api_token, basic, or pat")
	ErrConfigAPITokenAuth      = errors.New("api_token auth requires email and token")
	ErrConfigBasicAuth         = errors.New("basic auth requires username and password")
	ErrConfigPATAuth           = errors.New("pat auth requires token")
	ErrConfigAPIVersionInvalid = errors.New("api_version must be v2 or v3")
)

// Issue errors.
var (
	ErrIssueNotFound   = errors.New("jira issue not found")
	ErrIssueKeyInvalid = errors.New("invalid issue key format")
	ErrUnknownField    = errors.New("unknown issue field")
)

// Search errors.
var (
	ErrInvalidQuery = errors.New("invalid JQL query")
)

// Transition errors.
var (
	ErrTransitionNotFound   = errors.New("transition not found for issue")
	ErrTransitionIDRequired = errors.New("transition id is required")
)

// TransitionNotFoundError reports a requested status with no matching
// transition, along with what is currently available.
type TransitionNotFoundError struct {
	Key       string
	Requested string
	Available []string
}

// Error implements the error interface.
func (e *TransitionNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no transition to %q available for %s (no transitions available)", e.Requested, e.Key)
	}
	return fmt.Sprintf("no transition to %q available for %s; available: %s",
		e.Requested, e.Key, strings.Join(e.Available, ", "))
}

// Unwrap returns ErrTransitionNotFound.
func (e *TransitionNotFoundError) Unwrap() error {
	return ErrTransitionNotFound
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, devhttp.ErrNotFound) || errors.Is(err, ErrIssueNotFound)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, devhttp.ErrUnauthorized)
}

// IsRetryable reports whether the error is transient and should be retried.
func IsRetryable(err error) bool {
	return devhttp.IsRetryable(err)
}
