// Package errors defines the failure taxonomy reported by every issueflow
// operation.
//
// Each failure carries a Kind:
//   - ValidationError: malformed or missing input, caught before any side effect
//   - ConfigurationError: missing or invalid environment configuration
//   - NotFoundError: issue, branch, or pull request does not exist remotely
//   - InvalidTransitionError: no available transition matches the requested status
//   - InvalidQueryError: malformed search query
//   - ConflictError: resource already exists or state conflict
//   - NotMergeableError: pull request blocked, with the reason
//   - NoChangesError: nothing to commit
//   - TransportError: network or timeout failure, the only retryable kind
//
// Example usage:
//
//	if key == "" {
//	    return errors.Validation("issue_key is required")
//	}
//
//	if errors.Is(err, errors.KindNotFound) {
//	    // Handle missing resource
//	}
//
//	if errors.IsRetryable(err) {
//	    // Caller may repeat the call
//	}
package errors
