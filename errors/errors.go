package errors

import (
	"errors"
	"strings"
)

// Kind classifies a failure for the caller of an operation.
type Kind string

// Error kinds. Every operation failure maps to exactly one of these.
const (
	KindValidation        Kind = "ValidationError"
	KindConfiguration     Kind = "ConfigurationError"
	KindNotFound          Kind = "NotFoundError"
	KindInvalidTransition Kind = "InvalidTransitionError"
	KindInvalidQuery      Kind = "InvalidQueryError"
	KindConflict          Kind = "ConflictError"
	KindNotMergeable      Kind = "NotMergeableError"
	KindNoChanges         Kind = "NoChangesError"
	KindTransport         Kind = "TransportError"

	// KindInternal covers failures that fit no other kind, such as an
	// unexpected response shape.
	KindInternal Kind = "InternalError"
)

// Kinds returns every kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindValidation, KindConfiguration, KindNotFound, KindInvalidTransition,
		KindInvalidQuery, KindConflict, KindNotMergeable, KindNoChanges,
		KindTransport, KindInternal,
	}
}

// Retryable reports whether repeating the same call may succeed.
func (k Kind) Retryable() bool {
	return k == KindTransport
}

// Error is a classified operation failure.
type Error struct {
	// Kind is the failure classification.
	Kind Kind

	// Op is the operation that failed (e.g., "create_branch_for_issue").
	Op string

	// Message is a human-readable description of what went wrong.
	Message string

	// Hint is an actionable suggestion (optional).
	Hint string

	// Err is the underlying cause (optional).
	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	if e.Err != nil && !strings.Contains(e.Message, e.Err.Error()) {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	if e.Hint != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Hint)
		sb.WriteString(")")
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Op == ""
}

// WithOp returns a copy of e tagged with the operation name.
func (e *Error) WithOp(op string) *Error {
	cp := *e
	cp.Op = op
	return &cp
}

// WithHint returns a copy of e carrying hint.
func (e *Error) WithHint(hint string) *Error {
	cp := *e
	cp.Hint = hint
	return &cp
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Validation creates a ValidationError.
func Validation(message string) *Error { return New(KindValidation, message) }

// Configuration creates a ConfigurationError.
func Configuration(message string) *Error { return New(KindConfiguration, message) }

// NotFound creates a NotFoundError.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// InvalidTransition creates an InvalidTransitionError.
func InvalidTransition(message string) *Error { return New(KindInvalidTransition, message) }

// InvalidQuery creates an InvalidQueryError.
func InvalidQuery(message string) *Error { return New(KindInvalidQuery, message) }

// Conflict creates a ConflictError.
func Conflict(message string) *Error { return New(KindConflict, message) }

// NotMergeable creates a NotMergeableError. The message names the blocking reason.
func NotMergeable(message string) *Error { return New(KindNotMergeable, message) }

// NoChanges creates a NoChangesError.
func NoChanges(message string) *Error { return New(KindNoChanges, message) }

// Transport wraps a network or timeout failure.
func Transport(message string, cause error) *Error {
	return Wrap(KindTransport, message, cause)
}

// KindOf returns the kind of the first *Error in err's chain,
// KindInternal for any other non-nil error, and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable reports whether the failure is transient.
func IsRetryable(err error) bool {
	return KindOf(err).Retryable()
}
