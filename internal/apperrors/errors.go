package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error so callers can render a precise message
// without parsing error strings.
type Kind string

const (
	KindPeriodClosed            Kind = "PERIOD_CLOSED"
	KindImbalanced              Kind = "IMBALANCED"
	KindEmptyTransaction        Kind = "EMPTY_TRANSACTION"
	KindBothOrNeitherSide       Kind = "BOTH_OR_NEITHER_SIDE"
	KindTypeRuleViolation       Kind = "TYPE_RULE_VIOLATION"
	KindAccountTypeMismatch     Kind = "ACCOUNT_TYPE_MISMATCH"
	KindInvalidPrecision        Kind = "INVALID_PRECISION"
	KindSchemaVersionMismatch   Kind = "SCHEMA_VERSION_MISMATCH"
	KindInvalidStatusTransition Kind = "INVALID_STATUS_TRANSITION"
	KindTransactionLocked       Kind = "TRANSACTION_LOCKED"
	KindAlreadyReversed         Kind = "ALREADY_REVERSED"
	KindBudgetExceeded          Kind = "BUDGET_EXCEEDED"
	KindPermissionDenied        Kind = "PERMISSION_DENIED"
	KindLockTimeout             Kind = "LOCK_TIMEOUT"
	KindDuplicateSubmission     Kind = "DUPLICATE_SUBMISSION"
	KindNegativeStock           Kind = "NEGATIVE_STOCK"
	KindNotFound                Kind = "NOT_FOUND"
	KindInternal                Kind = "INTERNAL"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Error is the structured error surfaced by the posting engine. It carries
// the taxonomy kind, a human-readable message and enough context (account id,
// scope, statuses) for the caller to render the failure precisely.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match two engine errors of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an engine error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an engine error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an engine error of the given kind wrapping a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithContext attaches a context key/value pair and returns the error for chaining.
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// KindOf extracts the taxonomy kind from an error chain. Plumbing errors that
// never got a kind come back as KindInternal, ErrNotFound as KindNotFound.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindInternal
}

// IsRetryable reports whether the caller may retry the same request.
func IsRetryable(err error) bool {
	return KindOf(err) == KindLockTimeout
}

// Violation is a single failed validation check. LineIndex points at the
// offending line when the check is line-scoped.
type Violation struct {
	Kind      Kind              `json:"kind"`
	Message   string            `json:"message"`
	LineIndex *int              `json:"lineIndex,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

// ValidationError aggregates every violation found in one validation pass.
// Nothing is swallowed: the caller receives the complete report.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Violations[0].Kind, e.Violations[0].Message)
	}
	return fmt.Sprintf("validation failed with %d violations", len(e.Violations))
}

// HasKind reports whether any violation carries the given kind.
func (e *ValidationError) HasKind(kind Kind) bool {
	for _, v := range e.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// NewAppError builds a generic internal error with an HTTP-ish status code in
// the message chain. Kept for repository plumbing failures.
func NewAppError(code int, message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf("[%d] %s", code, message), Err: err}
}

// NewNotFoundError builds a not-found engine error wrapping ErrNotFound so
// errors.Is(err, ErrNotFound) keeps working.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: ErrNotFound}
}
