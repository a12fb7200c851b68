package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnbalanced indicates that the debit and credit totals of an entry differ.
var ErrUnbalanced = errors.New("total debit and credit must be equal")

// ErrNoLines indicates that an entry has no lines to post.
var ErrNoLines = errors.New("entry has no lines")

// ErrAlreadyPosted indicates an attempt to post an entry that is already posted.
var ErrAlreadyPosted = errors.New("entry already posted")

// ErrStateConflict indicates an operation rejected because of the current state of a resource.
var ErrStateConflict = errors.New("operation not allowed in current state")

// ErrConcurrencyConflict indicates the store could not serialize the operation; the caller may retry.
var ErrConcurrencyConflict = errors.New("concurrent update conflict")

// ErrStorage indicates a failure of the underlying store.
var ErrStorage = errors.New("storage failure")

// ErrUnauthorized indicates a missing or invalid identity.
var ErrUnauthorized = errors.New("unauthorized")

// Kind is the stable, client facing name of an error category.
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindValidation          Kind = "VALIDATION"
	KindUnbalanced          Kind = "UNBALANCED"
	KindNoLines             Kind = "NO_LINES"
	KindDuplicate           Kind = "DUPLICATE"
	KindAlreadyPosted       Kind = "ALREADY_POSTED"
	KindStateConflict       Kind = "STATE_CONFLICT"
	KindConcurrencyConflict Kind = "CONCURRENCY_CONFLICT"
	KindStorage             Kind = "STORAGE_FAILURE"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindRateLimited         Kind = "RATE_LIMITED"
)

var kindSentinels = map[Kind]error{
	KindNotFound:            ErrNotFound,
	KindValidation:          ErrValidation,
	KindUnbalanced:          ErrUnbalanced,
	KindNoLines:             ErrNoLines,
	KindDuplicate:           ErrDuplicate,
	KindAlreadyPosted:       ErrAlreadyPosted,
	KindStateConflict:       ErrStateConflict,
	KindConcurrencyConflict: ErrConcurrencyConflict,
	KindStorage:             ErrStorage,
	KindUnauthorized:        ErrUnauthorized,
}

// kindOrder is the lookup order used by KindOf; more specific kinds come first.
var kindOrder = []Kind{
	KindUnbalanced,
	KindNoLines,
	KindAlreadyPosted,
	KindConcurrencyConflict,
	KindNotFound,
	KindDuplicate,
	KindValidation,
	KindStateConflict,
	KindUnauthorized,
	KindStorage,
}

// AppError carries a Kind, a human readable message, optional field level details and the cause.
type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && !isSentinel(e.Err) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's kind.
func (e *AppError) Is(target error) bool {
	if sentinel, ok := kindSentinels[e.Kind]; ok && sentinel == target {
		return true
	}
	// Posting preconditions and duplicates are validation failures too.
	if target == ErrValidation && (e.Kind == KindUnbalanced || e.Kind == KindNoLines || e.Kind == KindDuplicate) {
		return true
	}
	// AlreadyPosted is a state failure too.
	if target == ErrStateConflict && e.Kind == KindAlreadyPosted {
		return true
	}
	return false
}

func isSentinel(err error) bool {
	for _, s := range kindSentinels {
		if err == s {
			return true
		}
	}
	return false
}

// NewAppError creates an AppError of the given kind wrapping err.
func NewAppError(kind Kind, message string, err error) *AppError {
	if err == nil {
		err = kindSentinels[kind]
	}
	return &AppError{Kind: kind, Message: message, Err: err}
}

// NewNotFoundError creates a NotFound AppError.
func NewNotFoundError(message string) *AppError {
	return NewAppError(KindNotFound, message, ErrNotFound)
}

// NewValidationError creates a Validation AppError with optional field details.
func NewValidationError(message string, fields map[string]string) *AppError {
	e := NewAppError(KindValidation, message, ErrValidation)
	e.Fields = fields
	return e
}

// NewStateError creates a StateConflict AppError.
func NewStateError(message string) *AppError {
	return NewAppError(KindStateConflict, message, ErrStateConflict)
}

// NewStorageError wraps an infrastructure failure.
func NewStorageError(message string, err error) *AppError {
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		return &AppError{Kind: KindStorage, Message: message + ": store did not respond in time", Err: err}
	}
	return NewAppError(KindStorage, message, err)
}

// KindOf classifies any error. Unknown errors are storage failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	for _, k := range kindOrder {
		if errors.Is(err, kindSentinels[k]) {
			return k
		}
	}
	return KindStorage
}

// FieldsOf returns the field level details attached to err, if any.
func FieldsOf(err error) map[string]string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// IsRetryable reports whether the operation that produced err may be attempted again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// IsTimeout reports whether err was caused by a context deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
