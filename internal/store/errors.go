package store

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error classes. Backends wrap driver errors with one of these via Wrap so
// callers can branch with errors.Is without knowing the backend.
var (
	ErrUnavailable = errors.New("store unavailable")
	ErrConstraint  = errors.New("constraint violation")
	ErrNotFound    = errors.New("record not found")
	ErrPermission  = errors.New("permission denied")
	ErrInUse       = errors.New("record in use")
)

// Error is a classified store failure.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap classifies err as kind. A nil err yields nil.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// New returns a classified error without an underlying cause.
func New(kind error, op string) error {
	return &Error{Kind: kind, Op: op}
}

// Classified reports whether err already carries a store error class.
func Classified(err error) bool {
	var se *Error
	return errors.As(err, &se)
}

// IsTransient reports whether err looks like a connectivity or deadline failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// Retryable reports whether a caller may re-attempt the operation unchanged.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Kind returns the error class of err, or nil when unclassified.
func Kind(err error) error {
	for _, k := range []error{ErrUnavailable, ErrConstraint, ErrNotFound, ErrPermission, ErrInUse} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
