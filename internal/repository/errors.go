package repository

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failed store call.
type Kind string

const (
	KindUnavailable Kind = "unavailable"
	KindThrottled   Kind = "throttled"
	KindMalformed   Kind = "malformed"
	KindInternal    Kind = "internal"
)

// Error is returned by every store adapter when a call fails.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap builds an Error, treating context cancellation as KindUnavailable
// and everything else as the given fallback kind.
func Wrap(op string, fallback Kind, err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewError(op, KindUnavailable, err)
	}
	return NewError(op, fallback, err)
}

func KindOf(err error) (Kind, bool) {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Kind, true
	}
	return "", false
}
