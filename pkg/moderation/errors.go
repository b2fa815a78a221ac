package moderation

import (
	"errors"
	"fmt"
)

// Failure taxonomy for gated writes. Handlers map these to HTTP statuses;
// nothing below is retried automatically.
var (
	ErrUnauthorized    = errors.New("no verified identity")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("resource not found")
	ErrRedundantRole   = errors.New("requested role equals current role")
	ErrUnknownVoteType = errors.New("unknown vote type")
	ErrVoteConflict    = errors.New("vote update conflicted too many times")
)

// StoreError marks a persistence fault, a server-side problem as opposed to
// the client-correctable errors above.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
