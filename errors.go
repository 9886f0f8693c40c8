package extjson

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyID           = errors.New("extjson: handler id is empty")
	ErrIncompleteHandler = errors.New("extjson: handler is missing a callback")
	ErrUnknownPredefined = errors.New("extjson: unknown predefined handler")
)

// DuplicateIDError is returned by Build when two handlers share an id,
// including a user handler colliding with a predefined one.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("extjson: duplicate handler id %q", e.ID)
}

// UnknownIDError is returned while decoding in strict mode when a wrapper
// names an id no handler owns.
type UnknownIDError struct {
	ID string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("extjson: no handler registered for id %q", e.ID)
}

// PlainError reports a plain form a handler cannot accept or produce.
type PlainError struct {
	ID     string
	Reason string
	Err    error
}

func (e *PlainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extjson: %s: %s: %v", e.ID, e.Reason, e.Err)
	}
	return fmt.Sprintf("extjson: %s: %s", e.ID, e.Reason)
}

func (e *PlainError) Unwrap() error { return e.Err }
