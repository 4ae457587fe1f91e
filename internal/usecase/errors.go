package usecase

import "errors"

var (
	// ErrInvalidInput indicates a malformed or missing required parameter.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIDExhausted indicates identifier generation kept colliding after
	// the bounded number of retries.
	ErrIDExhausted = errors.New("course id generation exhausted retries")
)
