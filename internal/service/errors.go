package service

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// kindError carries a user-facing message while still matching one of the
// sentinel errors above with errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string        { return e.msg }
func (e *kindError) Is(target error) bool { return target == e.kind }

func invalid(msg string) error      { return &kindError{kind: ErrInvalidInput, msg: msg} }
func notFound(msg string) error     { return &kindError{kind: ErrNotFound, msg: msg} }
func conflict(msg string) error     { return &kindError{kind: ErrConflict, msg: msg} }
func unauthorized(msg string) error { return &kindError{kind: ErrUnauthorized, msg: msg} }
