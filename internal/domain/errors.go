package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the services return for a caller mistake wraps
// exactly one of these; anything else is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a caller-facing message and the kind it belongs to.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Msg: msg} }

func Validationf(format string, args ...any) error { return Validation(fmt.Sprintf(format, args...)) }
func NotFoundf(format string, args ...any) error   { return NotFound(fmt.Sprintf(format, args...)) }

var (
	ErrUserNotFound     = NotFound("user not found")
	ErrProductNotFound  = NotFound("product not found")
	ErrOrderNotFound    = NotFound("order not found")
	ErrMessageNotFound  = NotFound("message not found")
	ErrEmailTaken       = Validation("User already exist with this email")
	ErrDuplicateProduct = Conflict("you have already added this product")
)

// KindOf returns the kind err belongs to, or nil for internal errors.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
