// Package apperr defines the error taxonomy shared by the service and
// repository layers. Handlers translate these into HTTP status codes in
// exactly one place; anything that is none of them is a server fault.
package apperr

import "errors"

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func NotFound(entity string) error { return &NotFoundError{Entity: entity} }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

func Forbidden(reason string) error { return &ForbiddenError{Reason: reason} }

func IsForbidden(err error) bool {
	var f *ForbiddenError
	return errors.As(err, &f)
}

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
