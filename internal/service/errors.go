package service

import "errors"

// Domain error taxonomy. Services wrap these with fmt.Errorf("%w: detail")
// and the HTTP layer maps them to status codes.
var (
	ErrValidation        = errors.New("validation")         // 400
	ErrUnauthorized      = errors.New("unauthorized")       // 401
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrNotFound          = errors.New("not found")          // 404
	ErrConflict          = errors.New("conflict")           // 409
	ErrInsufficientStock = errors.New("insufficient stock") // 400
)
