package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrRoleMismatch       = errors.New("invalid role")
	ErrForbidden          = errors.New("forbidden")
)
