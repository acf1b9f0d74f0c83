package service

import "errors"

// Domain errors. Handlers map these onto HTTP statuses with errors.Is; no
// service ever degrades a failure into an empty result.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTokenExpired       = errors.New("token expired")
	ErrDuplicate          = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("access denied")
)
