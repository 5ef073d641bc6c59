// Package common defines shared constants and sentinel errors used across
// the server and client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Directory errors. Every one of them is terminal for the operation that
	// raised it.
	ErrorBadRequest    = errors.New("bad request")
	ErrorNotFound      = errors.New("not found")
	ErrorNotAuthorized = errors.New("not authorized")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
