package services

import (
	"errors"
)

// Service error taxonomy. Storage faults never cross this boundary raw:
// every repository error a handler can see is mapped to one of these.
var (
	ErrInvalidDirection   = errors.New("direction must be 1 (up) or -1 (down)")
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotPostAuthor      = errors.New("only the author can modify a post")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidResetCode   = errors.New("reset code is wrong or expired")

	// ErrStorageUnavailable wraps transaction failures. Safe to retry:
	// no partial ledger or score state is left behind.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
