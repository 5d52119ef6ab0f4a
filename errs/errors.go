// SPDX-License-Identifier: GPL-3.0-only

// Package errs contains sentinel errors used across layers for stable error
// mapping. Store and provider failures are coerced to ErrInternal at the
// data-access boundary; no structured detail crosses it.
package errs

import "errors"

var (
	// ErrInvalidCredentials is returned on login when the username is
	// unknown or the password does not verify. The two causes are
	// deliberately indistinguishable to avoid username enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound indicates a missing account row, including the
	// orphaned-session case during token validation.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists indicates an account creation against a taken
	// username.
	ErrUsernameExists = errors.New("username already exists")

	// ErrSessionExpired covers both a timed-out session and a token that
	// never existed. Callers cannot distinguish the two.
	ErrSessionExpired = errors.New("session expired")

	// ErrForbidden indicates a valid session with an insufficient role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInternal wraps any store or provider failure not otherwise
	// classified.
	ErrInternal = errors.New("internal server error")
)
