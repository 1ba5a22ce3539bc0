package usecase

import "errors"

// Domain errors for authentication operations.
var (
	// ErrEmailAlreadyExists indicates a signup with an email that is taken.
	ErrEmailAlreadyExists = errors.New("user with this email already exists")

	// ErrUsernameAlreadyExists indicates a signup with a username that is
	// taken.
	ErrUsernameAlreadyExists = errors.New("username already taken")

	// ErrUserNotFound indicates no user matched the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates email or password did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
