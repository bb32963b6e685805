package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("wrong email or password")
	ErrPasswordTooLong    = errors.New("password is too long")

	ErrSessionNotFound = errors.New("session not found")
	ErrUnauthenticated = errors.New("no such session")

	ErrNoteNotFound   = errors.New("no such note")
	ErrNotImplemented = errors.New("not implemented")
)
