package domain

import "errors"

var (
	ErrValidation = errors.New("validation failed")

	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("wrong credentials")

	ErrUnauthenticated = errors.New("no token provided")
	ErrInvalidToken    = errors.New("token invalid")
	ErrForbidden       = errors.New("you are not the author")

	ErrPostNotFound = errors.New("post not found")

	ErrUnsupportedMediaType = errors.New("file type not allowed")
	ErrPayloadTooLarge      = errors.New("file too large")
	ErrCoverNotFound        = errors.New("cover not found")
)
