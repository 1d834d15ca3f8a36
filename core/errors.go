package core

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrWrongTokenKind     = errors.New("wrong token kind")
	ErrTokenReused        = errors.New("refresh token is stale or already used")
	ErrNoToken            = errors.New("no token provided")
	ErrBookNotFound       = errors.New("book not found")
	ErrBookExists         = errors.New("book with the same title and author already exists")
)
