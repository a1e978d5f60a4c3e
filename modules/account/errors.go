package account

import "errors"

var (
	ErrNotLoggedIn        = errors.New("user is not logged in")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrForbidden          = errors.New("unauthorized")
	ErrCardNotFound       = errors.New("the specified card was not found")
	ErrInvalidProviders   = errors.New("account.invalid_provider_catalog")
)
