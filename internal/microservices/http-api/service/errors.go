package service

import "errors"

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrInvalidState   = errors.New("invalid or expired sign-in state")
	ErrOAuthDisabled  = errors.New("google sign-in is not configured")
	ErrUserNotFound   = errors.New("user not found")
	ErrTapaNotFound   = errors.New("tapa not found")
	ErrVenueNotFound  = errors.New("venue not found")
	ErrEventNotFound  = errors.New("event not found")
	ErrMissingProfile = errors.New("google account has no email")
)
