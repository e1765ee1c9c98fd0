package domain

import "errors"

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidToken         = errors.New("invalid verification token")
	ErrTokenExpired         = errors.New("verification token has expired")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrOwnerNotFound        = errors.New("user not found for conversation")
	ErrNotFound             = errors.New("record not found")
)
