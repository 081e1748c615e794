package service

import "errors"

// The error strings below are the API contract: they surface verbatim in the
// GraphQL errors array, so clients match on them.
var (
	ErrDuplicateEmail   = errors.New("A user with this email already exists.")
	ErrPostUserNotFound = errors.New("User not found. Cannot post message.")
	ErrUserNotFound     = errors.New("User not found.")
	ErrRateLimited      = errors.New("Rate limit exceeded. You can post a maximum of 10 messages per hour.")
)
