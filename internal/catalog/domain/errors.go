package domain

import "errors"

var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrAgentNotFound       = errors.New("agent not found")
	ErrInvalidFilter       = errors.New("invalid filter parameters")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrCredentialNotFound  = errors.New("credential not found")
	ErrNotAuthenticated    = errors.New("no authenticated user")
	ErrSavedSearchNotFound = errors.New("saved search not found")
	ErrInvalidStatus       = errors.New("invalid moderation status")
	ErrKeyNotFound         = errors.New("key not found in storage")
)
