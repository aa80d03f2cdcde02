package services

import "errors"

var (
	// ErrSessionNotFound indicates an editor session id that is not live.
	ErrSessionNotFound = errors.New("editor session not found")

	// ErrPageNotFound indicates a page id or slug with no stored page.
	ErrPageNotFound = errors.New("page not found")

	// ErrLayoutNotFound indicates a library layout id with no stored layout.
	ErrLayoutNotFound = errors.New("library layout not found")

	// ErrInvalidInput indicates a request that is missing required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAuthNotConfigured indicates missing or half-set editor credentials.
	ErrAuthNotConfigured = errors.New("editor authentication is not configured")
)
