package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Session errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid token")

	// Validation errors, detected before anything is sent to the backend.
	ErrValidation = errors.New("validation error")

	// Balance errors.
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")

	// Content transfer errors.
	ErrUnsupportedSource = errors.New("unsupported content source")
)
