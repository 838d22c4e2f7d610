// Package common contains shared constants, sentinel errors and small helpers
// used across the SenseLib client packages.
package common

// HTTP headers set on every outbound backend request.
const (
	AuthorizationHeaderName = "Authorization"
	BearerScheme            = "Bearer"
	RequestIDHeaderName     = "X-Request-ID"
)

// Metadata keys persisted in the local store.
const (
	MetaSessionToken = "session_token"
	MetaIdentity     = "identity"
)
