// Package api is the authenticated REST client of the SenseLib backend.
//
// # Overview
//
// Client is the single chokepoint for outbound calls. Before a request is
// sent it attaches the bearer token held by the session (if any), a request
// ID and JSON accept headers. After the response arrives:
//
//   - 2xx responses are passed through unchanged.
//   - 401 clears the session, moves the navigator to the login surface when
//     it is not already there, and returns the original *Error.
//   - Any other status is returned as *Error; transport errors are returned
//     verbatim. Nothing is retried.
//
// # Typed wrappers
//
// Resource[T] covers the paginated CRUD endpoints; Catalog bundles one
// Resource per backend collection. Auth, favorites, self-service and
// multipart endpoints are methods on Client.
//
// # Errors
//
// *Error matches common.ErrUnauthorized (401), common.ErrNotFound (404) and
// common.ErrValidation (400, 422) through errors.Is. Message renders any
// error as the one-line string shown to users.
package api
