// Package metadata persists small key/value facts about the local client,
// such as the session token that stands in for the browser login flag.
package metadata

import (
	"context"
)

// Repository is a string key/value store. Get returns ("", false, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
