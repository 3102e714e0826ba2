// Package kv is the client's durable key/value store: a single SQLite table
// holding the connectivity flag, the offline queue, and the signed-in
// session across restarts.
package kv

import "context"

// Repository is the durable storage boundary. Get returns (nil, nil) for a
// missing key; Remove of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
