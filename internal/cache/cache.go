package cache

import "context"

// Store is a shared key-value result cache. Entries expire on the TTL the
// backend was configured with; there is no explicit invalidation hook.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
