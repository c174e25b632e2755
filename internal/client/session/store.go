package session

import "context"

// Store is one storage tier. Get returns ("", nil) for a missing key.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Batcher is implemented by tiers that can apply several writes as one
// unit, so other readers of the same backend never observe half of a
// token pair.
type Batcher interface {
	Apply(ctx context.Context, set map[string]string, del []string) error
}

// Notifier is implemented by tiers that can report writes, including
// writes made by other processes sharing the backend. The returned
// channel is closed when ctx is done.
type Notifier interface {
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}
