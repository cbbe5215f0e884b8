package port

import "context"

type CacheRepository interface {
	// SetIdempotency claims a request key, returns false if it is already claimed
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency frees a key so the same request can be retried
	ReleaseIdempotency(ctx context.Context, key string) error
}
