package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which operation keys have been handled so a
// retried request does not execute twice.
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL. It returns true when the
	// key is new and false when it was already recorded.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key has been recorded.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases the store's resources.
	Close() error
}

// IdempotencyConfig controls duplicate-request suppression.
type IdempotencyConfig struct {
	// TTL is how long a processed key stays recorded. Once it expires the
	// same key may execute again.
	TTL time.Duration

	// Enabled toggles the whole mechanism.
	Enabled bool
}

// DefaultIdempotencyConfig enables suppression with a 24 hour TTL.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
