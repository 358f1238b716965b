package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/treadline/backend/internal/domain/shared"
	"github.com/treadline/backend/internal/infrastructure/config"
)

// NewIdempotencyStore creates the idempotency store selected by configuration.
// Returns nil when duplicate-request protection is disabled.
func NewIdempotencyStore(cfg *config.Config, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Idempotency.Enabled {
		return nil, nil
	}

	switch cfg.Idempotency.Backend {
	case "redis":
		store, err := NewRedisIdempotencyStore(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis idempotency store: %w", err)
		}
		logger.Info("idempotency store initialized",
			zap.String("backend", "redis"),
			zap.String("addr", cfg.Redis.Addr()),
		)
		return store, nil

	case "memory":
		logger.Warn("using in-memory idempotency store; duplicate-request state is not shared across instances")
		return NewInMemoryIdempotencyStore(), nil

	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Idempotency.Backend)
	}
}
