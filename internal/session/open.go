package session

import (
	"context"
	"fmt"
	"time"

	"wpconn-dashboard/internal/config"
	"wpconn-dashboard/internal/database"

	"go.uber.org/zap"
)

// OpenStore builds the store selected by SESSION_STORE.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.SessionStore {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreSQLite, config.StorePostgres:
		db, err := database.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case config.StoreRedis:
		store := NewRedisStore(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			UseTLS:   cfg.RedisTLS,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, err
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
