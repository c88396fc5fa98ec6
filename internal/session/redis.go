package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "wpconn:dashboard:session:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

// RedisStore keeps sessions as JSON values that expire with the session.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return NewRedisStoreWithClient(redis.NewClient(opts))
}

func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Ping verifies Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return r.Delete(ctx, s.ID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+s.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	res, err := r.client.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(res), &s); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

// Prune is a no-op: Redis expires session keys on its own.
func (r *RedisStore) Prune(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisStore) Count(ctx context.Context) (int64, error) {
	var n int64
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan sessions: %w", err)
	}
	return n, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
