// Package cache stores short-lived responses of external services.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/redis/go-redis/v9"
	"github.com/siahsang/devconnector/internal/utils/collectionutils"
)

type Cache interface {
	// Get reports false when key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(addr, password string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           0,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		prefix: "devconnector:",
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, xerrors.New(err)
	}
	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a process local Cache used when Redis is not configured.
type Memory struct {
	entries *collectionutils.SafeMap[string, entry]
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: collectionutils.New[string, entry](),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		m.entries.Delete(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.entries.Store(key, entry{value: value, expiresAt: m.now().Add(ttl)})
	return nil
}
