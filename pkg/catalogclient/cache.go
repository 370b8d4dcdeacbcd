package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const doctorTTL = 5 * time.Minute

// JSONCache is the subset of a key/value store the read-through cache needs.
// ErrCacheMiss is returned for absent keys.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

var ErrCacheMiss = errors.New("cache miss")

type DoctorGetter interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
}

// CachedDoctors caches doctor lookups. Medicines are deliberately left out:
// their prices must be read live by the cart and order services.
type CachedDoctors struct {
	Next  DoctorGetter
	Cache JSONCache
	TTL   time.Duration
}

func (c *CachedDoctors) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	key := "doctor:" + id.String()

	var d Doctor
	err := c.Cache.GetJSON(ctx, key, &d)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logging.FromContext(ctx).Warn("doctor_cache_get_failed", "doctor_id", id, "error", err)
	}

	fresh, err := c.Next.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	ttl := c.TTL
	if ttl == 0 {
		ttl = doctorTTL
	}
	if err := c.Cache.SetJSON(ctx, key, fresh, ttl); err != nil {
		logging.FromContext(ctx).Warn("doctor_cache_set_failed", "doctor_id", id, "error", err)
	}
	return fresh, nil
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
