package sticky

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces keys written by Redis.
const DefaultRedisPrefix = "studyform:sticky"

// Redis stores each default under "<prefix>:" + Key(form, field).
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	owned  bool
}

var _ Store = (*Redis)(nil)

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithTTL expires defaults after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// NewRedis wraps an existing client. The caller keeps ownership of client.
func NewRedis(client redis.UniversalClient, prefix string, opts ...RedisOption) *Redis {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	r := &Redis{client: client, prefix: prefix}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// OpenRedis dials the server described by a redis:// URL and pings it. The
// returned store closes the client on Close.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("sticky: redis url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("sticky: parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("sticky: ping redis: %w", err)
	}
	store := NewRedis(client, DefaultRedisPrefix)
	store.owned = true
	return store, nil
}

func (r *Redis) key(form, field string) string {
	return r.prefix + ":" + Key(form, field)
}

func (r *Redis) Get(ctx context.Context, form, field string) (string, bool, error) {
	if err := checkKey(form, field); err != nil {
		return "", false, err
	}
	v, err := r.client.Get(ctx, r.key(form, field)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sticky: get %s: %w", Key(form, field), err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, form, field, value string) error {
	if err := checkKey(form, field); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(form, field), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("sticky: set %s: %w", Key(form, field), err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, form, field string) error {
	if err := checkKey(form, field); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(form, field)).Err(); err != nil {
		return fmt.Errorf("sticky: delete %s: %w", Key(form, field), err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.owned {
		return r.client.Close()
	}
	return nil
}
