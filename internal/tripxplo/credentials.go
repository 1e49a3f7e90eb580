package tripxplo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenSource hands out a bearer token, fetching or refreshing it as needed.
// Invalidate drops the cached token so the next Token call logs in again.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate(ctx context.Context) error
}

// LoginFunc obtains a fresh token from the API.
type LoginFunc func(ctx context.Context) (string, error)

// MemoryTokenSource caches the token in process memory.
type MemoryTokenSource struct {
	mu      sync.Mutex
	login   LoginFunc
	ttl     time.Duration
	token   string
	expires time.Time
	now     func() time.Time
}

// NewMemoryTokenSource caches tokens from login for ttl. A zero ttl caches
// until Invalidate.
func NewMemoryTokenSource(login LoginFunc, ttl time.Duration) *MemoryTokenSource {
	return &MemoryTokenSource{login: login, ttl: ttl, now: time.Now}
}

func (s *MemoryTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && (s.ttl <= 0 || s.now().Before(s.expires)) {
		return s.token, nil
	}

	token, err := s.login(ctx)
	if err != nil {
		s.token = ""
		return "", err
	}
	s.token = token
	s.expires = s.now().Add(s.ttl)
	return token, nil
}

func (s *MemoryTokenSource) Invalidate(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// DefaultTokenKey is the Redis key holding the shared token.
const DefaultTokenKey = "tripxplo:token"

// RedisTokenSource shares one token between every process using the same
// Redis, expiring it with the key's TTL.
type RedisTokenSource struct {
	rdb   *redis.Client
	key   string
	login LoginFunc
	ttl   time.Duration
}

func NewRedisTokenSource(rdb *redis.Client, key string, login LoginFunc, ttl time.Duration) *RedisTokenSource {
	if key == "" {
		key = DefaultTokenKey
	}
	return &RedisTokenSource{rdb: rdb, key: key, login: login, ttl: ttl}
}

func (s *RedisTokenSource) Token(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, s.key).Result()
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("reading cached token: %w", err)
	}

	token, err = s.login(ctx)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("caching token: %w", err)
	}
	return token, nil
}

func (s *RedisTokenSource) Invalidate(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("invalidating token: %w", err)
	}
	return nil
}

// NewRedisClient connects to the token cache.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}
