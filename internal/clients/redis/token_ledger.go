package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

// TokenLedger remembers consumed invitation tokens by jti until they expire.
type TokenLedger interface {
	// MarkConsumed claims jti atomically. It returns false when jti is already claimed.
	MarkConsumed(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	// Release drops a claim so the token can be used again.
	Release(ctx context.Context, jti string) error
	Close() error
}

const keyPrefix = "invitation_token:consumed:"

type redisLedger struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewTokenLedger connects to addr. An empty addr yields the in-memory ledger.
func NewTokenLedger(log *logger.Logger, addr string) (TokenLedger, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		log.Warn("REDIS_ADDR not set; using in-memory invitation token ledger")
		return NewMemoryLedger(), nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisLedger{
		log: log.With("service", "RedisTokenLedger"),
		rdb: rdb,
	}, nil
}

func (l *redisLedger) MarkConsumed(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if l == nil || l.rdb == nil {
		return false, fmt.Errorf("redis token ledger not initialized")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	ok, err := l.rdb.SetNX(ctx, keyPrefix+jti, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (l *redisLedger) Release(ctx context.Context, jti string) error {
	if l == nil || l.rdb == nil {
		return fmt.Errorf("redis token ledger not initialized")
	}
	if err := l.rdb.Del(ctx, keyPrefix+jti).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (l *redisLedger) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

type memoryLedger struct {
	mu   sync.Mutex
	now  func() time.Time
	seen map[string]time.Time
}

// NewMemoryLedger is a process-local ledger for single-instance deployments and tests.
func NewMemoryLedger() TokenLedger {
	return &memoryLedger{now: time.Now, seen: map[string]time.Time{}}
}

func (m *memoryLedger) MarkConsumed(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	if _, ok := m.seen[jti]; ok {
		return false, nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	m.seen[jti] = now.Add(ttl)
	return true, nil
}

func (m *memoryLedger) Release(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, jti)
	return nil
}

func (m *memoryLedger) Close() error { return nil }

func (m *memoryLedger) sweep(now time.Time) {
	for k, exp := range m.seen {
		if !now.Before(exp) {
			delete(m.seen, k)
		}
	}
}
