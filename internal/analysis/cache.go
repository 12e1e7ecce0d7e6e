package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wonny/stockpilot/internal/quote"
	"github.com/wonny/stockpilot/pkg/logger"
	"github.com/wonny/stockpilot/pkg/redis"
)

// ComputationError wraps a failed in-flight computation as seen by every
// caller waiting on that identifier.
type ComputationError struct {
	Symbol string
	Cause  error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("analysis computation for %s: %v", e.Symbol, e.Cause)
}

func (e *ComputationError) Unwrap() error { return e.Cause }

// ComputeFunc produces a fresh report on cache miss
type ComputeFunc func(ctx context.Context) (*Report, error)

type cacheEntry struct {
	report    *Report
	createdAt time.Time
}

// Cache memoizes reports per identifier for a fixed TTL and guarantees
// at most one in-flight computation per identifier.
// ⭐ SSOT: 분석 결과 캐싱과 single-flight는 이 구조체에서만
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
	ttl     time.Duration

	l2     *redis.Cache // optional write-through layer, may be nil
	logger *logger.Logger
}

// NewCache creates a cache with the given TTL. l2 may be nil or disabled;
// the local map alone satisfies the cache contract.
func NewCache(ttl time.Duration, l2 *redis.Cache, log *logger.Logger) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		l2:      l2,
		logger:  log,
	}
}

// GetOrCompute returns the cached report for the identifier or runs
// compute exactly once for all concurrent callers. A failed computation
// is never cached; every waiter receives the same *ComputationError and
// the slot is released for a fresh attempt.
//
// The computation runs detached from the initiating caller's
// cancellation: a cancelled initiator abandons its interest but the
// in-flight work completes for the remaining waiters and is cached.
func (c *Cache) GetOrCompute(ctx context.Context, id quote.Identifier, compute ComputeFunc) (*Report, error) {
	key := id.String()

	if report, ok := c.lookup(key); ok {
		return report, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// 동시 대기자 중 첫 번째만 여기 도달: 만료 직후 재확인
		if report, ok := c.lookup(key); ok {
			return report, nil
		}

		computeCtx := context.WithoutCancel(ctx)

		if report, ok := c.lookupL2(computeCtx, key); ok {
			c.store(key, report)
			return report, nil
		}

		report, err := compute(computeCtx)
		if err != nil {
			return nil, err
		}

		c.store(key, report)
		c.storeL2(computeCtx, key, report)

		return report, nil
	})
	if err != nil {
		return nil, &ComputationError{Symbol: key, Cause: err}
	}

	if shared {
		c.logger.WithField("symbol", key).Debug("Joined in-flight computation")
	}

	return v.(*Report), nil
}

// Invalidate drops the local entry for an identifier
func (c *Cache) Invalidate(id quote.Identifier) {
	c.mu.Lock()
	delete(c.entries, id.String())
	c.mu.Unlock()
}

// lookup returns an unexpired entry. Expiry is checked lazily at read
// time; an expired entry is dropped and treated as a miss.
func (c *Cache) lookup(key string) (*Report, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Since(entry.createdAt) >= c.ttl {
		c.mu.Lock()
		// 다른 고루틴이 이미 새 엔트리를 넣었을 수 있음
		if cur, still := c.entries[key]; still && cur.createdAt == entry.createdAt {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.report, true
}

func (c *Cache) store(key string, report *Report) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{report: report, createdAt: time.Now()}
	c.mu.Unlock()
}

func (c *Cache) lookupL2(ctx context.Context, key string) (*Report, bool) {
	if c.l2 == nil || !c.l2.Enabled() {
		return nil, false
	}

	var report Report
	found, err := c.l2.Get(ctx, key, &report)
	if err != nil {
		c.logger.WithError(err).WithField("symbol", key).Warn("Redis cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}

	return &report, true
}

func (c *Cache) storeL2(ctx context.Context, key string, report *Report) {
	if c.l2 == nil || !c.l2.Enabled() {
		return
	}

	if err := c.l2.Set(ctx, key, report, c.ttl); err != nil {
		c.logger.WithError(err).WithField("symbol", key).Warn("Redis cache write failed")
	}
}
