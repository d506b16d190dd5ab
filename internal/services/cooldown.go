package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CooldownLedger tracks the last accepted submission per source. Acquire reports
// whether the source is outside its cooldown window and, if so, records now as the
// new last-accepted time. A refused Acquire must not touch the stored time.
type CooldownLedger interface {
	Acquire(ctx context.Context, source string, now time.Time) (bool, error)
	Window() time.Duration
}

// MemoryCooldownLedger keeps the ledger in process memory. Entries are never evicted
// and are lost on restart.
type MemoryCooldownLedger struct {
	window time.Duration
	mu     sync.Mutex
	last   map[string]time.Time
}

func NewMemoryCooldownLedger(window time.Duration) *MemoryCooldownLedger {
	return &MemoryCooldownLedger{
		window: window,
		last:   make(map[string]time.Time),
	}
}

func (l *MemoryCooldownLedger) Window() time.Duration {
	return l.window
}

func (l *MemoryCooldownLedger) Acquire(_ context.Context, source string, now time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.last[source]; ok && now.Sub(last) < l.window {
		return false, nil
	}
	l.last[source] = now
	return true, nil
}

// Len is the number of sources seen so far.
func (l *MemoryCooldownLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}

// CooldownKeyPrefix is the Redis key prefix for feedback cooldown entries.
const CooldownKeyPrefix = "feedback:cooldown:"

// RedisCooldownLedger stores the ledger in Redis so every replica shares one window.
// The key expires with the window, so SET NX both checks and records atomically.
type RedisCooldownLedger struct {
	client *redis.Client
	window time.Duration
}

func NewRedisCooldownLedger(client *redis.Client, window time.Duration) *RedisCooldownLedger {
	return &RedisCooldownLedger{client: client, window: window}
}

func (l *RedisCooldownLedger) Window() time.Duration {
	return l.window
}

func (l *RedisCooldownLedger) Acquire(ctx context.Context, source string, now time.Time) (bool, error) {
	return l.client.SetNX(ctx, CooldownKeyPrefix+source, strconv.FormatInt(now.UnixMilli(), 10), l.window).Result()
}
