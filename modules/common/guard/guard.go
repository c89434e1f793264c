package guard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// 전역 재생성 lock 키 - 한 번에 재생성은 1건만
const regenLockKey = "aplus:regen:lock"

// RegenGuard - 재생성 admission lock
// Redis가 있으면 SETNX+TTL, 없으면 프로세스 내 mutex로 동작
type RegenGuard struct {
	redis *redis.Client
	ttl   time.Duration

	mu   sync.Mutex
	held bool
}

// New - RegenGuard 생성 (rdb는 nil 허용)
func New(rdb *redis.Client, ttl time.Duration) *RegenGuard {
	return &RegenGuard{
		redis: rdb,
		ttl:   ttl,
	}
}

// Acquire - lock 획득 시도. 이미 재생성이 진행 중이면 false
func (g *RegenGuard) Acquire(ctx context.Context) bool {
	if g.redis != nil {
		ok, err := g.redis.SetNX(ctx, regenLockKey, "1", g.ttl).Result()
		if err != nil {
			// Redis 장애 시에는 in-process lock으로 degrade
			log.Printf("⚠️ [Guard] Redis SetNX failed, falling back to local lock: %v", err)
			return g.acquireLocal()
		}
		return ok
	}

	return g.acquireLocal()
}

// Release - lock 해제
func (g *RegenGuard) Release(ctx context.Context) {
	if g.redis != nil {
		if err := g.redis.Del(ctx, regenLockKey).Err(); err != nil {
			log.Printf("⚠️ [Guard] Failed to release redis lock: %v", err)
		}
	}

	g.mu.Lock()
	g.held = false
	g.mu.Unlock()
}

func (g *RegenGuard) acquireLocal() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held {
		return false
	}
	g.held = true
	return true
}
