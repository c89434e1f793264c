package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegenGuard_LocalLock(t *testing.T) {
	g := New(nil, time.Minute)
	ctx := context.Background()

	assert.True(t, g.Acquire(ctx))
	// 이미 진행 중이면 거절
	assert.False(t, g.Acquire(ctx))

	g.Release(ctx)
	assert.True(t, g.Acquire(ctx))
}

func TestRegenGuard_ReleaseWithoutAcquire(t *testing.T) {
	g := New(nil, time.Minute)
	ctx := context.Background()

	// 획득 없이 해제해도 안전
	g.Release(ctx)
	assert.True(t, g.Acquire(ctx))
}
