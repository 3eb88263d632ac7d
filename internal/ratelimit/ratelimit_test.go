package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterWindow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "1.2.3.4"))
	assert.True(t, l.Allow(ctx, "1.2.3.4"))
	assert.False(t, l.Allow(ctx, "1.2.3.4"))
	assert.True(t, l.Allow(ctx, "5.6.7.8"))

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow(ctx, "1.2.3.4"))
	assert.Len(t, l.buckets, 1)
}

func TestDisabledLimiters(t *testing.T) {
	ctx := context.Background()
	assert.True(t, NoopLimiter{}.Allow(ctx, "k"))

	off := NewMemoryLimiter(0, time.Minute)
	for i := 0; i < 5; i++ {
		assert.True(t, off.Allow(ctx, "k"))
	}
	assert.True(t, NewMemoryLimiter(1, time.Minute).Allow(ctx, ""))
}

func TestRedisLimiterKey(t *testing.T) {
	assert.Equal(t, "jobx:ratelimit:login:1.2.3.4", NewRedisLimiter(nil, 5, time.Minute, "jobx:ratelimit:login").key("1.2.3.4"))
	assert.Equal(t, "jobx:ratelimit:login:1.2.3.4", NewRedisLimiter(nil, 5, time.Minute, "jobx:ratelimit:login:").key("1.2.3.4"))
	assert.Equal(t, "1.2.3.4", NewRedisLimiter(nil, 5, time.Minute, "").key("1.2.3.4"))
}
