package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinRateLimiter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewJoinRateLimiter(2, 10*time.Second)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("c1"))
	assert.True(t, rl.Allow("c1"))
	assert.False(t, rl.Allow("c1"))
	assert.True(t, rl.Allow("c2"), "limits are per connection")

	now = now.Add(11 * time.Second)
	assert.True(t, rl.Allow("c1"), "window slides")

	rl.Forget("c1")
	assert.True(t, rl.Allow("c1"))
	assert.True(t, rl.Allow("c1"))
}

func TestJoinRateLimiterDisabled(t *testing.T) {
	var nilLimiter *JoinRateLimiter
	assert.True(t, nilLimiter.Allow("c1"))
	nilLimiter.Forget("c1")

	rl := NewJoinRateLimiter(0, time.Second)
	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("c1"))
	}
}
