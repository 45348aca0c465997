package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(&Config{MaxRequests: 3, WindowSize: time.Minute, CleanupInterval: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))

	// independent keys do not share a window
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestWindowSlides(t *testing.T) {
	l := NewLimiter(&Config{MaxRequests: 1, WindowSize: 20 * time.Millisecond, CleanupInterval: time.Minute})
	defer l.Stop()

	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("k"))
}

func TestCleanupDropsIdleKeys(t *testing.T) {
	l := NewLimiter(&Config{MaxRequests: 1, WindowSize: time.Millisecond, CleanupInterval: time.Hour})
	defer l.Stop()

	l.Allow("idle")
	time.Sleep(5 * time.Millisecond)
	l.cleanup()

	l.mu.Lock()
	_, ok := l.requests["idle"]
	l.mu.Unlock()
	assert.False(t, ok)
}
