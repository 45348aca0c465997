package ratelimit

import (
	"sync"
	"time"
)

// Config tunes the sliding-window limiter.
type Config struct {
	MaxRequests     int           // requests allowed per window
	WindowSize      time.Duration // window length
	CleanupInterval time.Duration // how often idle keys are dropped
}

func DefaultConfig() *Config {
	return &Config{
		MaxRequests:     50,
		WindowSize:      time.Second,
		CleanupInterval: 5 * time.Minute,
	}
}

// Limiter is a per-key sliding window rate limiter. Keys are typically remote
// addresses of RPC callers.
type Limiter struct {
	cfg      *Config
	mu       sync.Mutex
	requests map[string][]time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		cfg:      cfg,
		requests: make(map[string][]time.Time),
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from key fits in the current window and
// records it if it does.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-l.cfg.WindowSize)

	l.mu.Lock()
	defer l.mu.Unlock()

	valid := l.requests[key][:0]
	for _, ts := range l.requests[key] {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	if len(valid) >= l.cfg.MaxRequests {
		l.requests[key] = valid
		return false
	}
	l.requests[key] = append(valid, now)
	return true
}

// Stop terminates the background cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup drops keys whose entire window has expired.
func (l *Limiter) cleanup() {
	cutoff := time.Now().Add(-l.cfg.WindowSize)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entries := range l.requests {
		expired := true
		for _, ts := range entries {
			if ts.After(cutoff) {
				expired = false
				break
			}
		}
		if expired {
			delete(l.requests, key)
		}
	}
}
