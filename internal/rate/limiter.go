package rate

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Config defines the outbound request budget per VTN host.
// A non-positive RequestsPerSecond disables limiting.
type Config struct {
	RequestsPerSecond float64
	Burst             int
}

// Enabled reports whether the config actually limits anything.
func (c Config) Enabled() bool {
	return c.RequestsPerSecond > 0
}

func newLimiter(cfg Config) *rate.Limiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

// Manager holds one token bucket per key (the VTN host).
type Manager struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults Config
}

func NewManager(defaults Config) *Manager {
	return &Manager{
		limiters: make(map[string]*rate.Limiter),
		defaults: defaults,
	}
}

// GetLimiter returns the bucket for key, creating it on first use.
func (m *Manager) GetLimiter(key string) *rate.Limiter {
	m.mu.RLock()
	if lim, ok := m.limiters[key]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if lim, ok := m.limiters[key]; ok {
		return lim
	}
	lim := newLimiter(m.defaults)
	m.limiters[key] = lim
	return lim
}

// Wait blocks until key has budget or ctx is done. With limiting disabled it
// returns immediately.
func (m *Manager) Wait(ctx context.Context, key string) error {
	if m == nil || !m.defaults.Enabled() {
		return nil
	}
	return m.GetLimiter(key).Wait(ctx)
}

// Allow reports whether key has budget right now, consuming it if so.
func (m *Manager) Allow(key string) bool {
	if m == nil || !m.defaults.Enabled() {
		return true
	}
	return m.GetLimiter(key).Allow()
}
