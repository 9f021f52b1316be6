// Package session serializes access to individual pings. The engine is
// single-writer per ping; Manager extends that guarantee to hosts that
// receive concurrent requests (the HTTP adapter), and optionally across
// replicas via a distributed locker.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wellping/wellping-sub000/internal/logging"
	"github.com/wellping/wellping-sub000/pkg/ports"
)

const distributedLockTTL = 30 * time.Second

// lockEntry holds one ping's mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager hands out per-ping locks, garbage-collecting them by reference
// count once no request holds or waits on them.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*lockEntry

	locker ports.Locker
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking on top of the in-process locks.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a per-ping lock manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) acquire(pingID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.locks[pingID]
	if !ok {
		entry = &lockEntry{}
		m.locks[pingID] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(pingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.locks[pingID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, pingID)
	}
}

// WithLock runs fn while holding the lock for the ping, acquiring the
// distributed lock as well when one is configured.
func (m *Manager) WithLock(ctx context.Context, pingID string, fn func(context.Context) error) error {
	entry := m.acquire(pingID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(pingID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, pingID, distributedLockTTL)
		if err != nil {
			return fmt.Errorf("acquiring distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"ping_id", pingID, "err", err)
			}
		}()
	}

	return fn(ctx)
}
