// Package pos manages the tills of a store. Each till is a Session holding
// its own cart and checkout state; the Manager creates, finds and expires
// them.
package pos

import (
	"context"
	"sync"
	"time"

	"grocery-pos/internal/checkout"
	"grocery-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators shared by every session.
type Dependencies struct {
	Catalog   Catalog
	Customers CustomerDirectory
	Coupons   CouponRegistry
	Checkout  checkout.Config
	Now       func() time.Time
}

// Manager owns the open sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	deps     Dependencies
	logger   zerolog.Logger
}

// NewManager creates a session manager.
func NewManager(deps Dependencies, logger zerolog.Logger) *Manager {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Checkout.Now == nil {
		deps.Checkout.Now = deps.Now
	}
	// One generator for all tills keeps order numbers unique across them.
	if deps.Checkout.OrderNumbers == nil {
		deps.Checkout.OrderNumbers = checkout.NewOrderNumberGenerator(deps.Checkout.Now)
	}

	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		deps:     deps,
		logger:   logger.With().Str("component", "pos-sessions").Logger(),
	}
}

// Create opens a new session with an empty cart.
func (m *Manager) Create() *Session {
	s := newSession(m.deps, m.logger)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info().Str("session_id", s.ID.String()).Msg("session opened")
	return s
}

// Get returns an open session.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

// Close discards a session. A session with a sale in flight cannot be closed.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return model.ErrSessionNotFound
	}
	if s.State() == checkout.StateSubmitting {
		return model.ErrCheckoutInProgress
	}
	delete(m.sessions, id)

	m.logger.Info().Str("session_id", id.String()).Msg("session closed")
	return nil
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap closes sessions untouched for longer than maxIdle and returns how
// many were closed. Sessions that are submitting are kept.
func (m *Manager) Reap(maxIdle time.Duration) int {
	cutoff := m.deps.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	reaped := 0
	for id, s := range m.sessions {
		last, state := s.idleSince()
		if state == checkout.StateSubmitting || !last.Before(cutoff) {
			continue
		}
		delete(m.sessions, id)
		reaped++
	}

	if reaped > 0 {
		m.logger.Info().Int("reaped", reaped).Int("open", len(m.sessions)).Msg("expired idle sessions")
	}
	return reaped
}

// RunReaper calls Reap every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap(maxIdle)
		}
	}
}
