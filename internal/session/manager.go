// Package session keeps the in-memory conversation sessions and serializes
// access per user.
package session

import (
	"sync"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/identity"
)

type entry struct {
	mu   sync.Mutex
	sess *domain.Session
}

// Manager owns one session per user. Steps for the same user run one at a
// time; steps for different users run in parallel.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{entries: make(map[string]*entry)}
}

func (m *Manager) entryFor(userID string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userID]
	if !ok {
		e = &entry{sess: &domain.Session{
			UserID:    userID,
			SessionID: identity.NewSessionID(),
			State:     domain.StateIdle,
		}}
		m.entries[userID] = e
	}
	return e
}

// Step runs fn under the user's lock. fn receives the current session and
// returns its replacement; returning nil leaves the stored session untouched,
// so a failed step commits nothing. The session is created lazily in the
// idle state on first contact.
func (m *Manager) Step(userID string, fn func(sess *domain.Session) (*domain.Session, error)) error {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.sess)
	if err != nil {
		return err
	}
	if next != nil {
		e.sess = next
	}
	return nil
}

// Peek returns a copy of the user's session for inspection, or nil if the
// user has never been seen.
func (m *Manager) Peek(userID string) *domain.Session {
	m.mu.Lock()
	e, ok := m.entries[userID]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Clone()
}
