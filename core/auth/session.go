package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrLoggedOut      = errors.New("session logged out")
)

type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) IsZero() bool { return s.ID == "" }

// Manager opens, checks and extends sessions of a fixed duration.
type Manager struct {
	policy   Policy
	clock    Clock
	duration time.Duration

	mu sync.Mutex
	// logged out session IDs, kept until no token issued before logout can still be valid
	revoked map[string]time.Time
}

// NewManager uses SystemClock when clock is nil.
func NewManager(policy Policy, clock Clock, duration time.Duration) *Manager {
	if clock == nil {
		clock = SystemClock
	}
	return &Manager{policy: policy, clock: clock, duration: duration, revoked: make(map[string]time.Time)}
}

func (m *Manager) Now() time.Time { return m.clock.Now() }

func (m *Manager) Duration() time.Duration { return m.duration }

func (m *Manager) Login(username, password string) (Session, error) {
	p, err := m.policy.Authenticate(username, password)
	if err != nil {
		return Session{}, err
	}
	return m.start(uuid.New().String(), p.Username), nil
}

func (m *Manager) start(id, username string) Session {
	now := m.clock.Now()
	return Session{
		ID:        id,
		Username:  username,
		LoginTime: now,
		ExpiresAt: now.Add(m.duration),
	}
}

// Check fails with ErrSessionExpired once more than the session duration has passed since login,
// and with ErrLoggedOut for any session logged out before.
func (m *Manager) Check(s Session) error {
	if s.IsZero() || m.clock.Now().Sub(s.LoginTime) > m.duration {
		return ErrSessionExpired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.revoked[s.ID]; ok {
		return ErrLoggedOut
	}
	return nil
}

// Logout ends the session: every token carrying its ID fails Check from now on.
func (m *Manager) Logout(s Session) {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, until := range m.revoked {
		if now.After(until) {
			delete(m.revoked, id)
		}
	}
	m.revoked[s.ID] = now.Add(m.duration)
}

// Extend restarts a still valid session from now, keeping its ID.
func (m *Manager) Extend(s Session) (Session, error) {
	if err := m.Check(s); err != nil {
		return Session{}, err
	}
	return m.start(s.ID, s.Username), nil
}
