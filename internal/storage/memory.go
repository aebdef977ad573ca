package storage

import (
	"context"
	"sync"
	"time"

	"github.com/zrxcoding/Gaming/internal/models"
)

// MemoryStore keeps saved profiles in memory. Used by tests and when
// USE_MEMORY_STORE is set.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.SavedProfile
}

// NewMemoryStore creates a new in-memory profile store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]models.SavedProfile),
	}
}

func (m *MemoryStore) SaveProfile(ctx context.Context, userID, device string, game models.GameID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	p, exists := m.profiles[userID]
	if !exists {
		p.CreatedAt = now
	}
	p.UserID = userID
	p.Device = device
	p.Game = game
	p.UpdatedAt = now

	m.profiles[userID] = p
	return nil
}

func (m *MemoryStore) GetProfile(ctx context.Context, userID string) (*models.SavedProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// MemorySessionStore keeps conversation sessions in a map
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.UserSession
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]models.UserSession),
	}
}

func (m *MemorySessionStore) Load(ctx context.Context, userID string) (*models.UserSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.sessions[userID]
	if !exists {
		return nil, nil
	}
	return &s, nil
}

// Save stores a copy so callers cannot mutate the stored session without
// going through Save again.
func (m *MemorySessionStore) Save(ctx context.Context, session *models.UserSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.UserID] = *session
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

func (m *MemorySessionStore) DeleteIdle(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for userID, s := range m.sessions {
		if s.LastActive.Before(cutoff) {
			delete(m.sessions, userID)
			removed++
		}
	}
	return removed, nil
}

func (m *MemorySessionStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions), nil
}
