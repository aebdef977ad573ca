package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zrxcoding/Gaming/internal/models"
	"github.com/zrxcoding/Gaming/internal/storage"
)

// SessionManager serializes conversation turns per user. Each user id has
// its own lock, so turns of one user never interleave while different users
// proceed in parallel.
type SessionManager struct {
	store       storage.SessionStore
	logger      *zap.Logger
	idleTimeout time.Duration
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionManager creates a session manager. An idleTimeout of zero
// keeps sessions for the life of the process.
func NewSessionManager(store storage.SessionStore, idleTimeout time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		store:       store,
		logger:      logger.Named("SessionManager"),
		idleTimeout: idleTimeout,
		now:         time.Now,
		locks:       make(map[string]*userLock),
	}
}

func (sm *SessionManager) acquire(userID string) *userLock {
	sm.mu.Lock()
	l, exists := sm.locks[userID]
	if !exists {
		l = &userLock{}
		sm.locks[userID] = l
	}
	l.refs++
	sm.mu.Unlock()

	l.mu.Lock()
	return l
}

func (sm *SessionManager) release(userID string, l *userLock) {
	l.mu.Unlock()

	sm.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(sm.locks, userID)
	}
	sm.mu.Unlock()
}

// WithSession runs fn on the session of userID while holding that user's
// lock. The session is created on first use, or recreated when it has been
// idle longer than the timeout. Changes are saved only when fn succeeds.
func (sm *SessionManager) WithSession(ctx context.Context, userID string, fn func(*models.UserSession) error) error {
	l := sm.acquire(userID)
	defer sm.release(userID, l)

	session, err := sm.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	now := sm.now()
	if session != nil && sm.expired(session, now) {
		sm.logger.Info("Session expired, starting over", zap.String("user_id", userID), zap.String("session_id", session.ID))
		session = nil
	}
	if session == nil {
		session = &models.UserSession{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: now,
		}
		sm.logger.Info("Session created", zap.String("user_id", userID), zap.String("session_id", session.ID))
	}

	if err := fn(session); err != nil {
		return err
	}

	session.LastActive = now
	if err := sm.store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (sm *SessionManager) expired(session *models.UserSession, now time.Time) bool {
	return sm.idleTimeout > 0 && now.Sub(session.LastActive) > sm.idleTimeout
}

// GetSession returns a snapshot of the session of userID, or nil
func (sm *SessionManager) GetSession(ctx context.Context, userID string) (*models.UserSession, error) {
	l := sm.acquire(userID)
	defer sm.release(userID, l)

	return sm.store.Load(ctx, userID)
}

// ResetSession forgets the conversation state of userID
func (sm *SessionManager) ResetSession(ctx context.Context, userID string) error {
	l := sm.acquire(userID)
	defer sm.release(userID, l)

	return sm.store.Delete(ctx, userID)
}

// SweepIdle removes sessions idle longer than the timeout
func (sm *SessionManager) SweepIdle(ctx context.Context) (int, error) {
	if sm.idleTimeout <= 0 {
		return 0, nil
	}
	removed, err := sm.store.DeleteIdle(ctx, sm.now().Add(-sm.idleTimeout))
	if err != nil {
		return removed, fmt.Errorf("sweep idle sessions: %w", err)
	}
	if removed > 0 {
		sm.logger.Info("Cleaned up idle sessions", zap.Int("removed", removed))
	}
	return removed, nil
}

// ActiveSessions returns how many sessions are currently stored
func (sm *SessionManager) ActiveSessions(ctx context.Context) int {
	n, err := sm.store.Count(ctx)
	if err != nil {
		sm.logger.Warn("Failed to count sessions", zap.Error(err))
		return 0
	}
	return n
}
