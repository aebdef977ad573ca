package storage

import (
	"context"
	"errors"
	"time"

	"github.com/zrxcoding/Gaming/internal/models"
)

// ErrProfileNotFound is returned when a user has never saved a profile
var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore persists one saved (device, game) profile per user.
// Implementations must be safe for concurrent use; a save for one user must
// never lose or corrupt the record of another.
type ProfileStore interface {
	// SaveProfile creates or overwrites the profile of userID. The record is
	// durable when SaveProfile returns nil.
	SaveProfile(ctx context.Context, userID, device string, game models.GameID) error

	// GetProfile returns ErrProfileNotFound if userID has no saved profile.
	GetProfile(ctx context.Context, userID string) (*models.SavedProfile, error)

	Close() error
}

// SessionStore holds in-flight conversation sessions keyed by user id.
// Callers serialize access per user; implementations only need to be safe
// for concurrent use across different users.
type SessionStore interface {
	// Load returns nil, nil when the user has no session.
	Load(ctx context.Context, userID string) (*models.UserSession, error)
	Save(ctx context.Context, session *models.UserSession) error
	Delete(ctx context.Context, userID string) error

	// DeleteIdle removes sessions whose LastActive is before cutoff and
	// returns how many were removed.
	DeleteIdle(ctx context.Context, cutoff time.Time) (int, error)

	Count(ctx context.Context) (int, error)
}
