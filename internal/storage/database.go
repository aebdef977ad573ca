package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zrxcoding/Gaming/internal/models"
)

// DatabaseStore persists saved profiles with gorm
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a profile store on an open gorm connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Migrate creates or updates the saved_profiles table
func (d *DatabaseStore) Migrate() error {
	if err := d.db.AutoMigrate(&models.SavedProfile{}); err != nil {
		return fmt.Errorf("migrate saved profiles: %w", err)
	}
	return nil
}

// SaveProfile upserts on user_id so concurrent saves of one user resolve to
// the last write and saves of different users never touch each other.
func (d *DatabaseStore) SaveProfile(ctx context.Context, userID, device string, game models.GameID) error {
	profile := &models.SavedProfile{
		UserID: userID,
		Device: device,
		Game:   game,
	}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"device", "game", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (d *DatabaseStore) GetProfile(ctx context.Context, userID string) (*models.SavedProfile, error) {
	var profile models.SavedProfile
	err := d.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Ping checks the underlying connection
func (d *DatabaseStore) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DatabaseStore) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
