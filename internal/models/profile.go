package models

import (
	"time"
)

// SavedProfile is the durable (device, game) pair of one user
type SavedProfile struct {
	UserID    string    `json:"-" gorm:"primaryKey;size:64"`
	Device    string    `json:"device" gorm:"not null"`
	Game      GameID    `json:"game" gorm:"not null;size:16"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName keeps the table name stable regardless of gorm naming strategy
func (SavedProfile) TableName() string {
	return "saved_profiles"
}
