package models

import (
	"time"
)

// PendingInput tells the conversation what the next free text answers
type PendingInput string

const (
	PendingNone     PendingInput = ""
	PendingPassword PendingInput = "password"
	PendingDevice   PendingInput = "device"
	PendingDPI      PendingInput = "dpi"
	PendingCM360    PendingInput = "cm360"
	PendingProblem  PendingInput = "problem"
)

// UserSession stores the conversation state of one chat user
type UserSession struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Pending      PendingInput `json:"pending,omitempty"`
	SelectedGame *GameID      `json:"selected_game,omitempty"`
	DeviceName   *string      `json:"device_name,omitempty"`
	DPI          *int         `json:"dpi,omitempty"`
	Unlocked     bool         `json:"unlocked"`

	// LastMenu is the most recent button menu sent to the user, flattened in
	// display order so a typed number can select an entry.
	LastMenu []Action `json:"last_menu,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// Game returns the selected game or false when none is selected
func (s *UserSession) Game() (GameID, bool) {
	if s.SelectedGame == nil {
		return "", false
	}
	return *s.SelectedGame, true
}

// Device returns the device name or false when none is set
func (s *UserSession) Device() (string, bool) {
	if s.DeviceName == nil || *s.DeviceName == "" {
		return "", false
	}
	return *s.DeviceName, true
}

// SetGame selects a game
func (s *UserSession) SetGame(game GameID) {
	s.SelectedGame = &game
}

// SetDevice records the device name
func (s *UserSession) SetDevice(name string) {
	s.DeviceName = &name
}

// ClearSelection forgets both game and device
func (s *UserSession) ClearSelection() {
	s.SelectedGame = nil
	s.DeviceName = nil
}
