package models

import (
	"fmt"
	"strings"
)

// GameID identifies one of the supported games
type GameID string

const (
	GameFreeFire GameID = "freefire"
	GameBGMI     GameID = "bgmi"
	GameCOD      GameID = "cod"
)

// SupportedGames lists every game in menu order
var SupportedGames = []GameID{GameFreeFire, GameBGMI, GameCOD}

// ParseGameID converts a stored or typed game key into a GameID
func ParseGameID(s string) (GameID, error) {
	switch GameID(strings.ToLower(strings.TrimSpace(s))) {
	case GameFreeFire:
		return GameFreeFire, nil
	case GameBGMI:
		return GameBGMI, nil
	case GameCOD:
		return GameCOD, nil
	}
	return "", fmt.Errorf("unsupported game %q", s)
}

// Title returns the display name used in menus
func (g GameID) Title() string {
	switch g {
	case GameFreeFire:
		return "Free Fire"
	case GameBGMI:
		return "BGMI"
	case GameCOD:
		return "COD Mobile"
	}
	return strings.ToUpper(string(g))
}

// CPUTier is a coarse device capability bucket
type CPUTier string

const (
	CPUTierLow  CPUTier = "low"
	CPUTierMid  CPUTier = "mid"
	CPUTierHigh CPUTier = "high"
)

// GamePreset holds the recommended tuning for one game on one device
type GamePreset struct {
	DPI              int       `json:"dpi"`
	CM360Suggestions []float64 `json:"cm360_suggested"`
	Graphics         string    `json:"graphics"`
	FPS              string    `json:"fps"`
}

// DeviceProfile is the tuning profile of a device, either from the catalog
// or synthesized from the device name
type DeviceProfile struct {
	RAMTierGB     int                   `json:"ram_gb"`
	CPUTier       CPUTier               `json:"cpu_tier"`
	Presets       map[GameID]GamePreset `json:"presets"`
	InternalSteps []string              `json:"internal_steps"`
	LagFixSteps   []string              `json:"lag_fix"`
}

// Preset returns the preset for a game
func (p *DeviceProfile) Preset(game GameID) (GamePreset, bool) {
	preset, ok := p.Presets[game]
	return preset, ok
}
