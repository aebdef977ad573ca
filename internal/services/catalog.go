package services

import (
	"strings"

	"github.com/zrxcoding/Gaming/internal/models"
)

// Catalog is the table of known devices with hand-tuned presets
type Catalog struct {
	devices map[string]models.DeviceProfile
}

// NewCatalog builds a catalog from device name to profile. Keys are
// normalized the same way lookups are.
func NewCatalog(devices map[string]models.DeviceProfile) *Catalog {
	c := &Catalog{devices: make(map[string]models.DeviceProfile, len(devices))}
	for name, profile := range devices {
		c.devices[deviceKey(name)] = profile
	}
	return c
}

// DefaultCatalog returns the built-in device table
func DefaultCatalog() *Catalog {
	return NewCatalog(knownDevices)
}

// Lookup finds a device by exact, case-insensitive, trimmed name
func (c *Catalog) Lookup(deviceName string) (*models.DeviceProfile, bool) {
	profile, ok := c.devices[deviceKey(deviceName)]
	if !ok {
		return nil, false
	}
	return &profile, true
}

// Names returns the normalized keys of all known devices
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.devices))
	for name := range c.devices {
		names = append(names, name)
	}
	return names
}

func deviceKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var knownDevices = map[string]models.DeviceProfile{
	"poco x3": {
		RAMTierGB: 6,
		CPUTier:   models.CPUTierMid,
		Presets: map[models.GameID]models.GamePreset{
			models.GameFreeFire: {DPI: 480, CM360Suggestions: []float64{25, 30, 35}, Graphics: "Medium", FPS: "30-60 (try 40)"},
			models.GameBGMI:     {DPI: 480, CM360Suggestions: []float64{30, 35, 40}, Graphics: "Medium", FPS: "30"},
			models.GameCOD:      {DPI: 480, CM360Suggestions: []float64{25, 30, 35}, Graphics: "Medium", FPS: "60 (if stable)"},
		},
		InternalSteps: []string{
			"Reboot device before starting.",
			"Enable High Performance in battery settings.",
			"Disable battery saver and aggressive background restrictions for the game.",
			"Keep at least 3 GB free storage.",
			"Turn off adaptive brightness while gaming.",
		},
		LagFixSteps: []string{
			"Close background apps and clear cache.",
			"Limit background sync and auto-updates while playing.",
			"Use Wi-Fi for stable connection; check ping.",
			"If overheating, lower graphics to Low/Medium.",
		},
	},
	"iphone 12": {
		RAMTierGB: 4,
		CPUTier:   models.CPUTierHigh,
		Presets: map[models.GameID]models.GamePreset{
			models.GameFreeFire: {DPI: 400, CM360Suggestions: []float64{18, 20, 22}, Graphics: "High", FPS: "60"},
			models.GameBGMI:     {DPI: 400, CM360Suggestions: []float64{20, 22, 25}, Graphics: "High", FPS: "60"},
			models.GameCOD:      {DPI: 400, CM360Suggestions: []float64{18, 20, 22}, Graphics: "High", FPS: "60"},
		},
		InternalSteps: []string{
			"Close unnecessary background apps (swipe up).",
			"Keep iOS updated for best performance.",
			"Disable Low Power Mode while gaming.",
			"Free at least 10% storage for optimal performance.",
		},
		LagFixSteps: []string{
			"Turn off background app refresh for heavy apps.",
			"Use Airplane mode + Wi-Fi to reduce mobile network interruptions.",
			"If crash persists, reinstall game.",
		},
	},
	"oneplus 9": {
		RAMTierGB: 8,
		CPUTier:   models.CPUTierHigh,
		Presets: map[models.GameID]models.GamePreset{
			models.GameFreeFire: {DPI: 560, CM360Suggestions: []float64{18, 22, 26}, Graphics: "High", FPS: "60"},
			models.GameBGMI:     {DPI: 560, CM360Suggestions: []float64{20, 22, 24}, Graphics: "High", FPS: "60"},
			models.GameCOD:      {DPI: 560, CM360Suggestions: []float64{18, 20, 22}, Graphics: "High", FPS: "60"},
		},
		InternalSteps: []string{
			"Enable Performance Mode (Settings -> Battery -> Performance).",
			"Disable background auto-start for unneeded apps.",
			"Keep phone cool; avoid charging while gaming.",
		},
		LagFixSteps: []string{
			"Clear game cache, reboot, and test again.",
			"Reduce render distance and shadows if thermal throttling occurs.",
		},
	},
}
