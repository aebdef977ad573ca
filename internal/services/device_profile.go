package services

import (
	"strings"

	"github.com/zrxcoding/Gaming/internal/models"
)

type tierRule struct {
	tokens []string
	ramGB  int
	tier   models.CPUTier
}

// Checked top to bottom, first match wins. Low-tier tokens come first so a
// name like "redmi 9 lite" stays low tier.
var tierRules = []tierRule{
	{tokens: []string{"lite", "y", "entry", "c3", "a03"}, ramGB: 2, tier: models.CPUTierLow},
	{tokens: []string{"pro", "plus", "max", "ultra", "9", "8", "7", "oneplus", "samsung s"}, ramGB: 8, tier: models.CPUTierHigh},
}

const (
	defaultRAMGB = 4
	defaultTier  = models.CPUTierMid
)

var tierDPI = map[models.CPUTier]int{
	models.CPUTierLow:  360,
	models.CPUTierMid:  480,
	models.CPUTierHigh: 560,
}

var tierGraphics = map[models.CPUTier][2]string{
	models.CPUTierLow:  {"Low/Medium", "30"},
	models.CPUTierMid:  {"Medium", "30-60"},
	models.CPUTierHigh: {"High", "60"},
}

// casual and precision cm/360 triples per game
var cm360Triples = map[models.GameID][2][]float64{
	models.GameFreeFire: {{25, 30, 35}, {18, 22, 26}},
	models.GameBGMI:     {{30, 35, 40}, {20, 25, 30}},
	models.GameCOD:      {{25, 30, 35}, {18, 22, 26}},
}

var genericInternalSteps = []string{
	"Reboot before gaming.",
	"Close background apps.",
	"Keep at least 2-5 GB free storage.",
	"Disable battery saver and aggressive background restrictions for the game.",
	"Lower graphics if device heats up.",
}

var genericLagFixSteps = []string{
	"Close background apps and clear cache.",
	"Use stable Wi-Fi and check ping.",
	"Lower in-game graphics and FPS if needed.",
}

// ClassifyDevice guesses RAM and CPU tier from the device name
func ClassifyDevice(deviceName string) (int, models.CPUTier) {
	name := strings.ToLower(deviceName)
	for _, rule := range tierRules {
		if containsAny(name, rule.tokens) {
			return rule.ramGB, rule.tier
		}
	}
	return defaultRAMGB, defaultTier
}

// SynthesizeProfile derives a complete profile for a device missing from
// the catalog. The result depends only on the name.
func SynthesizeProfile(deviceName string) models.DeviceProfile {
	ramGB, tier := ClassifyDevice(deviceName)
	gfx := tierGraphics[tier]

	presets := make(map[models.GameID]models.GamePreset, len(models.SupportedGames))
	for _, game := range models.SupportedGames {
		triples := cm360Triples[game]
		cm := triples[0]
		if tier == models.CPUTierHigh {
			cm = triples[1]
		}
		presets[game] = models.GamePreset{
			DPI:              tierDPI[tier],
			CM360Suggestions: append([]float64(nil), cm...),
			Graphics:         gfx[0],
			FPS:              gfx[1],
		}
	}

	return models.DeviceProfile{
		RAMTierGB:     ramGB,
		CPUTier:       tier,
		Presets:       presets,
		InternalSteps: append([]string(nil), genericInternalSteps...),
		LagFixSteps:   append([]string(nil), genericLagFixSteps...),
	}
}

// ProfileResolver turns a device name into a profile, preferring the catalog
type ProfileResolver struct {
	catalog *Catalog
}

// NewProfileResolver creates a resolver over catalog
func NewProfileResolver(catalog *Catalog) *ProfileResolver {
	return &ProfileResolver{catalog: catalog}
}

// Resolve returns the catalog profile, or a synthesized one. The bool
// reports whether the device was known.
func (r *ProfileResolver) Resolve(deviceName string) (models.DeviceProfile, bool) {
	if profile, ok := r.catalog.Lookup(deviceName); ok {
		return *profile, true
	}
	return SynthesizeProfile(deviceName), false
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
