package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zrxcoding/Gaming/internal/models"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name string
		ram  int
		tier models.CPUTier
	}{
		{"Redmi Note Lite", 2, models.CPUTierLow},
		{"Vivo Y21", 2, models.CPUTierLow},
		{"Realme C3", 2, models.CPUTierLow},
		{"Samsung A03", 2, models.CPUTierLow},
		{"Lite Pro", 2, models.CPUTierLow},
		{"Redmi 9 Lite", 2, models.CPUTierLow},
		{"Pixel Pro", 8, models.CPUTierHigh},
		{"Samsung S21", 8, models.CPUTierHigh},
		{"Nord 8", 8, models.CPUTierHigh},
		{"Realme GT Neo", 4, models.CPUTierMid},
		{"", 4, models.CPUTierMid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ram, tier := ClassifyDevice(tt.name)
			assert.Equal(t, tt.ram, ram)
			assert.Equal(t, tt.tier, tier)
		})
	}
}

func TestSynthesizeProfileByTier(t *testing.T) {
	low := SynthesizeProfile("galaxy entry")
	assert.Equal(t, models.CPUTierLow, low.CPUTier)
	assert.Equal(t, 360, low.Presets[models.GameBGMI].DPI)
	assert.Equal(t, []float64{30, 35, 40}, low.Presets[models.GameBGMI].CM360Suggestions)
	assert.Equal(t, "Low/Medium", low.Presets[models.GameBGMI].Graphics)
	assert.Equal(t, "30", low.Presets[models.GameBGMI].FPS)

	mid := SynthesizeProfile("Moto G")
	assert.Equal(t, models.CPUTierMid, mid.CPUTier)
	assert.Equal(t, 4, mid.RAMTierGB)
	assert.Equal(t, 480, mid.Presets[models.GameFreeFire].DPI)
	assert.Equal(t, []float64{25, 30, 35}, mid.Presets[models.GameFreeFire].CM360Suggestions)
	assert.Equal(t, "Medium", mid.Presets[models.GameFreeFire].Graphics)
	assert.Equal(t, "30-60", mid.Presets[models.GameFreeFire].FPS)

	high := SynthesizeProfile("Pixel 7 Ultra")
	assert.Equal(t, models.CPUTierHigh, high.CPUTier)
	assert.Equal(t, 8, high.RAMTierGB)
	assert.Equal(t, 560, high.Presets[models.GameCOD].DPI)
	assert.Equal(t, []float64{18, 22, 26}, high.Presets[models.GameCOD].CM360Suggestions)
	assert.Equal(t, []float64{20, 25, 30}, high.Presets[models.GameBGMI].CM360Suggestions)
	assert.Equal(t, "High", high.Presets[models.GameCOD].Graphics)
	assert.Equal(t, "60", high.Presets[models.GameCOD].FPS)
}

func TestSynthesizeProfileIsCompleteAndDeterministic(t *testing.T) {
	for _, name := range []string{"Poco M4", "Infinix Hot 10", "lite pro", "Unknown Phone", "  "} {
		first := SynthesizeProfile(name)
		second := SynthesizeProfile(name)
		assert.Equal(t, first, second, name)

		assert.Contains(t, []models.CPUTier{models.CPUTierLow, models.CPUTierMid, models.CPUTierHigh}, first.CPUTier)
		for _, game := range models.SupportedGames {
			preset, ok := first.Preset(game)
			require.True(t, ok)
			assert.Len(t, preset.CM360Suggestions, 3)
		}
		assert.Len(t, first.InternalSteps, 5)
		assert.Len(t, first.LagFixSteps, 3)
	}
}

func TestSynthesizeProfileDoesNotShareSlices(t *testing.T) {
	first := SynthesizeProfile("Moto G")
	first.Presets[models.GameBGMI].CM360Suggestions[0] = 999
	first.InternalSteps[0] = "changed"

	second := SynthesizeProfile("Moto G")
	assert.Equal(t, float64(30), second.Presets[models.GameBGMI].CM360Suggestions[0])
	assert.Equal(t, "Reboot before gaming.", second.InternalSteps[0])
}

func TestProfileResolverPrefersCatalog(t *testing.T) {
	resolver := NewProfileResolver(DefaultCatalog())

	profile, known := resolver.Resolve("Poco X3")
	assert.True(t, known)
	assert.Equal(t, 6, profile.RAMTierGB)

	// "iphone 13" is not in the catalog and has no tier token
	profile, known = resolver.Resolve("iphone 13")
	assert.False(t, known)
	assert.Equal(t, models.CPUTierMid, profile.CPUTier)
}
