package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultGameScale is the generic in-game scalar applied to raw sensitivity
	DefaultGameScale = 0.022

	inchesPerCM = 0.393701
)

// CM360ToSensitivity approximates the in-game sensitivity for a desired
// cm/360 at a given DPI, rounded to 4 decimals. Non-positive cm360 gives 0.
func CM360ToSensitivity(cm360 float64, dpi int, scale float64) float64 {
	inches := cm360 * inchesPerCM
	raw := 0.0
	if inches > 0 && dpi > 0 {
		raw = 360 / (inches * float64(dpi))
	}
	return roundTo(raw*scale, 4)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ParsePositiveInt parses a whole number greater than zero
func ParsePositiveInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if n <= 0 || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("not a positive whole number: %q", s)
	}
	return n, nil
}

// ParsePositiveFloat parses a finite number greater than zero
func ParsePositiveFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, fmt.Errorf("not a positive number: %q", s)
	}
	return f, nil
}

// formatNumber prints whole numbers without a fraction
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
