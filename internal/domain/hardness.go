package domain

import (
	"fmt"
	"strings"
)

// HardnessLevel is the difficulty tag on a card.
type HardnessLevel string

const (
	HardnessEasy   HardnessLevel = "easy"
	HardnessMedium HardnessLevel = "medium"
	HardnessHard   HardnessLevel = "hard"
	// HardnessFail is only produced by the legacy study views.
	HardnessFail HardnessLevel = "fail"
)

// DefaultHardness is applied by the backend when a card is created without one.
const DefaultHardness = HardnessMedium

// HardnessLevels lists the closed set in display order.
func HardnessLevels() []HardnessLevel {
	return []HardnessLevel{HardnessEasy, HardnessMedium, HardnessHard, HardnessFail}
}

// Valid reports whether h belongs to the closed set.
func (h HardnessLevel) Valid() bool {
	switch h {
	case HardnessEasy, HardnessMedium, HardnessHard, HardnessFail:
		return true
	default:
		return false
	}
}

func (h HardnessLevel) String() string {
	return string(h)
}

// ParseHardness normalizes user input into a HardnessLevel.
func ParseHardness(value string) (HardnessLevel, error) {
	h := HardnessLevel(strings.ToLower(strings.TrimSpace(value)))
	if !h.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidHardness, value)
	}
	return h, nil
}
