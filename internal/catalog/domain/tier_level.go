package domain

import (
	"errors"
	"strings"
)

// TierLevel identifies a vendor membership tier. Levels are totally ordered:
// a higher rank always costs at least as much and entitles at least as much.
type TierLevel string

const (
	TierBasic        TierLevel = "BASIC"
	TierProfessional TierLevel = "PROFESSIONAL"
	TierPremium      TierLevel = "PREMIUM"
	TierEnterprise   TierLevel = "ENTERPRISE"
)

// ErrInvalidTierLevel is returned when parsing an unknown tier level.
var ErrInvalidTierLevel = errors.New("invalid tier level")

var tierRanks = map[TierLevel]int{
	TierBasic:        0,
	TierProfessional: 1,
	TierPremium:      2,
	TierEnterprise:   3,
}

// TierLevels lists all tier levels from lowest to highest.
func TierLevels() []TierLevel {
	return []TierLevel{TierBasic, TierProfessional, TierPremium, TierEnterprise}
}

// ParseTierLevel creates a TierLevel from a string.
func ParseTierLevel(s string) (TierLevel, error) {
	level := TierLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", ErrInvalidTierLevel
	}
	return level, nil
}

// IsValid reports whether the value is a known tier level.
func (l TierLevel) IsValid() bool {
	_, ok := tierRanks[l]
	return ok
}

// Rank returns the position of the level in the tier ordering, lowest first.
func (l TierLevel) Rank() int {
	return tierRanks[l]
}

// Above reports whether l outranks other.
func (l TierLevel) Above(other TierLevel) bool {
	return l.Rank() > other.Rank()
}

func (l TierLevel) String() string { return string(l) }
