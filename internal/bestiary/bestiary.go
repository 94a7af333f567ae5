// Package bestiary validates external monster records at the boundary where
// host data enters the composer core.
//
// Host documents arrive loosely shaped (missing rarity, duplicated traits,
// padded strings). Everything is normalized here so the core algorithm never
// has to defend against malformed data.
package bestiary

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/louisbranch/encounterforge/internal/core/encounter"
)

var (
	// ErrEmptyID indicates a record without an identifier.
	ErrEmptyID = errors.New("monster record id is required")
	// ErrEmptyName indicates a record without a display name.
	ErrEmptyName = errors.New("monster record name is required")
	// ErrInvalidRarity indicates an unrecognized rarity value.
	ErrInvalidRarity = errors.New("invalid rarity")
	// ErrInvalidDifficulty indicates an unrecognized difficulty value.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrEmptyParty indicates a party profile derived from no members.
	ErrEmptyParty = errors.New("party has no members")
)

// Record is one monster entry as supplied by an external bestiary source.
type Record struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Level     int      `json:"level"`
	Traits    []string `json:"traits"`
	Rarity    string   `json:"rarity"`
	SourceRef string   `json:"source_ref"`
}

// ToEntry converts a raw record into a core monster entry.
//
// Strings are trimmed, traits are de-duplicated case-insensitively while
// preserving first-seen order, and a missing rarity defaults to common.
func (r Record) ToEntry() (encounter.MonsterEntry, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return encounter.MonsterEntry{}, ErrEmptyID
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return encounter.MonsterEntry{}, fmt.Errorf("record %s: %w", id, ErrEmptyName)
	}

	rarity, err := ParseRarity(r.Rarity)
	if err != nil {
		return encounter.MonsterEntry{}, fmt.Errorf("record %s: %w", id, err)
	}
	if rarity == encounter.RarityAny {
		return encounter.MonsterEntry{}, fmt.Errorf("record %s: %w %q", id, ErrInvalidRarity, r.Rarity)
	}

	return encounter.MonsterEntry{
		ID:        id,
		Name:      name,
		Level:     r.Level,
		Traits:    normalizeTraits(r.Traits),
		Rarity:    rarity,
		SourceRef: strings.TrimSpace(r.SourceRef),
	}, nil
}

// ParseRarity maps a rarity string onto the core enum. An empty value means
// the record lacks rarity data and defaults to common.
func ParseRarity(value string) (encounter.Rarity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return encounter.RarityCommon, nil
	case string(encounter.RarityAny):
		return encounter.RarityAny, nil
	case string(encounter.RarityCommon):
		return encounter.RarityCommon, nil
	case string(encounter.RarityUncommon):
		return encounter.RarityUncommon, nil
	case string(encounter.RarityRare):
		return encounter.RarityRare, nil
	case string(encounter.RarityUnique):
		return encounter.RarityUnique, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidRarity, value)
}

// ParseDifficulty maps a difficulty string onto the core enum.
func ParseDifficulty(value string) (encounter.Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(encounter.DifficultyTrivial):
		return encounter.DifficultyTrivial, nil
	case string(encounter.DifficultyLow):
		return encounter.DifficultyLow, nil
	case string(encounter.DifficultyModerate):
		return encounter.DifficultyModerate, nil
	case string(encounter.DifficultySevere):
		return encounter.DifficultySevere, nil
	case string(encounter.DifficultyExtreme):
		return encounter.DifficultyExtreme, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidDifficulty, value)
}

// PartyProfileFromLevels derives a party profile from the member levels of
// the upstream actor roster. The average level is the arithmetic mean
// rounded half up.
func PartyProfileFromLevels(levels []int) (encounter.PartyProfile, error) {
	if len(levels) == 0 {
		return encounter.PartyProfile{}, ErrEmptyParty
	}

	sum := 0
	for _, level := range levels {
		sum += level
	}
	mean := float64(sum) / float64(len(levels))

	return encounter.PartyProfile{
		Size:         len(levels),
		AverageLevel: int(math.Floor(mean + 0.5)),
	}, nil
}

func normalizeTraits(traits []string) []string {
	if len(traits) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(traits))
	normalized := make([]string, 0, len(traits))
	for _, trait := range traits {
		trimmed := strings.TrimSpace(trait)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, trimmed)
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}
