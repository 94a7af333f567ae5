// Package storage defines the persistence interfaces for EncounterForge.
//
// It provides a high-level abstraction for storing bestiary entries,
// composed encounters, and operational telemetry. Implementations of these
// interfaces (e.g., using SQLite) live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
//   - ErrAlreadyExists: Indicates a uniqueness conflict on create.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/encounterforge/internal/core/encounter"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a create conflicted with an existing record.
var ErrAlreadyExists = errors.New("record already exists")

// MonsterFilter narrows bestiary listings. Nil bounds leave that side of
// the level range open.
type MonsterFilter struct {
	MinLevel *int
	MaxLevel *int
	Limit    int
}

// BestiaryStore persists monster index entries and serves candidate pools.
type BestiaryStore interface {
	PutMonster(ctx context.Context, entry encounter.MonsterEntry) error
	GetMonster(ctx context.Context, id string) (encounter.MonsterEntry, error)
	ListMonsters(ctx context.Context, filter MonsterFilter) ([]encounter.MonsterEntry, error)
	CountMonsters(ctx context.Context) (int, error)
}

// ChosenEntry is one accepted pick within a saved encounter, with its
// placement point.
type ChosenEntry struct {
	MonsterID string
	Name      string
	Level     int
	Cost      int
	X         float64
	Y         float64
}

// SavedEncounter is one persisted composition run.
type SavedEncounter struct {
	ID           string
	Difficulty   string
	Trait        string
	Rarity       string
	PartySize    int
	AverageLevel int
	Budget       int
	Spent        int
	Seed         int64
	Entries      []ChosenEntry
	CreatedAt    time.Time
}

// EncounterStore persists composed encounters for reporting and replay.
type EncounterStore interface {
	SaveEncounter(ctx context.Context, enc SavedEncounter) error
	GetEncounter(ctx context.Context, id string) (SavedEncounter, error)
	ListEncounters(ctx context.Context, limit int) ([]SavedEncounter, error)
}

// Pack is a named bestiary pack owned by the host environment.
type Pack struct {
	Name      string
	CreatedAt time.Time
}

// PackStore persists named bestiary packs.
type PackStore interface {
	GetPackByName(ctx context.Context, name string) (Pack, error)
	CreatePack(ctx context.Context, pack Pack) error
}

// TelemetryEvent records one operational event.
type TelemetryEvent struct {
	Component string
	Operation string
	Outcome   string
	Detail    string
	Timestamp time.Time
}

// TelemetryStore appends operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, event TelemetryEvent) error
}
