// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/encounterforge/internal/core/encounter"
	"github.com/louisbranch/encounterforge/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/encounterforge/internal/storage"
	"github.com/louisbranch/encounterforge/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists bestiary entries, encounters, packs, and telemetry in
// SQLite. It implements every interface in the storage package.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at the provided path and applies embedded
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle. It is nil-safe so callers can defer it in
// all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutMonster upserts one monster index entry.
func (s *Store) PutMonster(ctx context.Context, entry encounter.MonsterEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		return fmt.Errorf("monster id is required")
	}
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("monster name is required")
	}
	rarity := entry.Rarity
	if rarity == "" {
		rarity = encounter.RarityCommon
	}

	traits := []byte("[]")
	if len(entry.Traits) > 0 {
		encoded, err := json.Marshal(entry.Traits)
		if err != nil {
			return fmt.Errorf("encode traits: %w", err)
		}
		traits = encoded
	}

	now := toMillis(time.Now())
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO monsters (id, name, level, traits, rarity, source_ref, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    level = excluded.level,
    traits = excluded.traits,
    rarity = excluded.rarity,
    source_ref = excluded.source_ref,
    updated_at = excluded.updated_at
`, id, entry.Name, entry.Level, string(traits), string(rarity), entry.SourceRef, now, now)
	if err != nil {
		return fmt.Errorf("put monster %s: %w", id, err)
	}
	return nil
}

// GetMonster returns one monster entry by ID.
func (s *Store) GetMonster(ctx context.Context, id string) (encounter.MonsterEntry, error) {
	if err := ctx.Err(); err != nil {
		return encounter.MonsterEntry{}, err
	}
	if err := s.ready(); err != nil {
		return encounter.MonsterEntry{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, level, traits, rarity, source_ref FROM monsters WHERE id = ?
`, strings.TrimSpace(id))
	entry, err := scanMonster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return encounter.MonsterEntry{}, storage.ErrNotFound
	}
	if err != nil {
		return encounter.MonsterEntry{}, fmt.Errorf("get monster %s: %w", id, err)
	}
	return entry, nil
}

// ListMonsters returns entries matching the filter ordered by level then ID.
func (s *Store) ListMonsters(ctx context.Context, filter storage.MonsterFilter) ([]encounter.MonsterEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := "SELECT id, name, level, traits, rarity, source_ref FROM monsters"
	var clauses []string
	var args []any
	if filter.MinLevel != nil {
		clauses = append(clauses, "level >= ?")
		args = append(args, *filter.MinLevel)
	}
	if filter.MaxLevel != nil {
		clauses = append(clauses, "level <= ?")
		args = append(args, *filter.MaxLevel)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY level, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list monsters: %w", err)
	}
	defer rows.Close()

	var entries []encounter.MonsterEntry
	for rows.Next() {
		entry, err := scanMonster(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monster: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monsters: %w", err)
	}
	return entries, nil
}

// CountMonsters returns the number of stored monster entries.
func (s *Store) CountMonsters(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM monsters").Scan(&count); err != nil {
		return 0, fmt.Errorf("count monsters: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonster(row rowScanner) (encounter.MonsterEntry, error) {
	var entry encounter.MonsterEntry
	var traits string
	var rarity string
	if err := row.Scan(&entry.ID, &entry.Name, &entry.Level, &traits, &rarity, &entry.SourceRef); err != nil {
		return encounter.MonsterEntry{}, err
	}
	entry.Rarity = encounter.Rarity(rarity)
	if traits != "" && traits != "[]" {
		if err := json.Unmarshal([]byte(traits), &entry.Traits); err != nil {
			return encounter.MonsterEntry{}, fmt.Errorf("decode traits: %w", err)
		}
	}
	return entry, nil
}

// SaveEncounter inserts one composed encounter with its entries.
func (s *Store) SaveEncounter(ctx context.Context, enc storage.SavedEncounter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id := strings.TrimSpace(enc.ID)
	if id == "" {
		return fmt.Errorf("encounter id is required")
	}
	createdAt := enc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save encounter: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO encounters (id, difficulty, trait, rarity, party_size, average_level, budget, spent, seed, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, id, enc.Difficulty, enc.Trait, enc.Rarity, enc.PartySize, enc.AverageLevel, enc.Budget, enc.Spent, enc.Seed, toMillis(createdAt))
	if err != nil {
		_ = tx.Rollback()
		if isConstraintError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("save encounter %s: %w", id, err)
	}

	for position, entry := range enc.Entries {
		_, err = tx.ExecContext(ctx, `
INSERT INTO encounter_entries (encounter_id, position, monster_id, name, level, cost, x, y)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, id, position, entry.MonsterID, entry.Name, entry.Level, entry.Cost, entry.X, entry.Y)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save encounter entry %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save encounter: %w", err)
	}
	return nil
}

// GetEncounter returns one saved encounter with entries in position order.
func (s *Store) GetEncounter(ctx context.Context, id string) (storage.SavedEncounter, error) {
	if err := ctx.Err(); err != nil {
		return storage.SavedEncounter{}, err
	}
	if err := s.ready(); err != nil {
		return storage.SavedEncounter{}, err
	}

	var enc storage.SavedEncounter
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, difficulty, trait, rarity, party_size, average_level, budget, spent, seed, created_at
FROM encounters WHERE id = ?
`, strings.TrimSpace(id)).Scan(
		&enc.ID, &enc.Difficulty, &enc.Trait, &enc.Rarity, &enc.PartySize,
		&enc.AverageLevel, &enc.Budget, &enc.Spent, &enc.Seed, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SavedEncounter{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SavedEncounter{}, fmt.Errorf("get encounter %s: %w", id, err)
	}
	enc.CreatedAt = fromMillis(createdAt)

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT monster_id, name, level, cost, x, y
FROM encounter_entries WHERE encounter_id = ? ORDER BY position
`, enc.ID)
	if err != nil {
		return storage.SavedEncounter{}, fmt.Errorf("get encounter entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry storage.ChosenEntry
		if err := rows.Scan(&entry.MonsterID, &entry.Name, &entry.Level, &entry.Cost, &entry.X, &entry.Y); err != nil {
			return storage.SavedEncounter{}, fmt.Errorf("scan encounter entry: %w", err)
		}
		enc.Entries = append(enc.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return storage.SavedEncounter{}, fmt.Errorf("iterate encounter entries: %w", err)
	}
	return enc, nil
}

// ListEncounters returns saved encounters, most recent first, without their
// entries.
func (s *Store) ListEncounters(ctx context.Context, limit int) ([]storage.SavedEncounter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, difficulty, trait, rarity, party_size, average_level, budget, spent, seed, created_at
FROM encounters ORDER BY created_at DESC, id LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	defer rows.Close()

	var encounters []storage.SavedEncounter
	for rows.Next() {
		var enc storage.SavedEncounter
		var createdAt int64
		if err := rows.Scan(
			&enc.ID, &enc.Difficulty, &enc.Trait, &enc.Rarity, &enc.PartySize,
			&enc.AverageLevel, &enc.Budget, &enc.Spent, &enc.Seed, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan encounter: %w", err)
		}
		enc.CreatedAt = fromMillis(createdAt)
		encounters = append(encounters, enc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate encounters: %w", err)
	}
	return encounters, nil
}

// GetPackByName returns one named bestiary pack.
func (s *Store) GetPackByName(ctx context.Context, name string) (storage.Pack, error) {
	if err := ctx.Err(); err != nil {
		return storage.Pack{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Pack{}, err
	}

	var pack storage.Pack
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT name, created_at FROM packs WHERE name = ?", strings.TrimSpace(name),
	).Scan(&pack.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Pack{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Pack{}, fmt.Errorf("get pack %s: %w", name, err)
	}
	pack.CreatedAt = fromMillis(createdAt)
	return pack, nil
}

// CreatePack inserts one named bestiary pack.
func (s *Store) CreatePack(ctx context.Context, pack storage.Pack) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("pack name is required")
	}
	createdAt := pack.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO packs (name, created_at) VALUES (?, ?)", name, toMillis(createdAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create pack %s: %w", name, err)
	}
	return nil
}

// AppendTelemetryEvent records one operational telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO telemetry_events (component, operation, outcome, detail, created_at)
VALUES (?, ?, ?, ?, ?)
`, event.Component, event.Operation, event.Outcome, event.Detail, toMillis(timestamp))
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
