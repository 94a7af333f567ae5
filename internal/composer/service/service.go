// Package service orchestrates encounter composition runs against the
// bestiary store.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/encounterforge/internal/bestiary"
	"github.com/louisbranch/encounterforge/internal/core/encounter"
	"github.com/louisbranch/encounterforge/internal/core/placement"
	"github.com/louisbranch/encounterforge/internal/id"
	"github.com/louisbranch/encounterforge/internal/random"
	"github.com/louisbranch/encounterforge/internal/storage"
	"github.com/louisbranch/encounterforge/internal/telemetry"
)

const tracerName = "encounterforge/composer"

// defaultGridSize is the scene grid cell size assumed when the caller does
// not supply one.
const defaultGridSize = 100.0

// Stores groups the storage interfaces the composer depends on.
type Stores struct {
	Bestiary  storage.BestiaryStore
	Encounter storage.EncounterStore
}

// Composer runs encounter composition against stored bestiary data.
type Composer struct {
	stores      Stores
	emitter     *telemetry.Emitter
	clock       func() time.Time
	idGenerator func() (string, error)
	seedSource  func() (int64, error)
	tracer      trace.Tracer
}

// Option configures a Composer.
type Option func(*Composer)

// WithEmitter attaches a telemetry emitter.
func WithEmitter(emitter *telemetry.Emitter) Option {
	return func(c *Composer) {
		c.emitter = emitter
	}
}

// NewComposer creates a Composer with default dependencies.
func NewComposer(stores Stores, opts ...Option) *Composer {
	c := &Composer{
		stores:      stores,
		clock:       time.Now,
		idGenerator: id.NewID,
		seedSource:  random.NewSeed,
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ComposeRequest describes one composition run at the service boundary.
// String fields arrive unparsed from the caller and are validated here.
type ComposeRequest struct {
	Difficulty  string
	PartyLevels []int
	Trait       string
	Rarity      string
	// Seed pins the random source; nil draws a fresh crypto seed.
	Seed *int64
	// Origin anchors placement in scene coordinates.
	Origin placement.Point
	// GridSize is the scene grid cell size; zero uses the default.
	GridSize float64
	// SnapToGrid snaps placement points to cell boundaries.
	SnapToGrid bool
}

// ComposedEntry is one chosen monster with its cost and placement point.
type ComposedEntry struct {
	MonsterID string
	Name      string
	Level     int
	Cost      int
	Traits    []string
	SourceRef string
	X         float64
	Y         float64
}

// ComposeResponse reports the outcome of one composition run.
type ComposeResponse struct {
	ID      string
	Budget  int
	Spent   int
	Seed    int64
	Entries []ComposedEntry
}

// Compose runs one encounter composition: it validates the request,
// snapshots the eligible candidate pool, runs the core selection, lays the
// chosen entries out, and persists the result.
//
// An empty candidate pool (or a run that accepts nothing) produces a
// response with no entries, not an error.
func (c *Composer) Compose(ctx context.Context, request ComposeRequest) (ComposeResponse, error) {
	ctx, span := c.tracer.Start(ctx, "composer.compose")
	defer span.End()

	if c.stores.Bestiary == nil {
		return ComposeResponse{}, fmt.Errorf("bestiary store is not configured")
	}

	tier, err := bestiary.ParseDifficulty(request.Difficulty)
	if err != nil {
		return ComposeResponse{}, err
	}
	rarity := encounter.RarityAny
	if strings.TrimSpace(request.Rarity) != "" {
		rarity, err = bestiary.ParseRarity(request.Rarity)
		if err != nil {
			return ComposeResponse{}, err
		}
	}
	party, err := bestiary.PartyProfileFromLevels(request.PartyLevels)
	if err != nil {
		return ComposeResponse{}, err
	}

	seed, err := c.resolveSeed(request.Seed)
	if err != nil {
		return ComposeResponse{}, err
	}

	pool, err := c.snapshotPool(ctx, party.AverageLevel)
	if err != nil {
		c.emit(ctx, "compose", telemetry.OutcomeError, err.Error())
		return ComposeResponse{}, err
	}

	result, err := encounter.Compose(encounter.Request{
		Pool:       pool,
		Difficulty: tier,
		Party:      party,
		Trait:      request.Trait,
		Rarity:     rarity,
		Seed:       seed,
	})
	if err != nil {
		return ComposeResponse{}, err
	}

	span.SetAttributes(
		attribute.String("encounter.difficulty", string(tier)),
		attribute.Int("encounter.budget", result.Budget),
		attribute.Int("encounter.spent", result.Spent),
		attribute.Int("encounter.chosen", len(result.Chosen)),
	)

	response, err := c.buildResponse(party, request, seed, result)
	if err != nil {
		return ComposeResponse{}, err
	}

	if err := c.persist(ctx, request, party, tier, rarity, response); err != nil {
		c.emit(ctx, "compose", telemetry.OutcomeError, err.Error())
		return ComposeResponse{}, err
	}

	outcome := telemetry.OutcomeOK
	if len(response.Entries) == 0 {
		outcome = telemetry.OutcomeEmpty
	}
	c.emit(ctx, "compose", outcome, fmt.Sprintf("%d entries, %d/%d XP", len(response.Entries), response.Spent, response.Budget))

	return response, nil
}

// GetEncounter returns one persisted encounter by ID.
func (c *Composer) GetEncounter(ctx context.Context, encounterID string) (storage.SavedEncounter, error) {
	if c.stores.Encounter == nil {
		return storage.SavedEncounter{}, fmt.Errorf("encounter store is not configured")
	}
	return c.stores.Encounter.GetEncounter(ctx, encounterID)
}

// ListEncounters returns recent persisted encounters.
func (c *Composer) ListEncounters(ctx context.Context, limit int) ([]storage.SavedEncounter, error) {
	if c.stores.Encounter == nil {
		return nil, fmt.Errorf("encounter store is not configured")
	}
	return c.stores.Encounter.ListEncounters(ctx, limit)
}

func (c *Composer) resolveSeed(pinned *int64) (int64, error) {
	if pinned != nil {
		return *pinned, nil
	}
	seed, err := c.seedSource()
	if err != nil {
		return 0, fmt.Errorf("derive seed: %w", err)
	}
	return seed, nil
}

// snapshotPool fetches the candidate entries around the party average
// level. The snapshot isolates the run from concurrent bestiary writes.
func (c *Composer) snapshotPool(ctx context.Context, apl int) ([]encounter.MonsterEntry, error) {
	minLevel := apl - 3
	maxLevel := apl + 2
	pool, err := c.stores.Bestiary.ListMonsters(ctx, storage.MonsterFilter{
		MinLevel: &minLevel,
		MaxLevel: &maxLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot candidate pool: %w", err)
	}
	return pool, nil
}

func (c *Composer) buildResponse(party encounter.PartyProfile, request ComposeRequest, seed int64, result encounter.Result) (ComposeResponse, error) {
	encounterID, err := c.idGenerator()
	if err != nil {
		return ComposeResponse{}, fmt.Errorf("generate encounter id: %w", err)
	}

	gridSize := request.GridSize
	if gridSize <= 0 {
		gridSize = defaultGridSize
	}
	points := placement.Place(request.Origin, gridSize, request.SnapToGrid, len(result.Chosen))

	entries := make([]ComposedEntry, 0, len(result.Chosen))
	for i, chosen := range result.Chosen {
		cost, _ := encounter.Cost(chosen.Level, party.AverageLevel)
		entries = append(entries, ComposedEntry{
			MonsterID: chosen.ID,
			Name:      chosen.Name,
			Level:     chosen.Level,
			Cost:      cost,
			Traits:    chosen.Traits,
			SourceRef: chosen.SourceRef,
			X:         points[i].X,
			Y:         points[i].Y,
		})
	}

	return ComposeResponse{
		ID:      encounterID,
		Budget:  result.Budget,
		Spent:   result.Spent,
		Seed:    seed,
		Entries: entries,
	}, nil
}

func (c *Composer) persist(ctx context.Context, request ComposeRequest, party encounter.PartyProfile, tier encounter.Difficulty, rarity encounter.Rarity, response ComposeResponse) error {
	if c.stores.Encounter == nil {
		return nil
	}

	saved := storage.SavedEncounter{
		ID:           response.ID,
		Difficulty:   string(tier),
		Trait:        strings.TrimSpace(request.Trait),
		Rarity:       string(rarity),
		PartySize:    party.Size,
		AverageLevel: party.AverageLevel,
		Budget:       response.Budget,
		Spent:        response.Spent,
		Seed:         response.Seed,
		CreatedAt:    c.clock().UTC(),
	}
	for _, entry := range response.Entries {
		saved.Entries = append(saved.Entries, storage.ChosenEntry{
			MonsterID: entry.MonsterID,
			Name:      entry.Name,
			Level:     entry.Level,
			Cost:      entry.Cost,
			X:         entry.X,
			Y:         entry.Y,
		})
	}
	if err := c.stores.Encounter.SaveEncounter(ctx, saved); err != nil {
		return fmt.Errorf("persist encounter: %w", err)
	}
	return nil
}

func (c *Composer) emit(ctx context.Context, operation, outcome, detail string) {
	if c.emitter == nil {
		return
	}
	_ = c.emitter.Emit(ctx, storage.TelemetryEvent{
		Component: "composer",
		Operation: operation,
		Outcome:   outcome,
		Detail:    detail,
	})
}
