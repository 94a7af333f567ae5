// Package domain defines the MCP tool payloads and handlers for the
// encounter composer surface.
package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/encounterforge/internal/bestiary"
	composersvc "github.com/louisbranch/encounterforge/internal/composer/service"
	"github.com/louisbranch/encounterforge/internal/core/encounter"
	"github.com/louisbranch/encounterforge/internal/core/placement"
	"github.com/louisbranch/encounterforge/internal/storage"
)

// ComposeEncounterInput represents the MCP tool input for composing an encounter.
type ComposeEncounterInput struct {
	Difficulty  string  `json:"difficulty" jsonschema:"difficulty tier (trivial, low, moderate, severe, extreme)"`
	PartyLevels []int   `json:"party_levels" jsonschema:"character levels of the party members"`
	Trait       string  `json:"trait,omitempty" jsonschema:"optional trait filter for the monster pool"`
	Rarity      string  `json:"rarity,omitempty" jsonschema:"optional rarity filter (any, common, uncommon, rare, unique)"`
	Seed        *int64  `json:"seed,omitempty" jsonschema:"optional seed for reproducible composition"`
	OriginX     float64 `json:"origin_x,omitempty" jsonschema:"x coordinate of the placement origin"`
	OriginY     float64 `json:"origin_y,omitempty" jsonschema:"y coordinate of the placement origin"`
	GridSize    float64 `json:"grid_size,omitempty" jsonschema:"grid cell size used for placement"`
	SnapToGrid  bool    `json:"snap_to_grid,omitempty" jsonschema:"snap placed positions to the grid"`
}

// ComposedMonster represents one placed monster in a composed encounter.
type ComposedMonster struct {
	MonsterID string  `json:"monster_id" jsonschema:"bestiary identifier of the monster"`
	Name      string  `json:"name" jsonschema:"monster name"`
	Level     int     `json:"level" jsonschema:"monster level"`
	Cost      int     `json:"cost" jsonschema:"budget cost charged for this monster"`
	X         float64 `json:"x" jsonschema:"x coordinate of the placed monster"`
	Y         float64 `json:"y" jsonschema:"y coordinate of the placed monster"`
}

// ComposeEncounterResult represents the MCP tool output for a composed encounter.
type ComposeEncounterResult struct {
	EncounterID string            `json:"encounter_id" jsonschema:"identifier of the saved encounter"`
	Budget      int               `json:"budget" jsonschema:"derived encounter budget"`
	Spent       int               `json:"spent" jsonschema:"budget spent by the selection"`
	Seed        int64             `json:"seed" jsonschema:"seed used for composition"`
	Monsters    []ComposedMonster `json:"monsters" jsonschema:"placed monsters in selection order"`
}

// DeriveBudgetInput represents the MCP tool input for budget derivation.
type DeriveBudgetInput struct {
	Difficulty string `json:"difficulty" jsonschema:"difficulty tier (trivial, low, moderate, severe, extreme)"`
	PartySize  int    `json:"party_size" jsonschema:"number of party members"`
}

// DeriveBudgetResult represents the MCP tool output for budget derivation.
type DeriveBudgetResult struct {
	Budget int `json:"budget" jsonschema:"encounter budget in points"`
}

// ListMonstersInput represents the MCP tool input for listing the bestiary.
type ListMonstersInput struct {
	MinLevel *int `json:"min_level,omitempty" jsonschema:"minimum monster level, inclusive"`
	MaxLevel *int `json:"max_level,omitempty" jsonschema:"maximum monster level, inclusive"`
	Limit    int  `json:"limit,omitempty" jsonschema:"maximum number of monsters to return"`
}

// MonsterSummary represents one bestiary entry in a listing.
type MonsterSummary struct {
	ID     string   `json:"id" jsonschema:"bestiary identifier"`
	Name   string   `json:"name" jsonschema:"monster name"`
	Level  int      `json:"level" jsonschema:"monster level"`
	Traits []string `json:"traits,omitempty" jsonschema:"monster traits"`
	Rarity string   `json:"rarity" jsonschema:"monster rarity"`
}

// ListMonstersResult represents the MCP tool output for a bestiary listing.
type ListMonstersResult struct {
	Monsters []MonsterSummary `json:"monsters" jsonschema:"bestiary entries ordered by level"`
}

// ComposeEncounterTool defines the MCP tool schema for composing encounters.
func ComposeEncounterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "compose_encounter",
		Description: "Composes a budget-constrained random encounter for a party",
	}
}

// DeriveBudgetTool defines the MCP tool schema for budget derivation.
func DeriveBudgetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "derive_budget",
		Description: "Derives the encounter point budget for a difficulty and party size",
	}
}

// ListMonstersTool defines the MCP tool schema for bestiary listings.
func ListMonstersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_monsters",
		Description: "Lists bestiary monsters, optionally bounded by level",
	}
}

// ComposeEncounterHandler creates the MCP handler for composing encounters.
func ComposeEncounterHandler(composer *composersvc.Composer) mcp.ToolHandlerFor[ComposeEncounterInput, ComposeEncounterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ComposeEncounterInput) (*mcp.CallToolResult, ComposeEncounterResult, error) {
		response, err := composer.Compose(ctx, composersvc.ComposeRequest{
			Difficulty:  input.Difficulty,
			PartyLevels: input.PartyLevels,
			Trait:       input.Trait,
			Rarity:      input.Rarity,
			Seed:        input.Seed,
			Origin:      placement.Point{X: input.OriginX, Y: input.OriginY},
			GridSize:    input.GridSize,
			SnapToGrid:  input.SnapToGrid,
		})
		if err != nil {
			return nil, ComposeEncounterResult{}, fmt.Errorf("compose encounter: %w", err)
		}

		result := ComposeEncounterResult{
			EncounterID: response.ID,
			Budget:      response.Budget,
			Spent:       response.Spent,
			Seed:        response.Seed,
			Monsters:    make([]ComposedMonster, 0, len(response.Entries)),
		}
		for _, entry := range response.Entries {
			result.Monsters = append(result.Monsters, ComposedMonster{
				MonsterID: entry.MonsterID,
				Name:      entry.Name,
				Level:     entry.Level,
				Cost:      entry.Cost,
				X:         entry.X,
				Y:         entry.Y,
			})
		}
		return nil, result, nil
	}
}

// DeriveBudgetHandler creates the MCP handler for budget derivation.
func DeriveBudgetHandler() mcp.ToolHandlerFor[DeriveBudgetInput, DeriveBudgetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DeriveBudgetInput) (*mcp.CallToolResult, DeriveBudgetResult, error) {
		tier, err := bestiary.ParseDifficulty(input.Difficulty)
		if err != nil {
			return nil, DeriveBudgetResult{}, err
		}
		budget, err := encounter.DeriveBudget(tier, input.PartySize)
		if err != nil {
			return nil, DeriveBudgetResult{}, err
		}
		return nil, DeriveBudgetResult{Budget: budget}, nil
	}
}

// ListMonstersHandler creates the MCP handler for bestiary listings.
func ListMonstersHandler(store storage.BestiaryStore) mcp.ToolHandlerFor[ListMonstersInput, ListMonstersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListMonstersInput) (*mcp.CallToolResult, ListMonstersResult, error) {
		entries, err := store.ListMonsters(ctx, storage.MonsterFilter{
			MinLevel: input.MinLevel,
			MaxLevel: input.MaxLevel,
			Limit:    input.Limit,
		})
		if err != nil {
			return nil, ListMonstersResult{}, fmt.Errorf("list monsters: %w", err)
		}

		result := ListMonstersResult{Monsters: make([]MonsterSummary, 0, len(entries))}
		for _, entry := range entries {
			result.Monsters = append(result.Monsters, MonsterSummary{
				ID:     entry.ID,
				Name:   entry.Name,
				Level:  entry.Level,
				Traits: entry.Traits,
				Rarity: string(entry.Rarity),
			})
		}
		return nil, result, nil
	}
}
