// Package composer parses composer CLI flags and runs one composition
// against the local bestiary database.
package composer

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/encounterforge/internal/bootstrap"
	composersvc "github.com/louisbranch/encounterforge/internal/composer/service"
	"github.com/louisbranch/encounterforge/internal/core/placement"
	platformcmd "github.com/louisbranch/encounterforge/internal/platform/cmd"
	"github.com/louisbranch/encounterforge/internal/report"
	"github.com/louisbranch/encounterforge/internal/storage/sqlite"
	"github.com/louisbranch/encounterforge/internal/telemetry"
)

// Config holds composer command configuration.
type Config struct {
	DBPath string `env:"ENCOUNTERFORGE_DB_PATH" envDefault:"encounterforge.db"`
	Locale string `env:"ENCOUNTERFORGE_LOCALE"  envDefault:"en-US"`

	Difficulty  string
	PartyLevels []int
	Trait       string
	Rarity      string
	Seed        int64
	SeedSet     bool
	OriginX     float64
	OriginY     float64
	GridSize    float64
	SnapToGrid  bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	var party string
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the bestiary database")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "report locale (en-US, pt-BR)")
	fs.StringVar(&cfg.Difficulty, "difficulty", "moderate", "difficulty tier (trivial, low, moderate, severe, extreme)")
	fs.StringVar(&party, "party", "", "comma-separated party member levels, e.g. 3,3,4,4")
	fs.StringVar(&cfg.Trait, "trait", "", "trait filter for the monster pool")
	fs.StringVar(&cfg.Rarity, "rarity", "", "rarity filter (any, common, uncommon, rare, unique)")
	fs.Int64Var(&cfg.Seed, "seed", 0, "seed for reproducible composition (omit for random)")
	fs.Float64Var(&cfg.OriginX, "origin-x", 0, "x coordinate of the placement origin")
	fs.Float64Var(&cfg.OriginY, "origin-y", 0, "y coordinate of the placement origin")
	fs.Float64Var(&cfg.GridSize, "grid-size", 0, "scene grid cell size")
	fs.BoolVar(&cfg.SnapToGrid, "snap", false, "snap placed positions to the grid")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	levels, err := parsePartyLevels(party)
	if err != nil {
		return Config{}, err
	}
	cfg.PartyLevels = levels

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.SeedSet = true
		}
	})
	return cfg, nil
}

// parsePartyLevels parses a comma-separated list of member levels.
func parsePartyLevels(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	levels := make([]int, 0, len(parts))
	for _, part := range parts {
		level, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid party level %q: %w", part, err)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// Run composes one encounter and renders the localized report to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceComposer, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open bestiary database: %w", err)
		}
		defer store.Close()

		if err := bootstrap.Ensure(ctx, store, bootstrap.DefaultPackName); err != nil {
			return err
		}

		composer := composersvc.NewComposer(
			composersvc.Stores{Bestiary: store, Encounter: store},
			composersvc.WithEmitter(telemetry.NewEmitter(store)),
		)

		var seed *int64
		if cfg.SeedSet {
			seed = &cfg.Seed
		}
		response, err := composer.Compose(ctx, composersvc.ComposeRequest{
			Difficulty:  cfg.Difficulty,
			PartyLevels: cfg.PartyLevels,
			Trait:       cfg.Trait,
			Rarity:      cfg.Rarity,
			Seed:        seed,
			Origin:      placement.Point{X: cfg.OriginX, Y: cfg.OriginY},
			GridSize:    cfg.GridSize,
			SnapToGrid:  cfg.SnapToGrid,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(out, renderResponse(cfg, response))
		return nil
	})
}

// renderResponse collapses the composed entries into report lines and
// renders them in the configured locale.
func renderResponse(cfg Config, response composersvc.ComposeResponse) string {
	names := make([]string, 0, len(response.Entries))
	levels := make([]int, 0, len(response.Entries))
	costs := make([]int, 0, len(response.Entries))
	for _, entry := range response.Entries {
		names = append(names, entry.Name)
		levels = append(levels, entry.Level)
		costs = append(costs, entry.Cost)
	}
	return report.Render(cfg.Locale, report.Encounter{
		Difficulty: cfg.Difficulty,
		Budget:     response.Budget,
		Spent:      response.Spent,
		Lines:      report.Collapse(names, levels, costs),
	})
}
