// Package mcp parses MCP command flags and serves the composer tools over
// stdio.
package mcp

import (
	"context"
	"flag"
	"fmt"

	"github.com/louisbranch/encounterforge/internal/bootstrap"
	composersvc "github.com/louisbranch/encounterforge/internal/composer/service"
	platformcmd "github.com/louisbranch/encounterforge/internal/platform/cmd"
	mcpservice "github.com/louisbranch/encounterforge/internal/services/mcp/service"
	"github.com/louisbranch/encounterforge/internal/storage/sqlite"
	"github.com/louisbranch/encounterforge/internal/telemetry"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath string `env:"ENCOUNTERFORGE_DB_PATH" envDefault:"encounterforge.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the bestiary database")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter on stdio.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
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

		server, err := mcpservice.New(composer, store)
		if err != nil {
			return err
		}
		return server.Serve(ctx)
	})
}
