// Package importer loads bestiary pack files into the local database.
package importer

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/louisbranch/encounterforge/internal/bestiary"
	"github.com/louisbranch/encounterforge/internal/bootstrap"
	"github.com/louisbranch/encounterforge/internal/id"
	platformcmd "github.com/louisbranch/encounterforge/internal/platform/cmd"
	"github.com/louisbranch/encounterforge/internal/storage/sqlite"
)

// Config holds importer command configuration.
type Config struct {
	DBPath string `env:"ENCOUNTERFORGE_DB_PATH" envDefault:"encounterforge.db"`

	File string
	Pack string
}

// packFile is the on-disk bestiary pack format.
type packFile struct {
	Name     string            `json:"name"`
	Monsters []bestiary.Record `json:"monsters"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the bestiary database")
	fs.StringVar(&cfg.File, "file", "", "path to the bestiary pack JSON file")
	fs.StringVar(&cfg.Pack, "pack", "", "pack name override (default: name from the file)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.File) == "" {
		return Config{}, fmt.Errorf("pack file is required")
	}
	return cfg, nil
}

// Run imports the pack file into the database and reports the count to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceImporter, func(ctx context.Context) error {
		pack, err := loadPack(cfg.File)
		if err != nil {
			return err
		}

		packName := strings.TrimSpace(cfg.Pack)
		if packName == "" {
			packName = strings.TrimSpace(pack.Name)
		}
		if packName == "" {
			packName = bootstrap.DefaultPackName
		}

		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open bestiary database: %w", err)
		}
		defer store.Close()

		if err := bootstrap.Ensure(ctx, store, packName); err != nil {
			return err
		}

		imported, err := importRecords(ctx, store, pack.Monsters)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "imported %d monsters into pack %q\n", imported, packName)
		return nil
	})
}

// loadPack reads and decodes a pack file.
func loadPack(path string) (packFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return packFile{}, fmt.Errorf("read pack file: %w", err)
	}
	var pack packFile
	if err := json.Unmarshal(data, &pack); err != nil {
		return packFile{}, fmt.Errorf("decode pack file: %w", err)
	}
	return pack, nil
}

// importRecords validates and upserts each record. Records without an
// identifier are assigned a fresh one.
func importRecords(ctx context.Context, store *sqlite.Store, records []bestiary.Record) (int, error) {
	imported := 0
	for i, record := range records {
		if strings.TrimSpace(record.ID) == "" {
			generated, err := id.NewID()
			if err != nil {
				return imported, fmt.Errorf("generate monster id: %w", err)
			}
			record.ID = generated
		}
		entry, err := record.ToEntry()
		if err != nil {
			return imported, fmt.Errorf("monster %d (%s): %w", i, record.Name, err)
		}
		if err := store.PutMonster(ctx, entry); err != nil {
			return imported, fmt.Errorf("store monster %q: %w", entry.ID, err)
		}
		imported++
	}
	return imported, nil
}
