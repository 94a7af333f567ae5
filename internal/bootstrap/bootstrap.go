// Package bootstrap ensures host-owned named resources exist at startup.
//
// The host environment owns a set of named resources (bestiary packs) that
// commands expect to find on every run. Ensure performs an idempotent
// upsert: look the resource up by name, create it when missing, and treat a
// concurrent create as success.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/encounterforge/internal/storage"
)

// DefaultPackName is the bestiary pack created when none is specified.
const DefaultPackName = "core-bestiary"

// Ensure makes sure the named pack exists in the store. Re-running it never
// duplicates the resource.
func Ensure(ctx context.Context, store storage.PackStore, name string) error {
	if store == nil {
		return fmt.Errorf("pack store is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPackName
	}

	_, err := store.GetPackByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("look up pack %s: %w", name, err)
	}

	err = store.CreatePack(ctx, storage.Pack{Name: name, CreatedAt: time.Now().UTC()})
	if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		return fmt.Errorf("create pack %s: %w", name, err)
	}
	return nil
}
