package migrations

import "embed"

// FS contains embedded SQLite migrations for EncounterForge storage.
//
//go:embed *.sql
var FS embed.FS
