package migrations

import "embed"

// FS contains embedded SQLite migrations for tournament storage.
//
//go:embed *.sql
var FS embed.FS
