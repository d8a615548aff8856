package migrations

import "embed"

// FS contains embedded SQLite migrations for the events API.
//
//go:embed *.sql
var FS embed.FS
