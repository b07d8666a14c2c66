package db

import "embed"

// MigrationFS embeds the SQL migration files from internal/db/migrations.
// Used by the migrate runner (cmd/migrate) to apply schema changes.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
