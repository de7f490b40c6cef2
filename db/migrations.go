// Package db embeds the SQL migrations applied by goose.
package db

import "embed"

// Migrations holds the versioned SQL files under migrations/sql.
//
//go:embed migrations/sql/*.sql
var Migrations embed.FS

// MigrationsDir is the path of the SQL files inside Migrations.
const MigrationsDir = "migrations/sql"
