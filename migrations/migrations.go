// Package migrations holds the schema migrations run on startup.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry the migrator runs against.
var Migrations = migrate.NewMigrations()
