package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the Postgres schema history. Files are named
// <timestamp>_<name>.go so bun can derive migration names.
var Migrations = migrate.NewMigrations()
