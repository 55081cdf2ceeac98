// Package migrations embeds the keybook schema for each supported database.
package migrations

import "embed"

// SqliteMigrations holds the schema for sqlite:// keybooks.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

// PostgresMigrations holds the schema for postgres:// keybooks.
//
//go:embed postgres/*.sql
var PostgresMigrations embed.FS
