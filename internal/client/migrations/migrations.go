// Package migrations embeds the goose migrations of the local store. The
// SQL is kept to the subset shared by SQLite and PostgreSQL.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
