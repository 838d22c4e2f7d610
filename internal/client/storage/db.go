// Package storage opens the client's local store and brings its schema up to
// date. SQLite is the default; a postgres:// DSN switches to PostgreSQL via
// the pgx stdlib driver so several clients can share one balance ledger.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/senselib/f8client/internal/client/migrations"
	"github.com/senselib/f8client/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB is an open store together with its dialect.
type DB struct {
	*sql.DB
	Dialect dbx.Dialect
}

// RunMigrations applies the embedded migrations. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open connects to dsn, picking the driver from its form, and migrates it.
func Open(ctx context.Context, dsn string) (*DB, error) {
	dialect := dbx.DialectFromDSN(dsn)

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	if dialect == dbx.DialectSQLite {
		// One writer at a time; also keeps ":memory:" on a single connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s store: %w", dialect, err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s store: %w", dialect, err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}
