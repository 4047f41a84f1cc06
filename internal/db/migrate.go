package db

import (
	"context"
	"database/sql"

	"github.com/pinmapa/pinmapa-backend/internal/db/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded schema migrations against the given
// connection. Safe to run on every boot; goose tracks applied versions.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
