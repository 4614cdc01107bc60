package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-sync-api/migrations"
)

// EnsureSchema creates the schema and its tables if they do not exist yet.
// DB_NAME picks the schema, so a fresh name works without manual setup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if schema == "" {
		schema = "public"
	}
	name := pgx.Identifier{schema}.Sanitize()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+name); err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}
	// DDL миграции без схемы, поэтому направляем её через search_path
	if _, err := tx.Exec(ctx, "SET LOCAL search_path TO "+name); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, migrations.Up); err != nil {
		return fmt.Errorf("apply migrations to %s: %w", schema, err)
	}
	return tx.Commit(ctx)
}
