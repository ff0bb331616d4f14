// Package persistence хранит магазины и отчёты в Postgres или SQLite.
// Запросы пишутся с "?" и проходят через db.Rebind.
package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"storepilot/internal/domain"
	"storepilot/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsPattern = "migrations/*.sql"

// Migrate applies every migration in lexical order. All of them are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	names, err := fs.Glob(Migrations, MigrationsPattern)
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}

	sort.Strings(names)

	for _, name := range names {
		b, err := Migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("Migrations.ReadFile: %w", err)
		}

		if _, err := db.ExecContext(ctx, string(b)); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "migration "+name+" failed")
		}
	}

	return nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}
