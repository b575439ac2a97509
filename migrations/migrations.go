// Package migrations embeds the schema migrations for every supported dialect and runs
// them with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	"pollex.nl/bookshelf/persist"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

func gooseDialect(dialect persist.Dialect) (goose.Dialect, error) {
	switch dialect.Name {
	case persist.SQLite.Name:
		return goose.DialectSQLite3, nil
	case persist.Postgres.Name:
		return goose.DialectPostgres, nil
	}

	return "", fmt.Errorf("%w: %q", persist.ErrUnknownDialect, dialect.Name)
}

func newProvider(db *sql.DB, dialect persist.Dialect) (*goose.Provider, error) {
	gd, err := gooseDialect(dialect)
	if err != nil {
		return nil, err
	}

	fsys, err := fs.Sub(Migrations, dialect.Name)
	if err != nil {
		return nil, err
	}

	return goose.NewProvider(gd, db, fsys)
}

// Up applies every pending migration for dialect.
func Up(ctx context.Context, db *sql.DB, dialect persist.Dialect, logger *slog.Logger) error {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrations up: %w", err)
	}

	for _, result := range results {
		logger.InfoContext(ctx, "migration applied",
			"version", result.Source.Version,
			"path", result.Source.Path,
			"duration", result.Duration,
		)
	}

	return nil
}

// Version reports the version of the last applied migration.
func Version(ctx context.Context, db *sql.DB, dialect persist.Dialect) (int64, error) {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return 0, fmt.Errorf("migrations: %w", err)
	}

	return provider.GetDBVersion(ctx)
}
