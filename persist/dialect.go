package persist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrUnknownDialect is returned by ParseDialect for names it does not know.
	ErrUnknownDialect = errors.New("unknown dialect")
	// ErrConstraint wraps driver errors caused by a violated integrity constraint.
	ErrConstraint = errors.New("constraint violation")
)

// Dialect ties a database/sql driver name to the placeholder style of its SQL.
type Dialect struct {
	Name        string
	Driver      string
	Placeholder squirrel.PlaceholderFormat
}

var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite3", Placeholder: squirrel.Question}
	Postgres = Dialect{Name: "postgres", Driver: "pgx", Placeholder: squirrel.Dollar}
)

func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}

	return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

func (d Dialect) String() string {
	return d.Name
}

// Rebind rewrites `?` placeholders into the dialect's own style.
func (d Dialect) Rebind(query string) (string, error) {
	if d.Placeholder == nil {
		return query, nil
	}

	return d.Placeholder.ReplacePlaceholders(query)
}

// TranslateError marks constraint violations reported by either driver with
// ErrConstraint. Other errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}

	// SQLSTATE class 23 is "integrity constraint violation".
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}

	return err
}
