package persist

import (
	"context"
	"database/sql"
)

// DBTX is what queries and writes run on. *sql.DB, *sql.Tx, *sql.Conn and *Session all
// satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
