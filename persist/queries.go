package persist

import (
	"context"
	"database/sql"
	"log/slog"
)

// One enforces the single-result contract on an already collected result.
func One[T any](collection []T) (*T, error) {
	if len(collection) == 0 {
		return nil, sql.ErrNoRows
	} else if len(collection) > 1 {
		return nil, ErrTooManyResults
	}

	return &collection[0], nil
}

func Collect[T any](ctx context.Context, db DBTX, q Q, scans RowScan[T]) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	return CollectSQL(ctx, db, query, args, scans)
}

// CollectSQL scans the rows of a raw query. Columns must be selected in the order the
// scans expect them.
func CollectSQL[T any](ctx context.Context, db DBTX, query string, args []any, scans RowScan[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Default().Error("Collect: failed to close rows", "error", err.Error())
		}
	}()

	var collection []T
	for rows.Next() {
		var t T
		pointers, actions := scans(&t)
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		if actions != nil {
			actions()
		}
		collection = append(collection, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collection, nil
}
