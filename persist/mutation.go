package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

// ErrNoKey is returned by writes on a schema that has no key declared with WithKey.
var ErrNoKey = errors.New("schema has no key")

// Insert writes all writable columns of t and scans the key assigned by the database
// back into t.
func (schema *ModelSchema[T]) Insert(ctx context.Context, db DBTX, t *T) error {
	if schema.keyPtr == nil {
		return fmt.Errorf("%w: %s", ErrNoKey, schema.Table)
	}

	fields := schema.writableFields()
	query, args, err := squirrel.Insert(schema.Table).
		Columns(lo.Map(fields, func(f FieldType[T], _ int) string { return f.Column })...).
		Values(lo.Map(fields, func(f FieldType[T], _ int) any { return f.Value(t) })...).
		Suffix("RETURNING " + schema.Key).
		ToSql()
	if err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(schema.keyPtr(t)); err != nil {
		return err
	}

	return rows.Close()
}

// Update overwrites all writable columns of the row with t's key and reports how many
// rows were changed.
func (schema *ModelSchema[T]) Update(ctx context.Context, db DBTX, t *T) (int64, error) {
	if schema.keyPtr == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoKey, schema.Table)
	}

	q := squirrel.Update(schema.Table)
	for _, field := range schema.writableFields() {
		q = q.Set(field.Column, field.Value(t))
	}

	query, args, err := q.Where(squirrel.Eq{schema.Key: Deref(schema.keyPtr)(t)}).ToSql()
	if err != nil {
		return 0, err
	}

	return execAffected(ctx, db, query, args)
}

func (schema *ModelSchema[T]) Delete(ctx context.Context, db DBTX, id any) (int64, error) {
	if schema.keyPtr == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoKey, schema.Table)
	}

	query, args, err := squirrel.Delete(schema.Table).
		Where(squirrel.Eq{schema.Key: id}).
		ToSql()
	if err != nil {
		return 0, err
	}

	return execAffected(ctx, db, query, args)
}

// Get loads one model by key. Without fields every field is selected.
func (schema *ModelSchema[T]) Get(ctx context.Context, db DBTX, id any, fields ...string) (*T, error) {
	if schema.keyPtr == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoKey, schema.Table)
	}

	return schema.Query(fields...).
		ModifyQuery(WhereCol(schema.Key, id)).
		CollectOne(ctx, db)
}

func execAffected(ctx context.Context, db DBTX, query string, args []any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
