package persist

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type ModelSchema[T any] struct {
	Table     string
	Key       string
	Fields    map[string]FieldType[T]
	Relations map[string]Relation[T]
	QueryMods []QueryMod

	keyPtr func(t *T) any
}

func New[T any](table string) *ModelSchema[T] {
	model := &ModelSchema[T]{
		Table:     table,
		Fields:    map[string]FieldType[T]{},
		Relations: make(map[string]Relation[T]),
	}

	return model
}

// WithKey declares the surrogate key column. The key is selectable like any other field,
// is never written, and is scanned back into ptr after an insert.
func (schema *ModelSchema[T]) WithKey(column string, ptr func(t *T) any) *ModelSchema[T] {
	schema.Key = column
	schema.keyPtr = ptr

	return schema.AddField(column, Col(column), Ptr(ptr))
}

func (schema *ModelSchema[T]) AddField(
	name string,
	mod QueryMod,
	rowScan RowScan[T],
) *ModelSchema[T] {
	schema.Fields[name] = Field(mod, rowScan)

	return schema
}

func (schema *ModelSchema[T]) AddFieldType(name string, field FieldType[T]) *ModelSchema[T] {
	schema.Fields[name] = field

	return schema
}

// AddSimpleField When the field name is the same as the column name and maps directly, use this.
func (schema *ModelSchema[T]) AddSimpleField(name string, ptr func(t *T) any) *ModelSchema[T] {
	schema = schema.AddField(name, Col(name), Ptr(ptr))

	return schema
}

// AddColumn is AddSimpleField for a column that is also written on insert and update.
func (schema *ModelSchema[T]) AddColumn(name string, ptr func(t *T) any) *ModelSchema[T] {
	return schema.AddFieldType(name, Column(name, ptr))
}

func (schema *ModelSchema[T]) AddRelation(name string, relation Relation[T]) *ModelSchema[T] {
	schema.Relations[name] = relation

	return schema
}

func (schema *ModelSchema[T]) ModifyQuery(mod QueryMod) *ModelSchema[T] {
	schema.QueryMods = append(schema.QueryMods, mod)

	return schema
}

func (schema *ModelSchema[T]) Query(fields ...string) ModelQuery[T] {
	return newModelQuery(*schema, fields...)
}

// Scan returns a row scanner for the named fields in the given order. It is meant for
// hand-written SQL whose select list matches fields.
func (schema *ModelSchema[T]) Scan(fields ...string) (RowScan[T], error) {
	scans := make([]RowScan[T], 0, len(fields))
	for _, name := range fields {
		field, ok := schema.Fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchField, name)
		}
		scans = append(scans, field.RowScan)
	}

	return flattenRowScan(scans), nil
}

func (schema *ModelSchema[T]) Check(field string) error {
	field, rest := isNested(field)

	if field == "" {
		return nil
	}

	if schema.hasRelation(field) {
		if err := schema.Relations[field].Check(rest); err != nil {
			return err
		}
		return nil
	}

	if schema.hasField(field) {
		if rest != "" {
			return fmt.Errorf("%w: %s", ErrNoSuchField, field)
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNoSuchField, field)
}

func (schema *ModelSchema[T]) hasRelation(name string) bool {
	_, ok := schema.Relations[name]
	return ok
}

func (schema *ModelSchema[T]) hasField(name string) bool {
	_, ok := schema.Fields[name]
	return ok
}

// fieldNames are sorted so generated SQL is stable.
func (schema *ModelSchema[T]) fieldNames() []string {
	names := lo.Keys(schema.Fields)
	slices.Sort(names)
	return names
}

func (schema *ModelSchema[T]) writableFields() []FieldType[T] {
	return lo.FilterMap(schema.fieldNames(), func(name string, _ int) (FieldType[T], bool) {
		field := schema.Fields[name]
		return field, field.writable() && field.Column != schema.Key
	})
}
