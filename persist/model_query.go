package persist

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

var (
	// ErrNoSuchField is returned when there is no field or no relation with that name.
	ErrNoSuchField = errors.New("field does not exist")
	// ErrNoSuchRelation is returned only when trying to select a nested field on a relation that does not exist.
	ErrNoSuchRelation = errors.New("relation does not exist")
	// ErrTooManyResults is returned when CollectOne is called but returned many models
	ErrTooManyResults = errors.New("too many result for CollectOne")
)

type ModelQuery[T any] struct {
	schema ModelSchema[T]

	selectedFields         map[string]FieldType[T]
	selectedRelations      map[string]Relation[T]
	selectedRelationFields map[string][]string
	tableAlias             string
	queryMods              []QueryMod

	errors []error
}

func newModelQuery[T any](schema ModelSchema[T], fields ...string) ModelQuery[T] {
	query := ModelQuery[T]{
		schema:                 schema,
		selectedFields:         map[string]FieldType[T]{},
		selectedRelations:      map[string]Relation[T]{},
		selectedRelationFields: map[string][]string{},
		tableAlias:             schema.Table,
		queryMods:              []QueryMod{},
		errors:                 []error{},
	}

	return query.Select(fields...)
}

func (model ModelQuery[T]) ModifyQuery(mod QueryMod) ModelQuery[T] {
	model.queryMods = append(slices.Clip(model.queryMods), mod)

	return model
}

func (model ModelQuery[T]) Where(pred any, args ...any) ModelQuery[T] {
	return model.ModifyQuery(Where(pred, args...))
}

func (model ModelQuery[T]) OrderBy(cols ...string) ModelQuery[T] {
	return model.ModifyQuery(OrderBy(cols...))
}

func (model ModelQuery[T]) Select(fieldNames ...string) ModelQuery[T] {
	// The maps are shared with the query this one was copied from.
	model.selectedFields = maps.Clone(model.selectedFields)
	model.selectedRelations = maps.Clone(model.selectedRelations)
	model.selectedRelationFields = maps.Clone(model.selectedRelationFields)

	if len(fieldNames) == 0 {
		model.selectAllFields()
		return model
	}

	for _, name := range fieldNames {
		model.resolveSelect(name)
	}

	return model
}

func (model *ModelQuery[T]) resolveSelect(name string) {
	field, rest := isNested(name)

	if field == "*" {
		if rest != "" {
			model.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}

		model.selectAllFields()
		return
	}

	if model.schema.hasRelation(field) {
		if rest != "" && rest != "*" {
			// Validate the chosen nested field.
			if err := model.schema.Relations[field].Check(rest); err != nil {
				model.addError(err)
				return
			}
		}
		model.selectRelation(field, rest)
		return
	}

	if model.schema.hasField(field) {
		// Fields cannot have nesting
		if rest != "" {
			model.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}
		model.selectField(field)
		return
	}

	// Error
	model.addError(fmt.Errorf("%w: %s", ErrNoSuchField, field))
}

func (model *ModelQuery[T]) selectAllFields() {
	for name := range model.schema.Fields {
		model.selectedFields[name] = model.schema.Fields[name]
	}
}

func (model *ModelQuery[T]) selectField(name string) {
	model.selectedFields[name] = model.schema.Fields[name]
}

func (model *ModelQuery[T]) selectRelation(relName, relField string) {
	if relField == "" {
		relField = "*"
	}

	model.selectedRelations[relName] = model.schema.Relations[relName]

	if model.selectedRelationFields[relName] == nil {
		model.selectedRelationFields[relName] = []string{}
	}

	model.selectedRelationFields[relName] = append(slices.Clip(model.selectedRelationFields[relName]), relField)
}

// =================
// Finishers
// =================

func (model ModelQuery[T]) Err() error {
	return errors.Join(model.errors...)
}

// ToSql renders the base query without running it. Relations are not part of it.
func (model ModelQuery[T]) ToSql() (string, []any, error) {
	if err := model.Err(); err != nil {
		return "", nil, err
	}

	q, _ := model.withDependencies().build()
	return q.ToSql()
}

func (model ModelQuery[T]) Collect(ctx context.Context, db DBTX) ([]T, error) {
	if err := model.Err(); err != nil {
		return nil, err
	}

	model = model.withDependencies()
	parents, err := model.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	if err := model.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return parents, nil
}

func (model ModelQuery[T]) CollectOne(ctx context.Context, db DBTX) (*T, error) {
	if err := model.Err(); err != nil {
		return nil, err
	}

	model = model.withDependencies()
	parents, err := model.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	one, err := One(parents)
	if err != nil {
		return nil, err
	}

	if err := model.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return one, nil
}

// withDependencies selects the fields the selected relations need to bind children to
// their parents.
func (model ModelQuery[T]) withDependencies() ModelQuery[T] {
	for _, name := range sortedKeys(model.selectedRelations) {
		if mod := model.selectedRelations[name].ModelQueryMod; mod != nil {
			model = mod(model)
		}
	}

	return model
}

func (model ModelQuery[T]) build() (Q, RowScan[T]) {
	q := squirrel.StatementBuilder.Select().From(model.schema.Table)

	// Apply schema mods
	q = applyMods(q, model.tableAlias, model.schema.QueryMods)
	// Apply runtime mods
	q = applyMods(q, model.tableAlias, model.queryMods)

	// Collapse fields
	var scans []RowScan[T]
	for _, name := range sortedKeys(model.selectedFields) {
		field := model.selectedFields[name]
		q = field.Mod(q, model.tableAlias)
		scans = append(scans, field.RowScan)
	}

	return q, flattenRowScan(scans)
}

func (model ModelQuery[T]) collectBaseModels(
	ctx context.Context,
	db DBTX,
) ([]T, error) {
	q, scans := model.build()

	// Execute query
	parents, err := Collect(ctx, db, q, scans)
	if err != nil {
		return nil, err
	}

	return parents, nil
}

func (model ModelQuery[T]) resolveRelations(
	ctx context.Context,
	db DBTX,
	parents []T,
) error {
	if len(parents) == 0 {
		return nil
	}

	// Resolve relations
	for _, name := range sortedKeys(model.selectedRelations) {
		err := model.selectedRelations[name].Resolve(
			ctx,
			db,
			parents,
			model.selectedRelationFields[name],
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// =================
// Utilities
// =================

func (model *ModelQuery[T]) addError(err error) {
	model.errors = append(model.errors, err)
}

func isNested(name string) (string, string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 1 {
		return name, ""
	}
	return parts[0], parts[1]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
