package persist

import (
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
)

type (
	Q        = squirrel.SelectBuilder
	QueryMod func(q Q, table string) Q
)

func Col(names ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, name := range names {
			q = q.Column(TableCol(table, name))
		}
		return q
	}
}

func TableCol(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

// Where adds a predicate. Squirrel predicates (Eq, Like, And, ...) and plain SQL with
// `?` placeholders are both accepted.
func Where(pred any, args ...any) QueryMod {
	return func(q Q, table string) Q { return q.Where(pred, args...) }
}

// WhereCol matches a column of the queried table against a value.
func WhereCol(col string, value any) QueryMod {
	return func(q Q, table string) Q {
		return q.Where(squirrel.Eq{TableCol(table, col): value})
	}
}

// WherePrefix matches rows whose column starts with prefix. The comparison is exact, so
// it is case-sensitive and treats LIKE wildcards as plain characters on every dialect.
func WherePrefix(col, prefix string) QueryMod {
	return func(q Q, table string) Q {
		return q.Where("substr("+TableCol(table, col)+", 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
	}
}

func OrderBy(cols ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, col := range cols {
			q = q.OrderBy(TableCol(table, col))
		}
		return q
	}
}

func Limit(n uint64) QueryMod {
	return func(q Q, _ string) Q { return q.Limit(n) }
}

func applyMods(q Q, table string, mods []QueryMod) Q {
	for _, mod := range mods {
		q = mod(q, table)
	}

	return q
}
