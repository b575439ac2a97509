package persist_test

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type Author struct {
	ID    uint64
	Name  string
	Tags  []string
	Books []Book
}

type Book struct {
	ID       uint64
	Name     string
	AuthorID uint64
	Comments []Comment
	Author   *Author
}

type Comment struct {
	ID     uint64
	Name   string
	BookID uint64
	Book   *Book
}

// setupDB opens a private in-memory database. Shared cache keeps the data visible to
// every connection of the pool, which sessions rely on.
func setupDB(t testing.TB) (*sql.DB, squirrel.StatementBuilderType) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name))
	require.NoError(t, err)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrate)
	require.NoError(t, err)

	sq := squirrel.StatementBuilder.RunWith(db)

	return db, sq
}

func countRows(t testing.TB, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

const migrate = `
	create table authors (
		id integer primary key autoincrement,
		name text not null unique,
		tags text not null default ''
	);
	create table books (
		id integer primary key autoincrement,
		name text not null,
		author_id integer
	);
	create table book_comments (
		id integer primary key autoincrement,
		name text not null,
		book_id integer
	);
	`
