package dao_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/dao"
	"pollex.nl/bookshelf/migrations"
	"pollex.nl/bookshelf/persist"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// newSessions returns a session factory over a migrated, private in-memory database.
func newSessions(t *testing.T) *persist.SessionFactory {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name))
	require.NoError(t, err)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, persist.SQLite, quiet))

	return persist.NewSessionFactory(db, persist.SQLite, persist.WithLogger(quiet))
}

func newRepositories(t *testing.T) (*dao.AuthorRepository, *dao.BookRepository) {
	t.Helper()

	sessions := newSessions(t)
	return dao.NewAuthorRepository(sessions, dao.WithLogger(quiet)),
		dao.NewBookRepository(sessions, dao.WithLogger(quiet))
}

func newMockSessions(t *testing.T) (*persist.SessionFactory, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return persist.NewSessionFactory(db, persist.Postgres, persist.WithLogger(quiet)), mock
}

func createAuthor(t *testing.T, authors *dao.AuthorRepository, first, last string) dao.Author {
	t.Helper()

	author, err := authors.Create(context.Background(), dao.Author{FirstName: first, LastName: last})
	require.NoError(t, err)
	return *author
}

func createBook(t *testing.T, books *dao.BookRepository, title, isbn string, authorID int64) dao.Book {
	t.Helper()

	book, err := books.Create(context.Background(), dao.Book{Title: title, ISBN: isbn, AuthorID: authorID})
	require.NoError(t, err)
	return *book
}
