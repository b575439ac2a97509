package dao

import (
	"context"

	"github.com/Masterminds/squirrel"
	"pollex.nl/bookshelf/persist"
)

// bookFields loads a book together with its author.
var bookFields = []string{"*", "author"}

const findBookByTitleSQL = `SELECT id, title, isbn, author_id FROM books WHERE title = ?`

type BookRepository struct {
	store
}

func NewBookRepository(sessions *persist.SessionFactory, opts ...Option) *BookRepository {
	return &BookRepository{store: newStore(sessions, opts...)}
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*Book, error) {
	book, err := withSession(ctx, r.store, func(session *persist.Session) (*Book, error) {
		return BookSchema.Get(ctx, session, id, bookFields...)
	})

	return book, wrap("get book", err)
}

func (r *BookRepository) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	book, err := withSession(ctx, r.store, func(session *persist.Session) (*Book, error) {
		return BookSchema.Query(bookFields...).
			ModifyQuery(persist.WhereCol("isbn", isbn)).
			CollectOne(ctx, session)
	})

	return book, wrap("find book by isbn", err)
}

func (r *BookRepository) FindByTitle(ctx context.Context, title string) (*Book, error) {
	book, err := withSession(ctx, r.store, func(session *persist.Session) (*Book, error) {
		return BookSchema.Query(bookFields...).
			ModifyQuery(persist.WhereCol("title", title)).
			CollectOne(ctx, session)
	})

	return book, wrap("find book by title", err)
}

// FindByTitleCriteria is FindByTitle with the predicate built by hand.
func (r *BookRepository) FindByTitleCriteria(ctx context.Context, title string) (*Book, error) {
	book, err := withSession(ctx, r.store, func(session *persist.Session) (*Book, error) {
		criteria := squirrel.And{
			squirrel.Eq{persist.TableCol(BookSchema.Table, "title"): title},
		}
		return BookSchema.Query(bookFields...).
			Where(criteria).
			CollectOne(ctx, session)
	})

	return book, wrap("find book by title criteria", err)
}

// FindByTitleSQL is FindByTitle as a hand-written query. The author is loaded with a
// second query on the same session.
func (r *BookRepository) FindByTitleSQL(ctx context.Context, title string) (*Book, error) {
	book, err := withSession(ctx, r.store, func(session *persist.Session) (*Book, error) {
		scan, err := BookSchema.Scan("id", "title", "isbn", "author_id")
		if err != nil {
			return nil, err
		}

		books, err := persist.CollectSQL(ctx, session, findBookByTitleSQL, []any{title}, scan)
		if err != nil {
			return nil, err
		}

		book, err := persist.One(books)
		if err != nil {
			return nil, err
		}

		if book.AuthorID != 0 {
			if book.Author, err = AuthorSchema.Get(ctx, session, book.AuthorID); err != nil {
				return nil, err
			}
		}

		return book, nil
	})

	return book, wrap("find book by title sql", err)
}

func (r *BookRepository) ListAll(ctx context.Context) ([]Book, error) {
	books, err := withSession(ctx, r.store, func(session *persist.Session) ([]Book, error) {
		return BookSchema.Query(bookFields...).OrderBy("id").Collect(ctx, session)
	})

	return books, wrap("list books", err)
}

// Create inserts book and returns it with the id assigned by the database. The author
// is not loaded.
func (r *BookRepository) Create(ctx context.Context, book Book) (*Book, error) {
	if err := check(book); err != nil {
		return nil, wrap("create book", err)
	}

	created, err := transact(ctx, r.store, func(ctx context.Context, session *persist.Session) (*Book, error) {
		if err := BookSchema.Insert(ctx, session, &book); err != nil {
			return nil, err
		}
		return &book, nil
	})

	return created, wrap("create book", err)
}

func (r *BookRepository) Update(ctx context.Context, book Book) (*Book, error) {
	if err := check(book); err != nil {
		return nil, wrap("update book", err)
	}

	updated, err := transact(ctx, r.store, func(ctx context.Context, session *persist.Session) (*Book, error) {
		if err := affected(BookSchema.Update(ctx, session, &book)); err != nil {
			return nil, err
		}
		return BookSchema.Get(ctx, session, book.ID, bookFields...)
	})

	return updated, wrap("update book", err)
}

func (r *BookRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := transact(ctx, r.store, func(ctx context.Context, session *persist.Session) (struct{}, error) {
		return struct{}{}, affected(BookSchema.Delete(ctx, session, id))
	})

	return wrap("delete book", err)
}
