package dao

import (
	"context"

	"pollex.nl/bookshelf/persist"
)

type AuthorRepository struct {
	store
}

func NewAuthorRepository(sessions *persist.SessionFactory, opts ...Option) *AuthorRepository {
	return &AuthorRepository{store: newStore(sessions, opts...)}
}

func (r *AuthorRepository) GetByID(ctx context.Context, id int64) (*Author, error) {
	author, err := withSession(ctx, r.store, func(session *persist.Session) (*Author, error) {
		return AuthorSchema.Get(ctx, session, id)
	})

	return author, wrap("get author", err)
}

// GetByIDWithBooks is GetByID with the author's books loaded.
func (r *AuthorRepository) GetByIDWithBooks(ctx context.Context, id int64) (*Author, error) {
	author, err := withSession(ctx, r.store, func(session *persist.Session) (*Author, error) {
		return AuthorSchema.Get(ctx, session, id, "*", "books")
	})

	return author, wrap("get author with books", err)
}

func (r *AuthorRepository) FindByName(ctx context.Context, firstName, lastName string) (*Author, error) {
	author, err := withSession(ctx, r.store, func(session *persist.Session) (*Author, error) {
		return AuthorSchema.Query().
			ModifyQuery(persist.WhereCol("first_name", firstName)).
			ModifyQuery(persist.WhereCol("last_name", lastName)).
			CollectOne(ctx, session)
	})

	return author, wrap("find author by name", err)
}

func (r *AuthorRepository) FindByLastNamePrefix(ctx context.Context, prefix string) ([]Author, error) {
	authors, err := withSession(ctx, r.store, func(session *persist.Session) ([]Author, error) {
		return AuthorSchema.Query().
			ModifyQuery(persist.WherePrefix("last_name", prefix)).
			OrderBy("id").
			Collect(ctx, session)
	})

	return authors, wrap("find authors by last name", err)
}

func (r *AuthorRepository) ListAll(ctx context.Context) ([]Author, error) {
	authors, err := withSession(ctx, r.store, func(session *persist.Session) ([]Author, error) {
		return AuthorSchema.Query().OrderBy("id").Collect(ctx, session)
	})

	return authors, wrap("list authors", err)
}

// Create inserts author and returns it with the id assigned by the database.
func (r *AuthorRepository) Create(ctx context.Context, author Author) (*Author, error) {
	if err := check(author); err != nil {
		return nil, wrap("create author", err)
	}

	created, err := transact(ctx, r.store, func(ctx context.Context, session *persist.Session) (*Author, error) {
		if err := AuthorSchema.Insert(ctx, session, &author); err != nil {
			return nil, err
		}
		return &author, nil
	})

	return created, wrap("create author", err)
}

// Update overwrites the stored author with the same id and returns the stored record as
// read back inside the same transaction.
func (r *AuthorRepository) Update(ctx context.Context, author Author) (*Author, error) {
	if err := check(author); err != nil {
		return nil, wrap("update author", err)
	}

	updated, err := transact(ctx, r.store, func(ctx context.Context, session *persist.Session) (*Author, error) {
		if err := affected(AuthorSchema.Update(ctx, session, &author)); err != nil {
			return nil, err
		}
		return AuthorSchema.Get(ctx, session, author.ID)
	})

	return updated, wrap("update author", err)
}

// DeleteByID returns ErrNotFound when there is no author with id.
func (r *AuthorRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := transact(ctx, r.store, func(ctx context.Context, session *persist.Session) (struct{}, error) {
		return struct{}{}, affected(AuthorSchema.Delete(ctx, session, id))
	})

	return wrap("delete author", err)
}
