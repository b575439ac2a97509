package dao

import "context"

// Authors is the contract AuthorRepository fulfils.
type Authors interface {
	GetByID(ctx context.Context, id int64) (*Author, error)
	GetByIDWithBooks(ctx context.Context, id int64) (*Author, error)
	FindByName(ctx context.Context, firstName, lastName string) (*Author, error)
	FindByLastNamePrefix(ctx context.Context, prefix string) ([]Author, error)
	ListAll(ctx context.Context) ([]Author, error)
	Create(ctx context.Context, author Author) (*Author, error)
	Update(ctx context.Context, author Author) (*Author, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Books is the contract BookRepository fulfils.
type Books interface {
	GetByID(ctx context.Context, id int64) (*Book, error)
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
	FindByTitle(ctx context.Context, title string) (*Book, error)
	FindByTitleCriteria(ctx context.Context, title string) (*Book, error)
	FindByTitleSQL(ctx context.Context, title string) (*Book, error)
	ListAll(ctx context.Context) ([]Book, error)
	Create(ctx context.Context, book Book) (*Book, error)
	Update(ctx context.Context, book Book) (*Book, error)
	DeleteByID(ctx context.Context, id int64) error
}

var (
	_ Authors = (*AuthorRepository)(nil)
	_ Books   = (*BookRepository)(nil)
)
