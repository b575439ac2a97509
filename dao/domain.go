package dao

import "errors"

var (
	// ErrNotFound is returned when a lookup, update or delete matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrNotUnique is returned when a single-result lookup matches more than one record.
	ErrNotUnique = errors.New("more than one record matches")
	// ErrInvalid is returned when a record does not fit the column limits of the schema.
	ErrInvalid = errors.New("invalid record")
	// ErrConflict is returned when a write violates a database constraint.
	ErrConflict = errors.New("conflicting record")
)

type Author struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name" validate:"max=255"`
	LastName  string `json:"last_name" validate:"max=255"`

	Books []Book `json:"books,omitempty" validate:"-"`
}

// Book references its author by AuthorID; zero means the book has no author.
type Book struct {
	ID       int64  `json:"id"`
	Title    string `json:"title" validate:"max=255"`
	ISBN     string `json:"isbn" validate:"max=17"`
	AuthorID int64  `json:"author_id,omitempty" validate:"gte=0"`

	Author *Author `json:"author,omitempty" validate:"-"`
}
