package main

import (
	"context"
	"errors"
	"fmt"

	"pollex.nl/bookshelf/dao"
)

type seedBook struct {
	first, last string
	title, isbn string
}

var seedBooks = []seedBook{
	{"Craig", "Walls", "Spring in Action", "9781617294945"},
	{"Craig", "Walls", "Spring Boot in Action", "9781617292545"},
	{"Eric", "Evans", "Domain-Driven Design", "9780321125217"},
	{"Robert", "Martin", "Clean Code", "9780132350884"},
}

// seed inserts the sample authors and books that are missing. Running it twice leaves
// the database unchanged.
func (a *app) seed(ctx context.Context) error {
	var created int
	for _, s := range seedBooks {
		author, err := a.authors.FindByName(ctx, s.first, s.last)
		if errors.Is(err, dao.ErrNotFound) {
			author, err = a.authors.Create(ctx, dao.Author{FirstName: s.first, LastName: s.last})
		}
		if err != nil {
			return err
		}

		_, err = a.books.FindByISBN(ctx, s.isbn)
		if err == nil {
			continue
		}
		if !errors.Is(err, dao.ErrNotFound) {
			return err
		}

		if _, err := a.books.Create(ctx, dao.Book{Title: s.title, ISBN: s.isbn, AuthorID: author.ID}); err != nil {
			return err
		}
		created++
	}

	a.logger.InfoContext(ctx, "seeded", "books", created)
	_, err := fmt.Fprintf(a.out, "seeded %d books\n", created)
	return err
}
