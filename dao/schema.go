package dao

import (
	"database/sql"

	"pollex.nl/bookshelf/persist"
)

var AuthorSchema = persist.New[Author]("authors").
	WithKey("id", func(t *Author) any { return &t.ID }).
	AddColumn("first_name", func(t *Author) any { return &t.FirstName }).
	AddColumn("last_name", func(t *Author) any { return &t.LastName })

var BookSchema = persist.New[Book]("books").
	WithKey("id", func(t *Book) any { return &t.ID }).
	AddColumn("title", func(t *Book) any { return &t.Title }).
	AddColumn("isbn", func(t *Book) any { return &t.ISBN }).
	AddFieldType("author_id", persist.FieldType[Book]{
		Mod: persist.Col("author_id"),
		RowScan: func(t *Book) (persist.Ptrs, persist.Action) {
			var authorID sql.NullInt64
			return persist.Ptrs{&authorID}, func() { t.AuthorID = authorID.Int64 }
		},
		Column: "author_id",
		Value: func(t *Book) any {
			if t.AuthorID == 0 {
				return nil
			}
			return t.AuthorID
		},
	})

func init() {
	AuthorSchema.AddRelation("books",
		persist.HasMany(
			BookSchema,
			func(author Author, book Book) bool { return book.AuthorID == author.ID },
			func(author *Author, books []Book) { author.Books = books },
			func(authors []Author) persist.QueryMod {
				where := persist.WhereIDs("author_id", func(a Author) int64 { return a.ID })(authors)
				return func(q persist.Q, table string) persist.Q {
					return persist.OrderBy("id")(where(q, table), table)
				}
			},
			persist.DependsOn("id", "books.author_id"),
		),
	)

	BookSchema.AddRelation("author",
		persist.HasOne(
			AuthorSchema,
			func(book Book, author Author) bool { return book.AuthorID == author.ID },
			func(book *Book, author Author) { book.Author = &author },
			persist.WhereRefs("id", func(b Book) int64 { return b.AuthorID }),
			persist.DependsOn("author_id"),
		),
	)
}
