package persist_test

import (
	"context"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/persist"
)

//nolint:errcheck
func TestBasicRelationalModel(t *testing.T) {
	// Arrange
	db := seedRelations(t)

	comment := persist.New[Comment]("book_comments").
		AddField("id", persist.Col("id"), persist.Ptr(func(t *Comment) any { return &t.ID })).
		AddField("name", persist.Col("name"), persist.Ptr(func(t *Comment) any { return &t.Name })).
		AddField("book_id", persist.Col("book_id"), persist.Ptr(func(t *Comment) any { return &t.BookID }))
	book := persist.New[Book]("books").
		AddField("id", persist.Col("id"), persist.Ptr(func(t *Book) any { return &t.ID })).
		AddField("name", persist.Col("name"), persist.Ptr(func(t *Book) any { return &t.Name })).
		AddField("author_id", persist.Col("author_id"), persist.Ptr(func(t *Book) any { return &t.AuthorID })).
		AddRelation("comments",
			persist.CreateRelation(comment,
				persist.BindBy(
					func(book Book, comment Comment) bool { return comment.BookID == book.ID },
					func(book *Book, comments []Comment) { book.Comments = comments },
				),
				func(books []Book) persist.QueryMod {
					return func(q persist.Q, table string) persist.Q {
						ids := lo.Map(
							books,
							func(book Book, _ int) uint64 { return book.ID },
						)
						return q.Where(squirrel.Eq{"book_comments.book_id": ids})
					}
				},
				nil,
			),
		)
	author := persist.New[Author]("authors").
		AddField("id", persist.Col("id"), persist.Ptr(func(t *Author) any { return &t.ID })).
		AddField("name", persist.Col("name"), persist.Ptr(func(t *Author) any { return &t.Name })).
		AddRelation("books",
			persist.CreateRelation(book,
				persist.BindBy(
					func(author Author, book Book) bool { return book.AuthorID == author.ID },
					func(author *Author, books []Book) { author.Books = books },
				),
				func(authors []Author) persist.QueryMod {
					return func(q persist.Q, table string) persist.Q {
						ids := lo.Map(
							authors,
							func(author Author, _ int) uint64 { return author.ID },
						)
						return q.Where(squirrel.Eq{"books.author_id": ids})
					}
				},
				nil,
			),
		)

	authors, err := author.Query("id", "name", "books.id", "books.name", "books.author_id", "books.comments.id", "books.comments.name", "books.comments.book_id").
		OrderBy("id").
		Collect(context.Background(), db)
	require.NoError(t, err)

	require.Len(t, authors, 2)
	assert.Equal(t, "Jeff", authors[0].Name)
	require.Len(t, authors[0].Books, 2)
	for _, book := range authors[0].Books {
		require.Len(t, book.Comments, 1)
		assert.Equal(t, book.ID, book.Comments[0].BookID)
	}
}

func TestHasOneWithOptionalReference(t *testing.T) {
	db, sq := setupDB(t)
	sq.Insert("authors").Values(1, "Jeff", "").Exec()
	sq.Insert("books").
		Values(1, "Life of Jeff", 1).
		Values(2, "Anonymous", 0).Exec()

	withAuthor := persist.New[Book]("books").
		WithKey("id", func(t *Book) any { return &t.ID }).
		AddColumn("name", func(t *Book) any { return &t.Name }).
		AddColumn("author_id", func(t *Book) any { return &t.AuthorID }).
		AddRelation("author",
			persist.HasOne(author,
				func(b Book, a Author) bool { return b.AuthorID == a.ID },
				func(b *Book, a Author) { b.Author = &a },
				persist.WhereRefs("id", func(b Book) uint64 { return b.AuthorID }),
				persist.DependsOn("author_id"),
			),
		)

	books, err := withAuthor.Query("id", "name", "author").
		OrderBy("id").
		Collect(context.Background(), db)
	require.NoError(t, err)

	require.Len(t, books, 2)
	require.NotNil(t, books[0].Author)
	assert.Equal(t, "Jeff", books[0].Author.Name)
	assert.Nil(t, books[1].Author)
}

func TestWhereIDsDeduplicates(t *testing.T) {
	mod := persist.WhereIDs("author_id", func(b Book) uint64 { return b.AuthorID })(
		[]Book{{AuthorID: 1}, {AuthorID: 1}, {AuthorID: 2}},
	)

	query, args, err := mod(squirrel.Select("id").From("books"), "books").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM books WHERE books.author_id IN (?,?)", query)
	assert.Equal(t, []any{uint64(1), uint64(2)}, args)
}
