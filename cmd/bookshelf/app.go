package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"pollex.nl/bookshelf/dao"
	"pollex.nl/bookshelf/internal/config"
	"pollex.nl/bookshelf/internal/logging"
	"pollex.nl/bookshelf/migrations"
	"pollex.nl/bookshelf/persist"
)

var errUsage = errors.New("usage: bookshelf [flags] migrate|seed|authors|books")

type app struct {
	sessions *persist.SessionFactory
	authors  *dao.AuthorRepository
	books    *dao.BookRepository
	logger   *slog.Logger
	out      io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, rest, err := config.Load(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errUsage
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	dialect, err := persist.ParseDialect(cfg.Driver)
	if err != nil {
		return err
	}

	sessions, err := persist.Open(ctx, dialect, cfg.DSN,
		persist.WithLogger(logger),
		persist.WithPool(cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Error("failed to close database", "error", err.Error())
		}
	}()

	a := &app{
		sessions: sessions,
		authors:  dao.NewAuthorRepository(sessions, dao.WithLogger(logger)),
		books:    dao.NewBookRepository(sessions, dao.WithLogger(logger)),
		logger:   logger,
		out:      stdout,
	}

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "migrate":
		return a.migrate(ctx)
	case "seed":
		return a.seed(ctx)
	case "authors":
		return a.listAuthors(ctx, cmdArgs)
	case "books":
		return a.listBooks(ctx, cmdArgs)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) migrate(ctx context.Context) error {
	db, dialect := a.sessions.DB(), a.sessions.Dialect()
	if err := migrations.Up(ctx, db, dialect, a.logger); err != nil {
		return err
	}

	version, err := migrations.Version(ctx, db, dialect)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.out, "schema version %d\n", version)
	return err
}

func (a *app) listAuthors(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("authors", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	prefix := fs.String("prefix", "", "only authors whose last name starts with prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		authors []dao.Author
		err     error
	)
	if *prefix != "" {
		authors, err = a.authors.FindByLastNamePrefix(ctx, *prefix)
	} else {
		authors, err = a.authors.ListAll(ctx)
	}
	if err != nil {
		return err
	}

	return writeTable(a.out, lo.Map(authors, func(author dao.Author, _ int) []any {
		return []any{author.ID, author.FirstName, author.LastName}
	}))
}

func (a *app) listBooks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("books", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "only the book with this exact title")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var books []dao.Book
	if *title != "" {
		book, err := a.books.FindByTitle(ctx, *title)
		if err != nil {
			return err
		}
		books = []dao.Book{*book}
	} else {
		var err error
		if books, err = a.books.ListAll(ctx); err != nil {
			return err
		}
	}

	return writeTable(a.out, lo.Map(books, func(book dao.Book, _ int) []any {
		author := "-"
		if book.Author != nil {
			author = book.Author.FirstName + " " + book.Author.LastName
		}
		return []any{book.ID, book.Title, book.ISBN, author}
	}))
}

func writeTable(w io.Writer, rows [][]any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		line := lo.Map(row, func(v any, _ int) string { return fmt.Sprint(v) })
		if _, err := fmt.Fprintln(tw, strings.Join(line, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}
