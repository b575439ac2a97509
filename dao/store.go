package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"pollex.nl/bookshelf/persist"
)

// validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// store is what both repositories share: every call takes its own session from the
// factory and gives it back before returning.
type store struct {
	sessions *persist.SessionFactory
	logger   *slog.Logger
}

type Option func(*store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *store) { s.logger = logger }
}

func newStore(sessions *persist.SessionFactory, opts ...Option) store {
	s := store{sessions: sessions, logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

func withSession[R any](
	ctx context.Context,
	s store,
	fn func(session *persist.Session) (R, error),
) (R, error) {
	var zero R

	session, err := s.sessions.Session(ctx)
	if err != nil {
		return zero, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger.ErrorContext(ctx, "failed to close session", "session_id", session.ID(), "error", err.Error())
		}
	}()

	return fn(session)
}

func transact[R any](
	ctx context.Context,
	s store,
	fn func(ctx context.Context, session *persist.Session) (R, error),
) (R, error) {
	return withSession(ctx, s, func(session *persist.Session) (R, error) {
		var result R
		err := session.Transact(ctx, func(ctx context.Context) error {
			var err error
			result, err = fn(ctx, session)
			return err
		})
		return result, err
	})
}

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// affected turns "no row changed" into sql.ErrNoRows so it maps to ErrNotFound.
func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// wrap maps persistence errors onto the package's sentinel errors.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	switch err = persist.TranslateError(err); {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, persist.ErrTooManyResults):
		return fmt.Errorf("%s: %w", op, ErrNotUnique)
	case errors.Is(err, persist.ErrConstraint):
		return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
