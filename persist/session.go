package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionClosed is returned by any use of a session after Close.
	ErrSessionClosed = errors.New("session is closed")
	// ErrTxActive is returned by Begin when the session already has a transaction.
	ErrTxActive = errors.New("transaction already active")
	// ErrNoTx is returned by Commit and Rollback without a transaction.
	ErrNoTx = errors.New("no active transaction")
)

type Option func(*SessionFactory)

func WithLogger(logger *slog.Logger) Option {
	return func(f *SessionFactory) { f.logger = logger }
}

// WithPool sets the limits of the connection pool sessions are taken from. Zero values
// keep the database/sql defaults.
func WithPool(maxOpen, maxIdle int, maxLifetime time.Duration) Option {
	return func(f *SessionFactory) {
		if maxOpen > 0 {
			f.db.SetMaxOpenConns(maxOpen)
		}
		if maxIdle > 0 {
			f.db.SetMaxIdleConns(maxIdle)
		}
		if maxLifetime > 0 {
			f.db.SetConnMaxLifetime(maxLifetime)
		}
	}
}

// SessionFactory hands out one Session per unit of work. It owns the pool; sessions own
// a single connection of it for their lifetime.
type SessionFactory struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

func NewSessionFactory(db *sql.DB, dialect Dialect, opts ...Option) *SessionFactory {
	f := &SessionFactory{
		db:      db,
		dialect: dialect,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Open opens the database for dialect and checks that it is reachable.
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*SessionFactory, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return NewSessionFactory(db, dialect, opts...), nil
}

func (f *SessionFactory) DB() *sql.DB {
	return f.db
}

func (f *SessionFactory) Dialect() Dialect {
	return f.dialect
}

func (f *SessionFactory) Close() error {
	return f.db.Close()
}

// Session acquires a connection. The caller must Close the session.
func (f *SessionFactory) Session(ctx context.Context) (*Session, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}

	s := &Session{
		id:      uuid.NewString(),
		conn:    conn,
		dialect: f.dialect,
	}
	s.logger = f.logger.With("session_id", s.id)
	s.logger.DebugContext(ctx, "session opened")

	return s, nil
}

// Session is a unit of work bound to one connection. It is not safe for concurrent use.
type Session struct {
	id      string
	conn    *sql.Conn
	tx      *sql.Tx
	dialect Dialect
	logger  *slog.Logger
	closed  bool
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) InTx() bool {
	return s.tx != nil
}

func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db, query, err := s.prepare(query)
	if err != nil {
		return nil, err
	}

	return db.ExecContext(ctx, query, args...)
}

func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db, query, err := s.prepare(query)
	if err != nil {
		return nil, err
	}

	return db.QueryContext(ctx, query, args...)
}

func (s *Session) prepare(query string) (DBTX, string, error) {
	if s.closed {
		return nil, "", ErrSessionClosed
	}

	query, err := s.dialect.Rebind(query)
	if err != nil {
		return nil, "", err
	}

	if s.tx != nil {
		return s.tx, query, nil
	}
	return s.conn, query, nil
}

func (s *Session) Begin(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx != nil {
		return ErrTxActive
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	s.tx = tx

	return nil
}

func (s *Session) Commit() error {
	if s.tx == nil {
		return ErrNoTx
	}

	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Session) Rollback() error {
	if s.tx == nil {
		return ErrNoTx
	}

	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}

	return nil
}

// Transact begins a transaction, runs fn, and commits if fn succeeds. The transaction
// is rolled back when fn returns an error or panics; panics are rethrown.
func (s *Session) Transact(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := s.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = s.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := s.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "rollback failed", "error", rbErr.Error())
			}
			return
		}
		err = s.Commit()
	}()

	err = fn(ctx)
	return err
}

// Close rolls back an unfinished transaction and releases the connection. It is safe to
// call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// Close has no caller context; it usually runs from a defer.
	ctx := context.Background()

	var errs []error
	if s.tx != nil {
		s.logger.WarnContext(ctx, "session closed with an open transaction, rolling back")
		errs = append(errs, s.Rollback())
	}
	errs = append(errs, s.conn.Close())
	s.logger.DebugContext(ctx, "session closed")

	return errors.Join(errs...)
}
