package session

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/groupfinal/accounts/internal/client/migrations"
	"github.com/groupfinal/accounts/internal/dbx"
	"github.com/groupfinal/accounts/internal/filex"
)

const (
	keyUsername     = "username"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Store reads and writes the session through a Repository.
type Store struct {
	db   *sql.DB
	repo Repository
}

// Open opens (creating if needed) session.db inside dir and applies the
// schema.
func Open(ctx context.Context, dir string) (*Store, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "session.db"))
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, repo: NewSQLiteRepository(db)}, nil
}

// RunMigrations applies the embedded session schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("session migration error: %w", err)
	}
	return nil
}

// NewStore wraps repo without owning a database. Close is then a no-op.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Username returns the account the session belongs to, or "".
func (s *Store) Username(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, keyUsername)
}

// Tokens returns the stored access and refresh token; both are "" when the
// user is logged out.
func (s *Store) Tokens(ctx context.Context) (access, refresh string, err error) {
	if access, err = s.repo.Get(ctx, keyAccessToken); err != nil {
		return "", "", err
	}
	if refresh, err = s.repo.Get(ctx, keyRefreshToken); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// SaveTokens replaces both tokens. When the store owns a database both
// writes share one transaction.
func (s *Store) SaveTokens(ctx context.Context, access, refresh string) error {
	save := func(repo Repository) error {
		if err := repo.Set(ctx, keyAccessToken, access); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, refresh)
	}

	if s.db == nil {
		return save(s.repo)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return save(NewSQLiteRepository(tx))
	})
}

// SaveLogin records a fresh login.
func (s *Store) SaveLogin(ctx context.Context, username, access, refresh string) error {
	if err := s.repo.Set(ctx, keyUsername, username); err != nil {
		return err
	}
	return s.SaveTokens(ctx, access, refresh)
}

// Clear forgets the session.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
