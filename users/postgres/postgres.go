// Package postgres is the PostgreSQL implementation of the user store, on
// database/sql with the pgx stdlib driver and goose migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jrsteele09/go-notes-server/internal/dbx"
	"github.com/jrsteele09/go-notes-server/users"
	"github.com/jrsteele09/go-notes-server/users/postgres/migrations"
)

const uniqueViolation = "23505"

var (
	_ users.UserRepo = (*Repository)(nil)
	_ users.Store    = (*Store)(nil)
)

type Repository struct {
	db      dbx.DBTX
	nowFunc func() time.Time
}

func NewRepository(db dbx.DBTX) *Repository {
	return &Repository{db: db, nowFunc: time.Now}
}

func (r *Repository) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query :=
		`INSERT INTO users (id, email, password, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.nowFunc().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		stored.ID, stored.Email, stored.PasswordHash, stored.CreatedAt).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, users.ErrEmailExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &stored, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query :=
		`SELECT id, email, password, created_at FROM users
		 WHERE email = $1`

	u := &users.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	if offset < 0 {
		offset = 0
	}
	query :=
		`SELECT id, email, password, created_at FROM users
		 ORDER BY created_at, email
		 OFFSET $1`
	args := []any{offset}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := make([]*users.User, 0)
	for rows.Next() {
		u := &users.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

// Store binds repositories to a *sql.DB and runs units of work in transactions.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects with the pgx driver and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

func (s *Store) Users() users.UserRepo {
	return NewRepository(s.db)
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repo users.UserRepo) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewRepository(tx))
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose.SetDialect: %w", err)
	}
	if err := gooseUpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("goose.Up: %w", err)
	}
	return nil
}
