package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/groupfinal/accounts/internal/common"
	"github.com/groupfinal/accounts/internal/dbx"
	"github.com/groupfinal/accounts/internal/server/models"
)

const uniqueViolation = "23505"

const selectAccount = `SELECT id, username, password, first_name, last_name, email, phone, is_admin, active, status
	FROM accounts`

// PostgresRepository stores accounts in the accounts table. It works over
// dbx.DBTX, so the same code runs on a *sql.DB or inside a *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindActiveByUsername returns the active account with username or
// common.ErrorNotFound.
func (r *PostgresRepository) FindActiveByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := selectAccount + `
		WHERE username = $1 AND active
	`
	return r.findOne(ctx, query, username)
}

// FindByID looks the account up by id regardless of its active flag.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query := selectAccount + `
		WHERE id = $1
	`
	return r.findOne(ctx, query, id)
}

// FindAll returns every account ordered by id.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Account, error) {
	query := selectAccount + `
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Save inserts the account when its id is zero and updates it otherwise.
// The assigned id is written back to account.
func (r *PostgresRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == 0 {
		return r.insert(ctx, account)
	}
	return r.update(ctx, account)
}

func (r *PostgresRepository) insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (username, password, first_name, last_name, email, phone, is_admin, active, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.Credentials.Username, a.Credentials.Password,
		a.Profile.FirstName, a.Profile.LastName, a.Profile.Email, a.Profile.Phone,
		a.IsAdmin, a.Active, string(a.Status)).Scan(&a.ID)
	if err != nil {
		return nil, mapWriteErr(err)
	}

	return a, nil
}

func (r *PostgresRepository) update(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET username = $2, password = $3, first_name = $4, last_name = $5, email = $6, phone = $7,
		     is_admin = $8, active = $9, status = $10
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, a.ID,
		a.Credentials.Username, a.Credentials.Password,
		a.Profile.FirstName, a.Profile.LastName, a.Profile.Email, a.Profile.Phone,
		a.IsAdmin, a.Active, string(a.Status))
	if err != nil {
		return nil, mapWriteErr(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	return a, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func scanAccount(row dbx.Scanner) (*models.Account, error) {
	a := &models.Account{}
	var status string
	err := row.Scan(&a.ID,
		&a.Credentials.Username, &a.Credentials.Password,
		&a.Profile.FirstName, &a.Profile.LastName, &a.Profile.Email, &a.Profile.Phone,
		&a.IsAdmin, &a.Active, &status)
	if err != nil {
		return nil, err
	}
	a.Status = models.Status(status)
	return a, nil
}

// mapWriteErr turns a violation of the active-username index into
// common.ErrorBadRequest; that is how a lost check-then-insert race surfaces.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: username is already taken", common.ErrorBadRequest)
	}
	return fmt.Errorf("db error: %w", err)
}
