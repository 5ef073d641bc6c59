// Package accounts declares the persistence contract of the account directory
// and its PostgreSQL and in-memory implementations.
package accounts

import (
	"context"

	"github.com/groupfinal/accounts/internal/server/models"
)

// Repository is the persistence store behind the account directory.
// Lookups that match nothing return common.ErrorNotFound.
type Repository interface {
	// FindActiveByUsername returns the active account holding username.
	FindActiveByUsername(ctx context.Context, username string) (*models.Account, error)

	// FindByID returns the account with the given id, active or not.
	FindByID(ctx context.Context, id int64) (*models.Account, error)

	// FindAll returns every stored account, active or not, ordered by id.
	FindAll(ctx context.Context) ([]*models.Account, error)

	// Save inserts the account when its ID is zero and updates it otherwise.
	// On insert the generated id is written back into account. The write is
	// visible to subsequent reads once Save returns.
	Save(ctx context.Context, account *models.Account) (*models.Account, error)
}
