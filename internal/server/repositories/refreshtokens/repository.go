// Package refreshtokens declares the repository contract for server-stored
// refresh tokens and its PostgreSQL implementation.
package refreshtokens

import (
	"context"
	"time"

	"github.com/groupfinal/accounts/internal/server/models"
)

// Repository defines operations for issuing and redeeming refresh tokens.
type Repository interface {
	// Create stores a new refresh token for accountID that expires at now+validity.
	Create(ctx context.Context, accountID int64, token string, validity time.Duration) error

	// Consume deletes the token and returns the row it removed, expired or
	// not. A token can be consumed once; later calls, and calls with an
	// unknown token, return common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
}
