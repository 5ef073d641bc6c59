package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/groupfinal/accounts/internal/common"
	"github.com/groupfinal/accounts/internal/dbx"
	"github.com/groupfinal/accounts/internal/server/auth"
	"github.com/groupfinal/accounts/internal/server/config"
	"github.com/groupfinal/accounts/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService mints JWT access tokens and server-stored refresh tokens for
// authenticated accounts, and rotates refresh tokens.
type TokenService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewTokenService builds a TokenService that signs access tokens with
// cfg.SecretKey and stores refresh tokens through m.
func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// IssueTokens returns a fresh pair for accountID. Call it only after the
// account has been authenticated.
func (s *TokenService) IssueTokens(ctx context.Context, accountID int64) (*TokenPair, error) {
	return s.generateTokenPair(ctx, accountID, s.db)
}

// RefreshToken redeems a refresh token and returns a fresh TokenPair. The
// old token is deleted and the new pair stored in one transaction, so a token
// can be redeemed once even under concurrent calls. Unknown or already used
// tokens yield ErrInvalidToken. An expired token is deleted as well and yields
// ErrRefreshTokenExpired.
func (s *TokenService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var (
		pair    *TokenPair
		expired bool
	)
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if token.Expires.Before(time.Now()) {
			expired = true
			return nil
		}
		pair, err = s.generateTokenPair(ctx, token.AccountID, tx)
		return err
	}); err != nil {
		return nil, err
	}
	if expired {
		return nil, common.ErrRefreshTokenExpired
	}
	return pair, nil
}

func (s *TokenService) generateTokenPair(ctx context.Context, accountID int64, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(accountID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, accountID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
