// Package services contains server-side business logic: the account
// directory (login, listing, admin-gated provisioning) and the token service
// that mints and rotates JWT access tokens and refresh tokens.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/groupfinal/accounts/internal/common"
	"github.com/groupfinal/accounts/internal/logging"
	"github.com/groupfinal/accounts/internal/server/models"
	"github.com/groupfinal/accounts/internal/server/repositories/accounts"
)

// AccountDirectory owns lookup, authentication and provisioning of accounts.
//
// Passwords are stored and compared in plain text with ==. Nothing here
// serializes concurrent requests: two CreateAccount calls for the same
// username may both pass the uniqueness check, and only a store-level
// constraint (the partial unique index in Postgres) catches the loser.
type AccountDirectory struct {
	repo   accounts.Repository
	logger logging.Logger
}

// NewAccountDirectory constructs a directory over repo. The directory keeps
// no state of its own; every call goes to the repository.
func NewAccountDirectory(repo accounts.Repository, logger logging.Logger) *AccountDirectory {
	return &AccountDirectory{repo: repo, logger: logger}
}

// LookupActiveByUsername returns the active account holding username.
// A username that never existed and one that belongs only to inactive
// accounts both yield ErrorNotFound.
func (d *AccountDirectory) LookupActiveByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, err := d.repo.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: the username provided does not belong to an active user", common.ErrorNotFound)
		}
		return nil, err
	}
	return account, nil
}

// Authenticate checks username and password against the active account with
// that username. On the first successful login the account moves from
// PENDING to JOINED and is saved right away.
func (d *AccountDirectory) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorBadRequest)
	}

	candidate := models.Credentials{Username: username, Password: password}

	account, err := d.LookupActiveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if account.Credentials != candidate {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrorNotAuthorized)
	}

	if account.Status == models.StatusPending {
		account.Status = models.StatusJoined
		account, err = d.repo.Save(ctx, account)
		if err != nil {
			return nil, err
		}
		d.logger.Info(ctx, "account joined", "id", account.ID)
	}

	return account, nil
}

// ListAllAccounts returns every stored account, active or not, as basic
// views in store order. An empty store yields an empty, non-nil slice.
func (d *AccountDirectory) ListAllAccounts(ctx context.Context) ([]BasicAccount, error) {
	all, err := d.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]BasicAccount, 0, len(all))
	for _, a := range all {
		result = append(result, ToBasicAccount(a))
	}
	return result, nil
}

// CreateAccount provisions a new account on behalf of adminID.
//
// Checks run in this order and the first failure wins: the requester must
// exist (ErrorNotFound), must be an admin (ErrorNotAuthorized), and the
// payload must carry a username and password that no active account holds
// (ErrorBadRequest). The requester is resolved by id without looking at its
// active flag.
func (d *AccountDirectory) CreateAccount(ctx context.Context, req CreateAccountRequest, adminID int64) (*models.Account, error) {
	admin, err := d.repo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: requesting account %d does not exist", common.ErrorNotFound, adminID)
		}
		return nil, err
	}

	if !admin.IsAdmin {
		return nil, fmt.Errorf("%w: only admins can create new users", common.ErrorNotAuthorized)
	}

	username := req.Credentials.Username
	if username == "" || req.Credentials.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorBadRequest)
	}

	_, err = d.repo.FindActiveByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: the username '%s' is already taken", common.ErrorBadRequest, username)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	account, err := d.repo.Save(ctx, newAccountFromRequest(req))
	if err != nil {
		return nil, err
	}

	d.logger.Info(ctx, "account created", "id", account.ID, "by", adminID)
	return account, nil
}

// EnsureAdmin creates an admin account with the given credentials unless an
// active admin already holds the username. It is used at startup so a fresh
// store has someone allowed to create accounts. An active account with that
// username that is not an admin is reported as ErrorBadRequest and left
// untouched.
func (d *AccountDirectory) EnsureAdmin(ctx context.Context, username, password string) (*models.Account, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorBadRequest)
	}

	existing, err := d.repo.FindActiveByUsername(ctx, username)
	if err == nil {
		if !existing.IsAdmin {
			return nil, fmt.Errorf("%w: bootstrap user '%s' exists but is not an admin", common.ErrorBadRequest, username)
		}
		return existing, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	account, err := d.repo.Save(ctx, newAccountFromRequest(CreateAccountRequest{
		Credentials: models.Credentials{Username: username, Password: password},
		IsAdmin:     true,
	}))
	if err != nil {
		return nil, err
	}

	d.logger.Info(ctx, "bootstrap admin created", "id", account.ID, "username", username)
	return account, nil
}
