package services

import "github.com/groupfinal/accounts/internal/server/models"

// FullAccount is the account as returned to its owner or to an admin.
// The password never leaves the server.
type FullAccount struct {
	ID       int64
	Username string
	Profile  models.Profile
	IsAdmin  bool
	Active   bool
	Status   models.Status
}

// BasicAccount is the public summary used by listings: no credentials and no
// admin flag.
type BasicAccount struct {
	ID      int64
	Profile models.Profile
	Active  bool
	Status  models.Status
}

// CreateAccountRequest is what an admin supplies to provision an account.
// Activity and status are not part of it; new accounts always start active
// and PENDING.
type CreateAccountRequest struct {
	Credentials models.Credentials
	Profile     models.Profile
	IsAdmin     bool
}

// ToFullAccount maps a stored account to the view returned by login and
// creation. The password is dropped.
func ToFullAccount(a *models.Account) FullAccount {
	return FullAccount{
		ID:       a.ID,
		Username: a.Credentials.Username,
		Profile:  a.Profile,
		IsAdmin:  a.IsAdmin,
		Active:   a.Active,
		Status:   a.Status,
	}
}

// ToBasicAccount maps a stored account to the listing view.
func ToBasicAccount(a *models.Account) BasicAccount {
	return BasicAccount{
		ID:      a.ID,
		Profile: a.Profile,
		Active:  a.Active,
		Status:  a.Status,
	}
}

func newAccountFromRequest(req CreateAccountRequest) *models.Account {
	return &models.Account{
		Credentials: models.Credentials{
			Username: req.Credentials.Username,
			Password: req.Credentials.Password,
		},
		Profile: models.Profile{
			FirstName: req.Profile.FirstName,
			LastName:  req.Profile.LastName,
			Email:     req.Profile.Email,
			Phone:     req.Profile.Phone,
		},
		IsAdmin: req.IsAdmin,
		Active:  true,
		Status:  models.StatusPending,
	}
}
