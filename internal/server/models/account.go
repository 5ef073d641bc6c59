// Package models defines server-side data models persisted in the database.
package models

// Status is the lifecycle marker of an account.
type Status string

const (
	// StatusPending is set at creation and kept until the first successful login.
	StatusPending Status = "PENDING"
	// StatusJoined is set on the first successful login and never reverts.
	StatusJoined Status = "JOINED"
)

// Credentials is compared by value. Passwords are stored and compared as
// plain text.
type Credentials struct {
	Username string
	Password string
}

type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Account is one user of the directory. ID is zero until the account has been
// saved for the first time.
type Account struct {
	ID          int64
	Credentials Credentials
	Profile     Profile
	IsAdmin     bool
	Active      bool
	Status      Status
}
