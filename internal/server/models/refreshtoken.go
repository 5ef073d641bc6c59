package models

import "time"

type RefreshToken struct {
	ID        int64
	AccountID int64
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
