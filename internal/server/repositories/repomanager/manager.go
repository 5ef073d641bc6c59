// Package repomanager vends repositories bound to a database handle and runs
// the schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/groupfinal/accounts/internal/dbx"
	"github.com/groupfinal/accounts/internal/server/repositories/accounts"
	"github.com/groupfinal/accounts/internal/server/repositories/refreshtokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
