// Package cli implements the account command-line client: a cobra command
// tree (ping, login, logout, list, create) over the gRPC client, with the
// login session kept in a local SQLite database between invocations.
package cli

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/groupfinal/accounts/internal/api"
	"github.com/groupfinal/accounts/internal/client/client"
	"github.com/groupfinal/accounts/internal/client/config"
	"github.com/groupfinal/accounts/internal/client/session"
)

// AccountClient is what the commands need from the gRPC client.
type AccountClient interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
	ListAccounts(ctx context.Context) ([]*api.AccountSummary, error)
	CreateAccount(ctx context.Context, req *api.CreateAccountRequest) (*api.Account, error)
	SetTokens(access, refresh string)
	Close() error
}

// SessionStore is what the commands need from the session database.
type SessionStore interface {
	client.TokenSaver
	Username(ctx context.Context) (string, error)
	Tokens(ctx context.Context) (access, refresh string, err error)
	SaveLogin(ctx context.Context, username, access, refresh string) error
	Clear(ctx context.Context) error
	Close() error
}

// Seams for tests.
var (
	openSession = func(ctx context.Context, dir string) (SessionStore, error) {
		return session.Open(ctx, dir)
	}
	dialClient = func(addr string, saver client.TokenSaver) (AccountClient, error) {
		return client.NewAccountClient(addr, saver)
	}
)

type App struct {
	config  *config.Config
	session SessionStore
	client  AccountClient
	in      *bufio.Reader
	out     io.Writer
}

// init opens the session and dials the server, restoring stored tokens.
func (a *App) init(ctx context.Context, cmd *cobra.Command) error {
	a.in = bufio.NewReader(cmd.InOrStdin())
	a.out = cmd.OutOrStdout()

	s, err := openSession(ctx, a.config.SessionDir)
	if err != nil {
		return err
	}
	a.session = s

	c, err := dialClient(a.config.ServerEndpointAddr, s)
	if err != nil {
		return err
	}
	a.client = c

	access, refresh, err := s.Tokens(ctx)
	if err != nil {
		return err
	}
	c.SetTokens(access, refresh)
	return nil
}

func (a *App) cleanup() error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.session != nil {
		errs = append(errs, a.session.Close())
	}
	return errors.Join(errs...)
}

// withTimeout bounds one RPC by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
