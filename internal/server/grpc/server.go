// Package grpc exposes the account directory over gRPC: request handlers,
// the access-token and request-logging interceptors, and the server loop.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/groupfinal/accounts/internal/api"
	"github.com/groupfinal/accounts/internal/logging"
	"github.com/groupfinal/accounts/internal/server/models"
	"github.com/groupfinal/accounts/internal/server/services"
)

// AccountDirectory is the subset of services.AccountDirectory the handlers use.
type AccountDirectory interface {
	Authenticate(ctx context.Context, username, password string) (*models.Account, error)
	ListAllAccounts(ctx context.Context) ([]services.BasicAccount, error)
	CreateAccount(ctx context.Context, req services.CreateAccountRequest, adminID int64) (*models.Account, error)
}

// TokenIssuer is the subset of services.TokenService the handlers use.
type TokenIssuer interface {
	IssueTokens(ctx context.Context, accountID int64) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type GRPCServer struct {
	api.UnimplementedAccountServiceServer
	address   string
	accounts  AccountDirectory
	tokens    TokenIssuer
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer creates a server listening on a that verifies access tokens
// signed with secretKey.
func NewGRPCServer(a string, l logging.Logger, accounts AccountDirectory, tokens TokenIssuer, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		accounts:  accounts,
		tokens:    tokens,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is cancelled,
// then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterAccountServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
