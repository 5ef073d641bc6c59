// Package client is the gRPC client of the account service used by the CLI.
// It attaches the access token to every call and transparently refreshes an
// expired one.
package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/groupfinal/accounts/internal/api"
	"github.com/groupfinal/accounts/internal/common"
)

// TokenSaver persists tokens after a refresh.
type TokenSaver interface {
	SaveTokens(ctx context.Context, access, refresh string) error
}

type GRPCClient struct {
	conn   *grpc.ClientConn
	client api.AccountServiceClient
	saver  TokenSaver

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

// SetTokens installs tokens, typically loaded from the session store.
func (s *GRPCClient) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()
	if access != "" {
		ctx = withAccessToken(ctx, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil || method == api.AccountService_RefreshToken_FullMethodName {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, err := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
	if err != nil {
		return err
	}

	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	if s.saver != nil {
		if err := s.saver.SaveTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("save refreshed tokens: %w", err)
		}
	}

	ctx = withAccessToken(ctx, resp.AccessToken)
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAccountClient creates a client for endpoint. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewAccountClient(endpoint string, saver TokenSaver, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{saver: saver}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewAccountServiceClient(conn)
	return c, nil
}

// Close closes the underlying connection.
func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// Login authenticates and keeps the issued tokens. The caller decides
// whether to persist them.
func (s *GRPCClient) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return resp, nil
}

func (s *GRPCClient) ListAccounts(ctx context.Context) ([]*api.AccountSummary, error) {
	if access, _ := s.tokens(); access == "" {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.ListAccounts(ctx, &api.ListAccountsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Accounts, nil
}

func (s *GRPCClient) CreateAccount(ctx context.Context, req *api.CreateAccountRequest) (*api.Account, error) {
	if access, _ := s.tokens(); access == "" {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.CreateAccount(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Account, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrBadRequest, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
