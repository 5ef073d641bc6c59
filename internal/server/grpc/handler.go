package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/groupfinal/accounts/internal/api"
	"github.com/groupfinal/accounts/internal/common"
	"github.com/groupfinal/accounts/internal/server/models"
	"github.com/groupfinal/accounts/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	account, err := s.accounts.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err, codes.Unauthenticated)
	}

	tokens, err := s.tokens.IssueTokens(ctx, account.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err, codes.Unauthenticated)
	}

	s.logger.Info(ctx, "Logged in", "id", account.ID)

	return &api.LoginResponse{
		Account:      toAPIAccount(services.ToFullAccount(account)),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.tokens.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err, codes.Unauthenticated)
	}
	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) ListAccounts(ctx context.Context, req *api.ListAccountsRequest) (*api.ListAccountsResponse, error) {
	list, err := s.accounts.ListAllAccounts(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err, codes.PermissionDenied)
	}

	result := make([]*api.AccountSummary, 0, len(list))
	for _, a := range list {
		result = append(result, &api.AccountSummary{
			ID:      a.ID,
			Profile: toAPIProfile(a.Profile),
			Active:  a.Active,
			Status:  string(a.Status),
		})
	}
	return &api.ListAccountsResponse{Accounts: result}, nil
}

func (s *GRPCServer) CreateAccount(ctx context.Context, req *api.CreateAccountRequest) (*api.CreateAccountResponse, error) {
	adminID, ok := accountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	account, err := s.accounts.CreateAccount(ctx, services.CreateAccountRequest{
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
	}, adminID)
	if err != nil {
		return nil, s.toStatus(ctx, err, codes.PermissionDenied)
	}

	return &api.CreateAccountResponse{Account: toAPIAccount(services.ToFullAccount(account))}, nil
}

// toStatus maps directory and token errors onto gRPC codes. notAuthorized is
// the code used for ErrorNotAuthorized, which differs between login and the
// admin operations. Internal errors are logged and not echoed to the caller.
func (s *GRPCServer) toStatus(ctx context.Context, err error, notAuthorized codes.Code) error {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorNotAuthorized):
		return status.Error(notAuthorized, err.Error())
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	}

	s.logger.Error(ctx, "internal error", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func toAPIProfile(p models.Profile) api.Profile {
	return api.Profile{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
	}
}

func toAPIAccount(a services.FullAccount) *api.Account {
	return &api.Account{
		ID:       a.ID,
		Username: a.Username,
		Profile:  toAPIProfile(a.Profile),
		IsAdmin:  a.IsAdmin,
		Active:   a.Active,
		Status:   string(a.Status),
	}
}
