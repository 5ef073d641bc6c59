package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/groupfinal/accounts/internal/api"
	"github.com/groupfinal/accounts/internal/common"
	"github.com/groupfinal/accounts/internal/server/auth"
)

type ctxKey string

const AccountIDKey ctxKey = "accountID"

// protectedMethods need a valid access token.
var protectedMethods = map[string]bool{
	api.AccountService_ListAccounts_FullMethodName:  true,
	api.AccountService_CreateAccount_FullMethodName: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	accountID, err := auth.GetAccountIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, AccountIDKey, accountID)
	return handler(ctx, req)
}

// loggingInterceptor tags every request with a fresh req_id and logs its
// outcome.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	log := s.logger.With("req_id", uuid.NewString(), "method", info.FullMethod)

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"code", code.String(), "duration", time.Since(start)}
	switch code {
	case codes.OK:
		log.Info(ctx, "request handled", args...)
	case codes.Internal, codes.Unknown:
		log.Error(ctx, "request failed", append(args, "error", err)...)
	default:
		log.Warn(ctx, "request rejected", append(args, "error", err)...)
	}

	return resp, err
}

func accountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(AccountIDKey).(int64)
	return id, ok
}
