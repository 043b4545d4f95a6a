package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/internal/auth"
	"github.com/KamilKorczek/project-pizzeria/pkg/api"
	"github.com/KamilKorczek/project-pizzeria/pkg/api/apiconnect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Login authenticates an operator and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	op, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, expiresAt, err := s.jwtManager.Generate(op)
	if err != nil {
		s.logger.Error("Failed to generate token", "operator_id", op.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Operator logged in", "operator_id", op.ID, "email", op.Email)
	return connect.NewResponse(&api.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		Operator: api.Operator{
			ID:          op.ID,
			Email:       op.Email,
			DisplayName: op.DisplayName,
		},
	}), nil
}
