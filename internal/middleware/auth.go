package middleware

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/internal/auth"
	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// ErrUnknownOperator is returned for a valid token whose operator was removed.
var ErrUnknownOperator = errors.New("operator no longer exists")

// OperatorLookup finds an operator by ID, returning nil, nil when none matches.
type OperatorLookup interface {
	GetOperatorByID(ctx context.Context, id string) (*models.Operator, error)
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// OperatorIDKey is the context key for the authenticated operator ID.
	OperatorIDKey contextKey = "operator_id"
	// EmailKey is the context key for the authenticated operator's email.
	EmailKey contextKey = "email"
)

// GetOperatorID extracts the operator ID from the context.
// Returns empty string for anonymous callers.
func GetOperatorID(ctx context.Context) string {
	id, _ := ctx.Value(OperatorIDKey).(string)
	return id
}

// GetEmail extracts the operator email from the context.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithOperator returns a context carrying the operator identity.
func WithOperator(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, OperatorIDKey, claims.OperatorID)
	return context.WithValue(ctx, EmailKey, claims.Email)
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

// RequireAuth returns an interceptor that rejects calls without a valid
// operator token and adds the operator identity to the request context.
// With a non-nil operators lookup, tokens of deleted operators are rejected.
func RequireAuth(jwtManager *auth.JWTManager, operators OperatorLookup) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			if operators != nil {
				op, err := operators.GetOperatorByID(ctx, claims.OperatorID)
				if err != nil {
					return nil, connect.NewError(connect.CodeInternal, err)
				}
				if op == nil {
					return nil, connect.NewError(connect.CodeUnauthenticated, ErrUnknownOperator)
				}
			}

			return next(WithOperator(ctx, claims), req)
		}
	}
}

// OptionalAuth adds the operator identity when a valid token is present and
// lets anonymous calls through. Order submission uses it so staff-entered
// orders are attributed in the logs.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token, ok := bearerToken(req.Header().Get("Authorization")); ok {
				if claims, err := jwtManager.Validate(token); err == nil {
					ctx = WithOperator(ctx, claims)
				}
			}
			return next(ctx, req)
		}
	}
}
