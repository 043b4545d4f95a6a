package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// OperatorStorage is the persistence the authenticator needs.
// Lookups return (nil, nil) when no operator matches.
type OperatorStorage interface {
	CreateOperator(ctx context.Context, op *models.Operator) error
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
}

// PasswordAuthenticator implements password authentication using bcrypt.
type PasswordAuthenticator struct {
	storage OperatorStorage
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

// NewPasswordAuthenticator creates a password-based authenticator.
func NewPasswordAuthenticator(storage OperatorStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates an operator with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.Operator, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	existing, err := a.storage.GetOperatorByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	op := models.NewOperator(email, displayName, string(hashed))
	if err := a.storage.CreateOperator(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}

	return op, nil
}

// EnsureOperator registers the operator unless the email is already taken.
// It is used to seed staff accounts from configuration on every start.
func (a *PasswordAuthenticator) EnsureOperator(ctx context.Context, email, displayName, credential string) (*models.Operator, bool, error) {
	op, err := a.Register(ctx, email, displayName, credential)
	if errors.Is(err, ErrEmailExists) {
		existing, err := a.storage.GetOperatorByEmail(ctx, normalizeEmail(email))
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return op, true, nil
}

// Authenticate verifies the email and password.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.Operator, error) {
	op, err := a.storage.GetOperatorByEmail(ctx, normalizeEmail(email))
	if err != nil || op == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return op, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
