package auth

import (
	"context"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// Authenticator verifies operator credentials.
// Customers never authenticate; only staff reading orders do.
type Authenticator interface {
	// Register creates an operator account with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.Operator, error)

	// Authenticate verifies the credentials and returns the operator.
	Authenticate(ctx context.Context, email, credential string) (*models.Operator, error)

	// ValidateCredential checks the credential against the implementation's rules.
	ValidateCredential(credential string) error
}
