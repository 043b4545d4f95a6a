package models

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a staff account allowed to read submitted orders.
// Customers never log in; operators are seeded from configuration.
type Operator struct {
	// ID is the unique identifier for the operator (UUID format).
	ID string

	// Email is the login name (unique).
	Email string

	// DisplayName is shown in logs and tokens.
	DisplayName string

	// PasswordHash is the bcrypt hash of the operator password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewOperator creates an operator with a fresh ID and creation time.
func NewOperator(email, displayName, passwordHash string) *Operator {
	return &Operator{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
