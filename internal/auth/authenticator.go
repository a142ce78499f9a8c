// Package auth handles password credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/sharefare/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// It lets the auth service swap credential schemes without changing its handlers.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
