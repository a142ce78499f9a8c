// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/sharefare/internal/models"
)

// ErrNotFound is wrapped by every store error caused by a missing record.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. The ID must already be set.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID.
	// Users that don't exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateShare persists a new share with its participants.
	// The share.ID and share.CreatedAt fields will be populated by the store.
	CreateShare(ctx context.Context, share *models.Share) error

	// GetShare retrieves a share by ID, including its participants in order.
	GetShare(ctx context.Context, shareID string) (*models.Share, error)

	// ListSharesByCreator returns the shares a user created, newest first.
	ListSharesByCreator(ctx context.Context, creatorID string) ([]*models.Share, error)

	// ListSharesByParticipant returns the shares a user is a member of, newest first.
	ListSharesByParticipant(ctx context.Context, userID string) ([]*models.Share, error)

	// UpdateShare replaces the title, currency and participant list of a share.
	UpdateShare(ctx context.Context, share *models.Share) error

	// DeleteShare removes a share and all of its fares.
	DeleteShare(ctx context.Context, shareID string) error

	// GetParticipants returns the member user IDs of a share in stored order.
	GetParticipants(ctx context.Context, shareID string) ([]string, error)

	// CreateFare persists a new fare with its split.
	// The fare.ID and fare.CreatedAt fields will be populated by the store.
	CreateFare(ctx context.Context, fare *models.Fare) error

	// GetFare retrieves a fare by ID, including its split.
	GetFare(ctx context.Context, fareID string) (*models.Fare, error)

	// ListFaresByShare returns every fare of a share, most recent date first.
	ListFaresByShare(ctx context.Context, shareID string) ([]*models.Fare, error)

	// UpdateFare replaces a fare record as a whole.
	UpdateFare(ctx context.Context, fare *models.Fare) error

	// DeleteFare removes a fare by ID.
	DeleteFare(ctx context.Context, fareID string) error

	// Close releases any resources held by the store.
	Close() error
}
